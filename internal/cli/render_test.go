package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/progress"
	"github.com/agbru/epanalyzer/internal/view"
)

func TestDisplayViewModel(t *testing.T) {
	t.Parallel()
	ev := progress.Event{Country: "Ireland", Step: progress.StepStarting}

	tests := []struct {
		name     string
		vm       view.ViewModel
		contains []string
		empty    bool
	}{
		{
			name:  "loading prints nothing",
			vm:    view.Present(loadingState(1, &ev)),
			empty: true,
		},
		{
			name:     "validation notice",
			vm:       view.Present(orchestration.JobState{Notice: "Please select both region and technology"}),
			contains: []string{"❌ Please select both region and technology"},
		},
		{
			name: "result",
			vm:   view.Present(succeededState()),
			contains: []string{
				"Countries analyzed: Ireland, Romania",
				"Projects: 2",
				"• Statkraft",
				"Location:   Offaly",
				"• No key points available.",
				"Partners: EBRD",
				"Sources",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayViewModel(tt.vm, &buf)
			output := buf.String()
			if tt.empty && output != "" {
				t.Errorf("expected no output, got:\n%s", output)
			}
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
		})
	}
}

func TestDisplayProjectCard_OmitsEmptySections(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayProjectCard(view.ProjectCard{Name: "Bare", KeyPoints: []string{view.NoKeyPoints}}, &buf)
	output := buf.String()
	for _, s := range []string{"Partners", "Read More", "Location"} {
		if strings.Contains(output, s) {
			t.Errorf("card should omit %q, got:\n%s", s, output)
		}
	}
}
