package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/agbru/epanalyzer/internal/analysis"
)

func runREPL(t *testing.T, input string) (string, *REPL) {
	t.Helper()
	coord, store := newTestCoordinator(t, okFetcher)
	r := NewREPL(coord, store, REPLConfig{APIURL: "http://127.0.0.1:8000", Output: OutputConfig{Quiet: true}})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	r.Start(context.Background())
	return out.String(), r
}

func TestREPL_Commands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		contains []string
		wantSel  analysis.Selection
	}{
		{
			name:     "select and run",
			input:    "region eu\ntech SOLAR\nrun\nexit\n",
			contains: []string{"Region set to: 🇪🇺 European Union", "Technology set to: ☀️ Solar", "2\n", "Goodbye!"},
			wantSel:  euSolar,
		},
		{
			name:     "run without selection",
			input:    "run\nquit\n",
			contains: []string{analysis.SelectionRequiredMessage},
		},
		{
			name:     "unknown values",
			input:    "region mars\ntech coal\nregion\nfly\n",
			contains: []string{"Unknown region: mars", "Unknown technology: coal", "Usage: region <id>", "Unknown command: fly"},
		},
		{
			name:     "list and status",
			input:    "region USA\nlist\nstatus\nhelp\n",
			contains: []string{"► USA", "bess", "Region:      USA", "Technology:  (none)", "Last job:    idle", "Available commands:"},
			wantSel:  analysis.Selection{Region: analysis.RegionUSA},
		},
		{
			name:     "eof without newline",
			input:    "region EU",
			contains: []string{"Region set to", "Goodbye!"},
			wantSel:  analysis.Selection{Region: analysis.RegionEU},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			output, r := runREPL(t, tt.input)
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
			if r.Selection() != tt.wantSel {
				t.Errorf("Selection = %+v, want %+v", r.Selection(), tt.wantSel)
			}
		})
	}
}

func TestREPL_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()
	coord, store := newTestCoordinator(t, okFetcher)
	r := NewREPL(coord, store, REPLConfig{})
	var out bytes.Buffer
	r.SetInput(strings.NewReader("list\n"))
	r.SetOutput(&out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Start(ctx)
	if strings.Contains(out.String(), "Regions:") {
		t.Error("no command should run once the context is done")
	}
}
