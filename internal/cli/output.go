// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayViewModel], [DisplayQuietResult], [DisplayError].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatStatusLine].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/ui"
	"github.com/agbru/epanalyzer/internal/view"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result to (empty for no file output).
	OutputFile string
	// Quiet prints only the project count.
	Quiet bool
}

// ResultDocument is the JSON layout written by WriteResultToFile.
type ResultDocument struct {
	GeneratedAt   string                  `json:"generated_at"`
	JobID         string                  `json:"job_id"`
	Region        analysis.Region         `json:"region"`
	Technology    analysis.Technology     `json:"technology"`
	Variant       string                  `json:"variant"`
	Duration      string                  `json:"duration"`
	Result        analysis.AnalysisResult `json:"result"`
	SearchResults []analysis.SearchResult `json:"search_results"`
}

// NewResultDocument builds the document for a succeeded state. ok is false
// when s carries no result.
func NewResultDocument(s orchestration.JobState, now time.Time) (ResultDocument, bool) {
	if s.Phase != orchestration.PhaseSucceeded || s.Result == nil {
		return ResultDocument{}, false
	}
	results := s.SearchResults
	if results == nil {
		results = []analysis.SearchResult{}
	}
	return ResultDocument{
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		JobID:         s.JobID,
		Region:        s.Selection.Region,
		Technology:    s.Selection.Technology,
		Variant:       s.Variant.String(),
		Duration:      s.Elapsed(now).String(),
		Result:        *s.Result,
		SearchResults: results,
	}, true
}

// WriteResultToFile writes the result of s as indented JSON to
// config.OutputFile, creating parent directories as needed. It is a no-op
// without an output file or a result.
func WriteResultToFile(s orchestration.JobState, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	doc, ok := NewResultDocument(s, time.Now())
	if !ok {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(config.OutputFile, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult returns the project count of vm, suitable for scripting.
func FormatQuietResult(vm view.ViewModel) string {
	if vm.Summary == nil {
		return "0"
	}
	return strconv.Itoa(vm.Summary.ProjectCount)
}

// DisplayQuietResult outputs a result in quiet mode.
func DisplayQuietResult(out io.Writer, vm view.ViewModel) {
	fmt.Fprintln(out, FormatQuietResult(vm))
}

// DisplayResultWithConfig displays the final state of a job and saves it
// when an output file is configured. Errors are always displayed, even in
// quiet mode.
func DisplayResultWithConfig(out io.Writer, s orchestration.JobState, config OutputConfig) error {
	vm := view.Present(s)
	switch {
	case vm.Error != nil:
		DisplayError(*vm.Error, out)
	case config.Quiet:
		DisplayQuietResult(out, vm)
	default:
		DisplayViewModel(vm, out)
	}

	if config.OutputFile != "" && vm.Summary != nil {
		if err := WriteResultToFile(s, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorSuccess(), ui.ColorLink(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
