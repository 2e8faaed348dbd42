package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/ui"
)

// JobStarter starts analysis jobs. orchestration.Coordinator implements it.
type JobStarter interface {
	StartJob(ctx context.Context, sel analysis.Selection) (*orchestration.Job, error)
}

// RunConfig holds the options of a single non-interactive analysis.
type RunConfig struct {
	Selection analysis.Selection
	Output    OutputConfig
}

// PrintExecutionConfig displays what is about to be analyzed.
func PrintExecutionConfig(sel analysis.Selection, apiURL string, out io.Writer) {
	fmt.Fprintf(out, "--- Analysis ---\n")
	fmt.Fprintf(out, "Region: %s%s%s, technology: %s%s%s\n",
		ui.ColorHeading(), optionName(analysis.Regions(), sel.Region), ui.ColorReset(),
		ui.ColorHeading(), optionName(analysis.Technologies(), sel.Technology), ui.ColorReset())
	fmt.Fprintf(out, "Service: %s%s%s\n\n", ui.ColorLink(), apiURL, ui.ColorReset())
}

func optionName[T ~string](options []analysis.Option[T], id T) string {
	for _, o := range options {
		if o.ID == id {
			return o.Icon + " " + o.Name
		}
	}
	return string(id)
}

// RunAnalysis runs one job to completion, reports its progress unless quiet,
// displays its outcome and returns the process exit code.
func RunAnalysis(ctx context.Context, starter JobStarter, store *orchestration.Store, cfg RunConfig, out io.Writer) int {
	if !cfg.Output.Quiet {
		reporter := NewProgressReporter(out)
		detach := reporter.Attach(store)
		defer func() {
			detach()
			reporter.Stop()
		}()
	}

	job, err := starter.StartJob(ctx, cfg.Selection)
	if err != nil {
		if !errors.As(err, new(apperrors.ValidationError)) {
			fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorError(), err, ui.ColorReset())
			return apperrors.ExitCodeFor(err)
		}
		DisplayResultWithConfig(out, store.Snapshot(), cfg.Output)
		return apperrors.ExitCodeFor(err)
	}

	if err := job.Wait(ctx); err != nil && ctx.Err() != nil {
		fmt.Fprintf(out, "\n%sAnalysis canceled: %v%s\n", ui.ColorNotice(), ctx.Err(), ui.ColorReset())
		return apperrors.ExitCodeFor(ctx.Err())
	}
	jobErr := job.Err()

	state := store.Snapshot()
	if state.Generation != job.Generation() {
		return apperrors.ExitCodeFor(jobErr)
	}
	if err := DisplayResultWithConfig(out, state, cfg.Output); err != nil {
		fmt.Fprintf(out, "%sError saving result: %v%s\n", ui.ColorError(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitCodeFor(jobErr)
}
