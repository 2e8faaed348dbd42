package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	"github.com/agbru/epanalyzer/internal/format"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Selection is the initial region and technology; either may be empty.
	Selection analysis.Selection
	// APIURL is shown by the status command.
	APIURL string
	// Timeout is shown by the status command; the coordinator enforces it.
	Timeout time.Duration
	Output  OutputConfig
}

// REPL is an interactive prompt driving the coordinator one job at a time.
type REPL struct {
	config  REPLConfig
	starter JobStarter
	store   *orchestration.Store
	sel     analysis.Selection
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL instance.
func NewREPL(starter JobStarter, store *orchestration.Store, config REPLConfig) *REPL {
	return &REPL{
		config:  config,
		starter: starter,
		store:   store,
		sel:     config.Selection,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Selection returns the current region and technology.
func (r *REPL) Selection() analysis.Selection { return r.sel }

// Start reads and executes commands until exit, EOF or ctx is done.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorSuccess()+"epa> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorError(), err, ui.ColorReset())
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorHeading(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s⚡ Energy Projects Analyzer - Interactive Mode%s        %s║%s\n",
		ui.ColorHeading(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorHeading(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorHeading(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sregion <id>%s   - Select the region (%s)\n", ui.ColorLabel(), ui.ColorReset(), strings.Join(regionIDs(), ", "))
	fmt.Fprintf(r.out, "  %stech <id>%s     - Select the technology (%s)\n", ui.ColorLabel(), ui.ColorReset(), strings.Join(technologyIDs(), ", "))
	fmt.Fprintf(r.out, "  %srun%s           - Analyze projects for the current selection\n", ui.ColorLabel(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s          - List regions and technologies\n", ui.ColorLabel(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display the current selection and last outcome\n", ui.ColorLabel(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ui.ColorLabel(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s  - Exit interactive mode\n", ui.ColorLabel(), ui.ColorReset(), ui.ColorLabel(), ui.ColorReset())
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "region", "r":
		r.cmdRegion(args)
	case "tech", "technology", "t":
		r.cmdTech(args)
	case "run", "analyze", "go":
		r.cmdRun(ctx)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorSuccess(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorError(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorLabel(), ui.ColorReset())
	}
	return true
}

func (r *REPL) cmdRegion(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: region <id>%s\n", ui.ColorError(), ui.ColorReset())
		return
	}
	region := analysis.Region(strings.ToUpper(args[0]))
	if !region.Valid() {
		fmt.Fprintf(r.out, "%sUnknown region: %s%s\n", ui.ColorError(), args[0], ui.ColorReset())
		fmt.Fprintf(r.out, "Available regions: %s\n", strings.Join(regionIDs(), ", "))
		return
	}
	r.sel.Region = region
	fmt.Fprintf(r.out, "Region set to: %s%s%s\n", ui.ColorSuccess(), optionName(analysis.Regions(), region), ui.ColorReset())
}

func (r *REPL) cmdTech(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: tech <id>%s\n", ui.ColorError(), ui.ColorReset())
		return
	}
	tech := analysis.Technology(strings.ToLower(args[0]))
	if !tech.Valid() {
		fmt.Fprintf(r.out, "%sUnknown technology: %s%s\n", ui.ColorError(), args[0], ui.ColorReset())
		fmt.Fprintf(r.out, "Available technologies: %s\n", strings.Join(technologyIDs(), ", "))
		return
	}
	r.sel.Technology = tech
	fmt.Fprintf(r.out, "Technology set to: %s%s%s\n", ui.ColorSuccess(), optionName(analysis.Technologies(), tech), ui.ColorReset())
}

func (r *REPL) cmdRun(ctx context.Context) {
	RunAnalysis(ctx, r.starter, r.store, RunConfig{Selection: r.sel, Output: r.config.Output}, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sRegions:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, o := range analysis.Regions() {
		r.listEntry(string(o.ID), o.Icon+" "+o.Name, o.ID == r.sel.Region)
	}
	fmt.Fprintf(r.out, "%sTechnologies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, o := range analysis.Technologies() {
		r.listEntry(string(o.ID), o.Icon+" "+o.Name, o.ID == r.sel.Technology)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) listEntry(id, name string, selected bool) {
	marker := "  "
	if selected {
		marker = ui.ColorSuccess() + "► " + ui.ColorReset()
	}
	fmt.Fprintf(r.out, "%s%s%-8s%s - %s\n", marker, ui.ColorLabel(), id, ui.ColorReset(), name)
}

func (r *REPL) cmdStatus() {
	state := r.store.Snapshot()
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Region:      %s%s%s\n", ui.ColorMuted(), orNone(string(r.sel.Region)), ui.ColorReset())
	fmt.Fprintf(r.out, "  Technology:  %s%s%s\n", ui.ColorMuted(), orNone(string(r.sel.Technology)), ui.ColorReset())
	fmt.Fprintf(r.out, "  Service:     %s%s%s\n", ui.ColorLink(), r.config.APIURL, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:     %s%s%s\n", ui.ColorMuted(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Last job:    %s%s%s", ui.ColorMuted(), state.Phase, ui.ColorReset())
	if !state.StartedAt.IsZero() {
		fmt.Fprintf(r.out, " (%s)", format.FormatExecutionDuration(state.Elapsed(time.Now())))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
