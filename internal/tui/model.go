package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/format"
	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/view"
)

// Layout constants for the dashboard.
const (
	headerHeight     = 1
	controlsHeight   = 3
	statusHeight     = 1
	minResultsHeight = 3
	progressBarWidth = 24
	tickInterval     = time.Second
)

// JobStarter launches analysis jobs. *orchestration.Coordinator implements it.
type JobStarter interface {
	StartJob(ctx context.Context, sel analysis.Selection) (*orchestration.Job, error)
}

type focus int

const (
	focusRegion focus = iota
	focusTechnology
)

// Options configures the dashboard.
type Options struct {
	Version string
	// Selection presets the selectors. Empty fields start unselected.
	Selection analysis.Selection
	Logger    logging.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
	// ProgramOptions are appended to the bubbletea program options.
	ProgramOptions []tea.ProgramOption
}

// Model is the root bubbletea model for the dashboard. It owns the JobState
// and advances it only through orchestration.Transition.
type Model struct {
	orchestration.JobState

	header  HeaderModel
	footer  FooterModel
	session SessionModel
	region  SelectorModel[analysis.Region]
	tech    SelectorModel[analysis.Technology]
	results viewport.Model
	keymap  KeyMap
	focus   focus

	ctx     context.Context
	starter JobStarter
	logger  logging.Logger
	now     func() time.Time

	// last is the selection of the most recent start request, for retry.
	last     analysis.Selection
	startErr string
	ticking  bool
	width    int
	height   int
	exitCode int
}

// NewModel creates the dashboard model.
func NewModel(ctx context.Context, starter JobStarter, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		header:   NewHeaderModel(opts.Version),
		footer:   NewFooterModel(),
		session:  NewSessionModel(),
		region:   NewSelector("Region", analysis.Regions(), opts.Selection.Region),
		tech:     NewSelector("Technology", analysis.Technologies(), opts.Selection.Technology),
		results:  viewport.New(0, minResultsHeight),
		keymap:   DefaultKeyMap(),
		ctx:      ctx,
		starter:  starter,
		logger:   opts.Logger,
		now:      opts.Now,
		exitCode: apperrors.ExitSuccess,
	}
	m.refreshResults()
	return m
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return watchContextCmd(m.ctx)
}

// ExitCode returns the process exit code once the program has ended.
func (m Model) ExitCode() int { return m.exitCode }

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case CoordinatorMsg:
		return m.applyCoordinator(msg.Msg)

	case StartFailedMsg:
		m.startErr = msg.Err.Error()
		m.logger.Warn("job could not be started", logging.Err(msg.Err))
		return m, nil

	case TickMsg:
		if !m.Loading() {
			m.ticking = false
			return m, nil
		}
		return m, tickCmd()

	case ContextCancelledMsg:
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) applyCoordinator(msg orchestration.Msg) (tea.Model, tea.Cmd) {
	prev := m.JobState
	m.JobState = orchestration.Transition(prev, msg)
	m.session.Observe(msg, prev, m.JobState)

	var cmd tea.Cmd
	switch msg.(type) {
	case orchestration.JobStartedMsg:
		if m.Generation != prev.Generation {
			m.startErr = ""
			m.refreshResults()
		}
		if m.Loading() && !m.ticking {
			m.ticking = true
			cmd = tickCmd()
		}
	case orchestration.JobSucceededMsg, orchestration.JobFailedMsg:
		if m.Phase != prev.Phase {
			m.refreshResults()
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Focus):
		if m.focus == focusRegion {
			m.focus = focusTechnology
		} else {
			m.focus = focusRegion
		}
		return m, nil

	case key.Matches(msg, m.keymap.Prev), key.Matches(msg, m.keymap.Next):
		next := key.Matches(msg, m.keymap.Next)
		switch {
		case m.focus == focusRegion && next:
			m.region.Next()
		case m.focus == focusRegion:
			m.region.Prev()
		case next:
			m.tech.Next()
		default:
			m.tech.Prev()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Analyze):
		m.last = m.Selected()
		return m, startJobCmd(m.ctx, m.starter, m.last)

	case key.Matches(msg, m.keymap.Retry):
		if m.last == (analysis.Selection{}) {
			m.last = m.Selected()
		}
		return m, startJobCmd(m.ctx, m.starter, m.last)

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleFull()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Selected returns the current selector values.
func (m Model) Selected() analysis.Selection {
	return analysis.Selection{Region: m.region.Value(), Technology: m.tech.Value()}
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	vm := view.Present(m.JobState)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(m.JobState, m.now()),
		m.controlsView(vm),
		m.statusView(vm),
		panelStyle.Width(m.width-2).Render(m.results.View()),
		m.footer.View(m.keymap, m.session),
	)
}

func (m Model) controlsView(vm view.ViewModel) string {
	button := buttonStyle.Render(vm.Button.Label)
	if vm.Button.Disabled {
		button = buttonDisabledStyle.Render(vm.Button.Label)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		m.region.View(m.focus == focusRegion), "   ",
		m.tech.View(m.focus == focusTechnology), "   ",
		button,
	)
	return panelStyle.Width(m.width - 2).Render(row)
}

// statusView is the progress and error region.
func (m Model) statusView(vm view.ViewModel) string {
	switch {
	case m.startErr != "":
		return " " + errorStyle.Render(view.ErrorIcon+" "+m.startErr)
	case vm.Error != nil && vm.Error.Kind == view.ErrorValidation:
		return " " + noticeStyle.Render(vm.Error.Icon+" "+vm.Error.Message)
	case vm.Error != nil:
		return " " + errorStyle.Render(vm.Error.Icon+" "+vm.Error.Message)
	case vm.Status != nil:
		return " " + progressStyle.Render(vm.Status.Text+"  "+format.ProgressBar(vm.Status.Fraction, progressBarWidth))
	case vm.Loading:
		return " " + progressStyle.Render(view.ButtonLoading)
	}
	return ""
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.session.SetWidth(m.width)

	footerHeight := lipgloss.Height(m.footer.View(m.keymap, m.session))
	h := m.height - headerHeight - controlsHeight - statusHeight - footerHeight - 2
	m.results.Width = max(m.width-4, 0)
	m.results.Height = max(h, minResultsHeight)
	m.refreshContent()
}

// refreshResults replaces the panel content and scrolls back to the top.
func (m *Model) refreshResults() {
	m.refreshContent()
	m.results.GotoTop()
}

func (m *Model) refreshContent() {
	m.results.SetContent(RenderResults(view.Present(m.JobState), m.results.Width))
}

// Run is the public entry point for the TUI mode. bridge must be the
// dispatcher the starter reports to. It returns the exit code.
func Run(ctx context.Context, starter JobStarter, bridge *Bridge, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, starter, opts)
	progOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, opts.ProgramOptions...)
	p := tea.NewProgram(model, progOpts...)
	bridge.SetProgram(p)
	defer bridge.SetProgram(nil)

	finalModel, err := p.Run()
	if err != nil {
		model.logger.Error("dashboard stopped", err)
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startJobCmd asks the starter for a job off the program loop, because the
// start is dispatched back through the bridge.
func startJobCmd(ctx context.Context, starter JobStarter, sel analysis.Selection) tea.Cmd {
	return func() tea.Msg {
		_, err := starter.StartJob(ctx, sel)
		var verr apperrors.ValidationError
		if err == nil || errors.As(err, &verr) {
			return nil
		}
		return StartFailedMsg{Err: err}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
