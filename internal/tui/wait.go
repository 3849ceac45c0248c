// Package tui renders a small progress view while a request is in flight.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/brizzai/backend-client/internal/backend"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned by Wait when the user quits before the outcome arrives.
var ErrAborted = errors.New("aborted before the response arrived")

// OutcomeMsg carries the request outcome into the program.
type OutcomeMsg struct {
	Outcome backend.Outcome[any]
}

type waitKeyMap struct {
	quit key.Binding
}

func newWaitKeyMap() waitKeyMap {
	return waitKeyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "esc"),
			key.WithHelp("ctrl+c/q", "Quit"),
		),
	}
}

// WaitModel shows a spinner until the outcome channel delivers.
type WaitModel struct {
	title    string
	spinner  spinner.Model
	keys     waitKeyMap
	outcomes <-chan backend.Outcome[any]
	started  time.Time
	elapsed  time.Duration
	outcome  *backend.Outcome[any]
	aborted  bool
}

// NewWaitModel creates a WaitModel reading from outcomes.
func NewWaitModel(title string, outcomes <-chan backend.Outcome[any]) WaitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return WaitModel{
		title:    title,
		spinner:  s,
		keys:     newWaitKeyMap(),
		outcomes: outcomes,
		started:  time.Now(),
	}
}

// Init starts the spinner and the channel receive
func (m WaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForOutcome(m.outcomes))
}

func waitForOutcome(outcomes <-chan backend.Outcome[any]) tea.Cmd {
	return func() tea.Msg {
		return OutcomeMsg{Outcome: <-outcomes}
	}
}

// Update handles messages for the wait view
func (m WaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OutcomeMsg:
		outcome := msg.Outcome
		m.outcome = &outcome
		m.elapsed = time.Since(m.started)
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.aborted = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the wait view
func (m WaitModel) View() string {
	header := titleStyle.Render(m.title)

	switch {
	case m.outcome != nil && m.outcome.OK():
		return docStyle.Render(fmt.Sprintf("%s\n\n%s", header,
			completeMessageStyle(fmt.Sprintf("done in %s", m.elapsed.Round(time.Millisecond)))))
	case m.outcome != nil:
		return docStyle.Render(fmt.Sprintf("%s\n\n%s", header,
			failedMessageStyle(fmt.Sprintf("%s after %s", m.outcome.Err.Kind, m.elapsed.Round(time.Millisecond)))))
	case m.aborted:
		return docStyle.Render(fmt.Sprintf("%s\n\n%s", header, statusMessageStyle("aborted")))
	default:
		return docStyle.Render(fmt.Sprintf("%s\n\n%s waiting for response...\n\n%s",
			header, m.spinner.View(), helpStyle(m.keys.quit.Help().Key+": quit")))
	}
}

// Outcome returns the delivered outcome, if any.
func (m WaitModel) Outcome() (backend.Outcome[any], bool) {
	if m.outcome == nil {
		return backend.Outcome[any]{}, false
	}
	return *m.outcome, true
}

// Wait runs the wait view until outcomes delivers or the user quits.
func Wait(title string, outcomes <-chan backend.Outcome[any], opts ...tea.ProgramOption) (backend.Outcome[any], error) {
	final, err := tea.NewProgram(NewWaitModel(title, outcomes), opts...).Run()
	if err != nil {
		return backend.Outcome[any]{}, fmt.Errorf("error running wait view: %w", err)
	}
	model, ok := final.(WaitModel)
	if !ok {
		return backend.Outcome[any]{}, fmt.Errorf("unexpected model type %T", final)
	}
	outcome, ok := model.Outcome()
	if !ok {
		return backend.Outcome[any]{}, ErrAborted
	}
	return outcome, nil
}
