package tui

import (
	"fmt"

	"github.com/brizzai/backend-client/internal/catalog"
	"github.com/brizzai/backend-client/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// pickerKeyMap holds key bindings for the picker actions.
type pickerKeyMap struct {
	choose key.Binding
	quit   key.Binding
}

func newPickerKeyMap(delegateKeys *delegateKeyMap) *pickerKeyMap {
	return &pickerKeyMap{
		choose: delegateKeys.choose,
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
	}
}

// PickerModel lists catalog routes and lets the user choose one.
type PickerModel struct {
	list   list.Model
	keys   *pickerKeyMap
	chosen *catalog.Route
}

// NewPickerModel creates a picker over routes.
func NewPickerModel(title string, routes []catalog.Route) PickerModel {
	items := make([]list.Item, len(routes))
	for i, r := range routes {
		items[i] = models.RouteItem{Route: r}
	}

	delegateKeys := newDelegateKeyMap()
	keys := newPickerKeyMap(delegateKeys)

	l := list.New(items, newItemDelegate(delegateKeys), 0, 0)
	l.Title = titleStyle.Render(title)
	l.SetShowFilter(true)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.quit}
	}

	return PickerModel{list: l, keys: keys}
}

// Init returns the initial command for the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While filtering, enter confirms the filter instead of choosing.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.choose):
			item, ok := m.list.SelectedItem().(models.RouteItem)
			if !ok {
				return m, m.list.NewStatusMessage(statusMessageStyle("No route selected"))
			}
			route := item.Route
			m.chosen = &route
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the route list
func (m PickerModel) View() string {
	if m.chosen != nil {
		return ""
	}
	return docStyle.Render(m.list.View())
}

// Chosen returns the route the user picked, if any.
func (m PickerModel) Chosen() (catalog.Route, bool) {
	if m.chosen == nil {
		return catalog.Route{}, false
	}
	return *m.chosen, true
}

// Pick shows routes in a filterable list and returns the one the user chose.
func Pick(title string, routes []catalog.Route, opts ...tea.ProgramOption) (catalog.Route, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewPickerModel(title, routes), opts...).Run()
	if err != nil {
		return catalog.Route{}, fmt.Errorf("error running route picker: %w", err)
	}
	model, ok := final.(PickerModel)
	if !ok {
		return catalog.Route{}, fmt.Errorf("unexpected model type %T", final)
	}
	route, ok := model.Chosen()
	if !ok {
		return catalog.Route{}, ErrAborted
	}
	return route, nil
}
