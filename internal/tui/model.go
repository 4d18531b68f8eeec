// Package tui is the interactive terminal front-end of the explorer.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"ndexplorer/internal/explorer"
	"ndexplorer/internal/models"
)

// headerLines is the height of everything above the log list.
const headerLines = 5

type editTarget int

const (
	editNone editTarget = iota
	editFrom
	editTo
	editDomain
	editTracker
)

var statusCycle = []models.Status{
	models.StatusAny,
	models.StatusDefault,
	models.StatusBlocked,
	models.StatusAllowed,
	models.StatusError,
}

// Dispatcher is the part of explorer.Dispatcher the model drives.
type Dispatcher interface {
	Post(ev explorer.Event) bool
	Snapshot() explorer.Snapshot
	Now() time.Time
}

// Observer receives viewport positions after every scroll or redraw.
type Observer interface {
	Observe(v explorer.Viewport)
}

type snapshotMsg explorer.Snapshot

type Model struct {
	dispatcher Dispatcher
	scroll     Observer

	snap     explorer.Snapshot
	viewport viewport.Model
	input    textinput.Model
	editing  editTarget

	width     int
	ready     bool
	statusIdx int
	deviceIdx int
}

func NewModel(d Dispatcher, scroll Observer) Model {
	ti := textinput.New()
	ti.CharLimit = 128
	return Model{
		dispatcher: d,
		scroll:     scroll,
		snap:       d.Snapshot(),
		input:      ti,
	}
}

func (m Model) Init() tea.Cmd {
	d := m.dispatcher
	return func() tea.Msg {
		d.Post(explorer.ConnectRequested{})
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		vpHeight := max(msg.Height-headerLines-1, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.refreshContent()
		return m, nil

	case snapshotMsg:
		prev := m.snap
		m.snap = explorer.Snapshot(msg)
		if m.ready {
			m.refreshContent()
			if m.snap.State.Accumulator.Session.Token != prev.State.Accumulator.Session.Token {
				m.viewport.GotoTop()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		cmd, handled, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		if handled {
			m.observeViewport()
			return m, cmd
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.observeViewport()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, handled, quit bool) {
	st := m.snap.State
	switch msg.String() {
	case "q", "ctrl+c":
		return nil, true, true
	case "enter":
		m.dispatcher.Post(explorer.SearchRequested{})
	case "1":
		m.selectPreset(models.Preset1h)
	case "2":
		m.selectPreset(models.Preset24h)
	case "3":
		m.selectPreset(models.Preset3d)
	case "f":
		return m.startEditing(editFrom, st.Form.From), true, false
	case "t":
		return m.startEditing(editTo, st.Form.To), true, false
	case "/":
		return m.startEditing(editDomain, st.Filters.DomainQuery), true, false
	case "m":
		return m.startEditing(editTracker, st.Filters.TrackerQuery), true, false
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		m.dispatcher.Post(explorer.StatusChanged{Status: string(statusCycle[m.statusIdx])})
	case "d":
		m.deviceIdx = (m.deviceIdx + 1) % (len(st.Devices) + 1)
		id := ""
		if m.deviceIdx > 0 {
			id = st.Devices[m.deviceIdx-1].ID
		}
		m.dispatcher.Post(explorer.DeviceChanged{DeviceID: id})
	case "h":
		filters := st.Filters
		filters.HideTrackers = !filters.HideTrackers
		m.dispatcher.Post(explorer.FilterChanged{Filters: filters})
	case "a":
		m.dispatcher.Post(explorer.RefreshToggled{Interval: 30})
	case "b":
		m.dispatcher.Post(explorer.RefreshToggled{Interval: 60})
	case "c":
		m.dispatcher.Post(explorer.RefreshToggled{Interval: 300})
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	default:
		return nil, false, false
	}
	return nil, true, false
}

func (m *Model) selectPreset(p models.Preset) {
	m.dispatcher.Post(explorer.PresetSelected{Preset: p, Now: m.dispatcher.Now()})
	m.dispatcher.Post(explorer.SearchRequested{})
}

func (m *Model) startEditing(target editTarget, value string) tea.Cmd {
	m.editing = target
	m.input.Prompt = editPrompt(target)
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		m.commitEdit()
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Local filters follow every keystroke; date bounds apply on enter.
	if m.editing == editDomain || m.editing == editTracker {
		m.commitEdit()
	}
	return m, cmd
}

func (m *Model) commitEdit() {
	value := m.input.Value()
	filters := m.snap.State.Filters
	switch m.editing {
	case editFrom:
		m.dispatcher.Post(explorer.BoundEdited{Field: "from", Value: value})
	case editTo:
		m.dispatcher.Post(explorer.BoundEdited{Field: "to", Value: value})
	case editDomain:
		filters.DomainQuery = value
		m.snap.State.Filters = filters
		m.dispatcher.Post(explorer.FilterChanged{Filters: filters})
	case editTracker:
		filters.TrackerQuery = value
		m.snap.State.Filters = filters
		m.dispatcher.Post(explorer.FilterChanged{Filters: filters})
	}
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(strings.Join(renderRows(m.snap, m.width), "\n"))
	m.observeViewport()
}

// observeViewport also runs after redraws so a list shorter than the screen
// still pulls the next page.
func (m *Model) observeViewport() {
	if !m.ready || m.scroll == nil {
		return
	}
	m.scroll.Observe(explorer.Viewport{
		Offset:        m.viewport.YOffset,
		Height:        m.viewport.Height,
		ContentHeight: m.viewport.TotalLineCount(),
	})
}

func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}
	var b strings.Builder
	b.WriteString(renderHeader(m.snap, m.width))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.editing != editNone {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(renderFooter(m.snap))
	}
	return b.String()
}

func editPrompt(target editTarget) string {
	switch target {
	case editFrom:
		return "from (YYYY-MM-DDTHH:MM): "
	case editTo:
		return "to (YYYY-MM-DDTHH:MM): "
	case editDomain:
		return "domain: "
	case editTracker:
		return "tracker: "
	default:
		return "> "
	}
}
