package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/finboard/cachectl/internal/admin"
)

// Backend is the slice of the api client the panel consumes.
type Backend interface {
	Status(ctx context.Context) (admin.Snapshot, error)
	Refresh(ctx context.Context, key string) (string, error)
	Clear(ctx context.Context, key string) error
}

// statusMsg carries a resolved status fetch. initial marks the fetch issued
// at mount, which is the only one allowed to dismiss the loading screen.
type statusMsg struct {
	snapshot admin.Snapshot
	err      error
	initial  bool
}

// mutationMsg carries a resolved refresh or clear.
type mutationMsg struct {
	op      admin.Op
	key     string
	payload string
	err     error
}

// PanelModel is the Bubble Tea model for the cache administration panel.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type PanelModel struct {
	// View state
	state   ViewState
	ctx     context.Context
	backend Backend
	logger  zerolog.Logger

	// Domain state. snapshot and ops are replaced wholesale, never edited
	// in place, so a render between updates sees a consistent view.
	snapshot admin.Snapshot
	ops      admin.OpStates
	outcome  admin.Outcome

	// Interactive components
	keys       []string // filtered, sorted cache keys driving card order
	cursor     int
	textInput  textinput.Model
	showFilter bool
	confirmKey string // cache awaiting clear confirmation

	// Display configuration
	width  int
	height int

	// Loading spinner
	loadingState *LoadingState
}

// NewPanelModel creates the panel in its loading state.
func NewPanelModel(ctx context.Context, backend Backend, logger zerolog.Logger) PanelModel {
	return PanelModel{
		state:        ViewStateLoading,
		ctx:          ctx,
		backend:      backend,
		logger:       logger,
		width:        TerminalWidth(),
		height:       defaultHeight,
		textInput:    newTextInput(),
		loadingState: NewLoadingState(),
	}
}

// Init starts the spinner and issues the mount-time status fetch (Bubble Tea
// interface).
func (m PanelModel) Init() tea.Cmd {
	return tea.Batch(m.loadingState.Init(), m.fetchStatus(true))
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		return m, nil
	}

	if status, ok := msg.(statusMsg); ok {
		return m.handleStatusResolved(status)
	}

	if mutation, ok := msg.(mutationMsg); ok {
		return m.handleMutationResolved(mutation)
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.handleListKeypress(keyMsg)
		}
		return m, nil
	case ViewStateConfirm:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.handleConfirmKeypress(keyMsg)
		}
		return m, nil
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

// handleLoadingUpdate lets the user bail out early and keeps the spinner
// animated until the first fetch resolves.
func (m PanelModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		return m, nil
	}
	return m, m.loadingState.Update(msg)
}

// handleStatusResolved applies a finished status fetch. A failed fetch
// leaves the previous snapshot intact; only the banner changes.
func (m PanelModel) handleStatusResolved(msg statusMsg) (tea.Model, tea.Cmd) {
	if m.state == ViewStateQuitting {
		// The session is over; discard the late result.
		return m, nil
	}

	if msg.initial && m.state == ViewStateLoading {
		m.state = ViewStateList
	}

	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Msg("status fetch failed")
		m.outcome = admin.StatusLoadFailed()
		return m, nil
	}

	m.snapshot = msg.snapshot
	m.applyFilter(m.textInput.Value())
	return m, nil
}

// handleMutationResolved clears the in-flight flag and records the outcome.
// Successful mutations trigger a silent status re-fetch so cards catch up.
func (m PanelModel) handleMutationResolved(msg mutationMsg) (tea.Model, tea.Cmd) {
	if m.state == ViewStateQuitting {
		return m, nil
	}

	m.ops = m.ops.With(msg.key, admin.Idle)

	if msg.err != nil {
		m.outcome = admin.OperationFailed(msg.op, msg.key, msg.err)
		return m, nil
	}

	switch msg.op {
	case admin.OpClear:
		m.outcome = admin.ClearSucceeded(msg.key)
	default:
		m.outcome = admin.RefreshSucceeded(msg.key, msg.payload)
	}
	return m, m.fetchStatus(false)
}

// handleFilterInput routes keystrokes into the filter box until it is
// committed or dismissed.
func (m PanelModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter(m.textInput.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.applyFilter(m.textInput.Value())
	return m, cmd
}

func (m PanelModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyUp, keyK:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case keyDown, keyJ:
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	case keyRefresh:
		if key, ok := m.selectedKey(); ok {
			return m.dispatch(admin.OpRefresh, key)
		}
		return m, nil
	case keyRefreshAll:
		return m.dispatch(admin.OpRefresh, admin.AllKey)
	case keyClear:
		if key, ok := m.selectedKey(); ok && m.ops.Get(key) == admin.Idle {
			m.confirmKey = key
			m.state = ViewStateConfirm
		}
		return m, nil
	case keyReload:
		// Manual reload never reasserts the loading screen.
		return m, m.fetchStatus(false)
	default:
		return m, nil
	}
}

// handleConfirmKeypress resolves the clear confirmation. Only an explicit
// "y" proceeds; every other key declines with zero side effects.
func (m PanelModel) handleConfirmKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyYes:
		key := m.confirmKey
		m.confirmKey = ""
		m.state = ViewStateList
		return m.dispatch(admin.OpClear, key)
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	default:
		m.confirmKey = ""
		m.state = ViewStateList
		return m, nil
	}
}

// dispatch starts op against key: clears the previous outcome, marks the
// key in flight, and returns the command that performs the round-trip. Keys
// already in flight are ignored, which is what disables their buttons.
func (m PanelModel) dispatch(op admin.Op, key string) (tea.Model, tea.Cmd) {
	if m.ops.Get(key) != admin.Idle {
		return m, nil
	}

	m.outcome = admin.Outcome{}
	m.ops = m.ops.With(key, op.State())
	m.logger.Debug().Str("op", string(op)).Str("cache", key).Msg("operation dispatched")

	backend := m.backend
	ctx := m.ctx
	return m, func() tea.Msg {
		if op == admin.OpClear {
			err := backend.Clear(ctx, key)
			return mutationMsg{op: op, key: key, err: err}
		}
		payload, err := backend.Refresh(ctx, key)
		return mutationMsg{op: op, key: key, payload: payload, err: err}
	}
}

// fetchStatus builds the command that fetches the snapshot. initial is set
// only for the mount-time fetch.
func (m PanelModel) fetchStatus(initial bool) tea.Cmd {
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		snapshot, err := backend.Status(ctx)
		return statusMsg{snapshot: snapshot, err: err, initial: initial}
	}
}

// selectedKey returns the cache key under the cursor.
func (m PanelModel) selectedKey() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.keys) {
		return "", false
	}
	return m.keys[m.cursor], true
}

// applyFilter recomputes the visible key list and keeps the cursor in
// bounds.
func (m *PanelModel) applyFilter(filterText string) {
	all := m.snapshot.Keys()
	if filterText == "" {
		m.keys = all
	} else {
		query := strings.ToLower(filterText)
		filtered := []string{}
		for _, key := range all {
			if strings.Contains(strings.ToLower(key), query) {
				filtered = append(filtered, key)
			}
		}
		m.keys = filtered
	}

	if m.cursor >= len(m.keys) {
		m.cursor = len(m.keys) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
