package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard/cachectl/internal/admin"
	"github.com/finboard/cachectl/internal/api"
)

// stubBackend scripts backend responses and records every call.
type stubBackend struct {
	snapshot       admin.Snapshot
	statusErr      error
	statusCalls    int
	refreshPayload string
	refreshErr     error
	refreshCalls   []string
	clearErr       error
	clearCalls     []string
}

func (b *stubBackend) Status(_ context.Context) (admin.Snapshot, error) {
	b.statusCalls++
	if b.statusErr != nil {
		return nil, b.statusErr
	}
	return b.snapshot, nil
}

func (b *stubBackend) Refresh(_ context.Context, key string) (string, error) {
	b.refreshCalls = append(b.refreshCalls, key)
	if b.refreshErr != nil {
		return "", b.refreshErr
	}
	return b.refreshPayload, nil
}

func (b *stubBackend) Clear(_ context.Context, key string) error {
	b.clearCalls = append(b.clearCalls, key)
	return b.clearErr
}

func timestampAt(t *testing.T, value string) *admin.Timestamp {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &admin.Timestamp{Time: parsed}
}

// resolve runs cmd and feeds every resulting message back into the model,
// following batches, until no commands remain. Spinner ticks are dropped so
// the animation loop terminates.
func resolve(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		var followup tea.Cmd
		model, followup = model.Update(msg)
		queue = append(queue, followup)
	}
	return model
}

func pressKey(t *testing.T, model tea.Model, key string) (PanelModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case keyEnter:
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case keyEsc:
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case keyUp:
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case keyDown:
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case keyCtrlC:
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := model.Update(msg)
	return updated.(PanelModel), cmd
}

func testSnapshot(t *testing.T) admin.Snapshot {
	t.Helper()
	return admin.Snapshot{
		"sectors": {
			Count:                42,
			LastUpdated:          timestampAt(t, "2025-01-01T00:00:00Z"),
			CacheDurationMinutes: 120,
		},
		"symbols": {
			Count:                8,
			LastUpdated:          timestampAt(t, "2025-01-01T06:00:00Z"),
			CacheDurationMinutes: 30,
		},
	}
}

// loadedPanel builds a panel and resolves its mount-time fetch.
func loadedPanel(t *testing.T, backend *stubBackend) PanelModel {
	t.Helper()
	model := NewPanelModel(context.Background(), backend, zerolog.Nop())
	assert.Equal(t, ViewStateLoading, model.state)
	return resolve(t, model, model.Init()).(PanelModel)
}

func TestPanelInitialLoadHappyPath(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	m := loadedPanel(t, backend)

	assert.Equal(t, ViewStateList, m.state, "loading screen must dismiss after the first fetch")
	assert.Equal(t, 1, backend.statusCalls)
	assert.Equal(t, []string{"sectors", "symbols"}, m.keys)
	assert.True(t, m.outcome.None())

	view := m.View()
	assert.Contains(t, view, "SECTORS")
	assert.Contains(t, view, "42 items")
	assert.Contains(t, view, "2 hr")
	assert.Contains(t, view, IconPositive, "count 42 renders the positive icon")
	assert.Contains(t, view, IconWarning, "count 8 renders the warning icon")
	assert.NotContains(t, view, "Loading")
}

func TestPanelStatusLoadFailure(t *testing.T) {
	backend := &stubBackend{statusErr: errors.New("connection refused")}
	m := loadedPanel(t, backend)

	assert.Equal(t, ViewStateList, m.state, "a failed first fetch still dismisses the loading screen")
	assert.Equal(t, admin.OutcomeFailure, m.outcome.Kind)
	assert.Equal(t, "Failed to load cache status", m.outcome.Text)

	view := m.View()
	assert.Contains(t, view, "Failed to load cache status")
	assert.Contains(t, view, "No caches reported.")
}

func TestPanelRefreshSuccess(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t), refreshPayload: `{"ok":true}`}
	m := loadedPanel(t, backend)

	// Cursor starts on "sectors" (sorted order).
	m, cmd := pressKey(t, m, keyRefresh)
	require.NotNil(t, cmd)
	assert.Equal(t, admin.Refreshing, m.ops.Get("sectors"))
	assert.True(t, m.outcome.None(), "operation start clears the previous notice")
	assert.Contains(t, m.View(), "Refreshing...")

	// The in-flight key ignores further refresh presses.
	blocked, blockedCmd := pressKey(t, m, keyRefresh)
	assert.Nil(t, blockedCmd)
	assert.Equal(t, admin.Refreshing, blocked.ops.Get("sectors"))

	// The backend reports a new count on the follow-up fetch.
	backend.snapshot = admin.Snapshot{
		"sectors": {Count: 97, LastUpdated: timestampAt(t, "2025-01-01T12:00:00Z"), CacheDurationMinutes: 120},
		"symbols": backend.snapshot["symbols"],
	}

	m = resolve(t, m, cmd).(PanelModel)

	assert.Equal(t, []string{"sectors"}, backend.refreshCalls)
	assert.Equal(t, admin.Idle, m.ops.Get("sectors"))
	assert.Equal(t, admin.OutcomeSuccess, m.outcome.Kind)
	assert.Equal(t, `✓ sectors cache refreshed successfully: {"ok":true}`, m.outcome.Text)
	assert.Equal(t, 2, backend.statusCalls, "success triggers a silent status re-fetch")
	assert.Equal(t, 97, m.snapshot["sectors"].Count, "card reflects the re-fetched count")
	assert.Equal(t, ViewStateList, m.state, "the re-fetch never reasserts the loading screen")
}

func TestPanelClearConfirmationDeclined(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t), refreshPayload: `{"ok":true}`}
	m := loadedPanel(t, backend)

	// Seed a success banner so "no banner update" is observable.
	m, cmd := pressKey(t, m, keyRefresh)
	m = resolve(t, m, cmd).(PanelModel)
	require.Equal(t, admin.OutcomeSuccess, m.outcome.Kind)
	bannerBefore := m.outcome

	m, _ = pressKey(t, m, keyClear)
	assert.Equal(t, ViewStateConfirm, m.state)
	assert.Equal(t, "sectors", m.confirmKey)
	assert.Contains(t, m.View(), "CLEAR CACHE")

	m, declinedCmd := pressKey(t, m, keyNo)
	assert.Nil(t, declinedCmd)
	assert.Equal(t, ViewStateList, m.state)
	assert.Empty(t, backend.clearCalls, "declining must issue no network request")
	assert.Equal(t, admin.Idle, m.ops.Get("sectors"))
	assert.Equal(t, bannerBefore, m.outcome, "declining must not touch the banner")
}

func TestPanelClearServerRejection(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	backend.clearErr = &api.ServerError{
		Op:         admin.OpClear,
		Key:        "sectors",
		StatusCode: 500,
		Message:    "locked",
	}
	m := loadedPanel(t, backend)

	m, _ = pressKey(t, m, keyClear)
	m, cmd := pressKey(t, m, keyYes)
	require.NotNil(t, cmd)
	assert.Equal(t, admin.Clearing, m.ops.Get("sectors"))
	assert.Contains(t, m.View(), "Clearing...")

	m = resolve(t, m, cmd).(PanelModel)

	assert.Equal(t, []string{"sectors"}, backend.clearCalls)
	assert.Equal(t, admin.OutcomeFailure, m.outcome.Kind)
	assert.Equal(t, "Failed to clear sectors: locked", m.outcome.Text)
	assert.Equal(t, admin.Idle, m.ops.Get("sectors"), "buttons re-enable after resolution")
	assert.Equal(t, 42, m.snapshot["sectors"].Count, "card state stays unchanged")
	assert.Equal(t, 1, backend.statusCalls, "failures never trigger a re-fetch")
}

func TestPanelRefreshAll(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t), refreshPayload: `{"refreshed":2}`}
	m := loadedPanel(t, backend)

	m, cmd := pressKey(t, m, keyRefreshAll)
	require.NotNil(t, cmd)
	assert.Equal(t, admin.Refreshing, m.ops.Get(admin.AllKey))
	assert.Equal(t, admin.Idle, m.ops.Get("sectors"), "per-card state is untouched")

	view := m.View()
	assert.Contains(t, view, "Refreshing all caches...")
	assert.Contains(t, view, "[r] refresh  [c] clear", "per-card buttons stay enabled")

	m = resolve(t, m, cmd).(PanelModel)

	assert.Equal(t, []string{admin.AllKey}, backend.refreshCalls)
	assert.Equal(t, admin.Idle, m.ops.Get(admin.AllKey))
	assert.Equal(t, admin.OutcomeSuccess, m.outcome.Kind)
	assert.Contains(t, m.outcome.Text, "✓ all cache refreshed successfully")
	assert.Equal(t, 2, backend.statusCalls)
}

func TestPanelConcurrentKeysStayIndependent(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t), refreshPayload: `{"ok":true}`}
	m := loadedPanel(t, backend)

	m, sectorsCmd := pressKey(t, m, keyRefresh)
	m, _ = pressKey(t, m, keyDown)
	m, symbolsCmd := pressKey(t, m, keyRefresh)
	require.NotNil(t, sectorsCmd)
	require.NotNil(t, symbolsCmd)

	assert.Equal(t, admin.Refreshing, m.ops.Get("sectors"))
	assert.Equal(t, admin.Refreshing, m.ops.Get("symbols"))

	// Resolutions may interleave; resolve out of dispatch order.
	m = resolve(t, m, symbolsCmd).(PanelModel)
	assert.Equal(t, admin.Refreshing, m.ops.Get("sectors"), "other keys are untouched by a resolution")
	assert.Equal(t, admin.Idle, m.ops.Get("symbols"))

	m = resolve(t, m, sectorsCmd).(PanelModel)
	assert.Equal(t, admin.Idle, m.ops.Get("sectors"))

	// The outcome slot is last-writer-wins.
	assert.Equal(t, `✓ sectors cache refreshed successfully: {"ok":true}`, m.outcome.Text)
}

func TestPanelLateResultsAfterQuitAreDiscarded(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t), refreshPayload: `{"ok":true}`}
	m := loadedPanel(t, backend)

	m, cmd := pressKey(t, m, keyRefresh)
	require.NotNil(t, cmd)

	m, quitCmd := pressKey(t, m, keyQuit)
	assert.Equal(t, ViewStateQuitting, m.state)
	require.NotNil(t, quitCmd)

	// The in-flight resolution lands after quit.
	updated, followup := m.Update(mutationMsg{op: admin.OpRefresh, key: "sectors", payload: `{"ok":true}`})
	m = updated.(PanelModel)

	assert.Nil(t, followup, "late results must not schedule more work")
	assert.True(t, m.outcome.None(), "late results must not mutate state")
	assert.Equal(t, admin.Refreshing, m.ops.Get("sectors"), "late results are discarded, not applied")
	assert.Empty(t, m.View())
}

func TestPanelManualReloadIsSilent(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	m := loadedPanel(t, backend)

	m, cmd := pressKey(t, m, keyReload)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateList, m.state, "manual reload never reasserts the loading screen")

	// The backend fails this time; the previous snapshot must survive.
	backend.statusErr = errors.New("down")
	m = resolve(t, m, cmd).(PanelModel)

	assert.Equal(t, 2, backend.statusCalls)
	assert.Equal(t, "Failed to load cache status", m.outcome.Text)
	assert.Len(t, m.snapshot, 2, "a failed fetch leaves the previous snapshot intact")
	assert.Contains(t, m.View(), "SECTORS")
}

func TestPanelCursorNavigation(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	m := loadedPanel(t, backend)

	key, ok := m.selectedKey()
	require.True(t, ok)
	assert.Equal(t, "sectors", key)

	// Down moves to symbols and clamps at the end.
	m, _ = pressKey(t, m, keyDown)
	m, _ = pressKey(t, m, keyDown)
	key, _ = m.selectedKey()
	assert.Equal(t, "symbols", key)

	// Vim keys work too.
	m, _ = pressKey(t, m, keyK)
	key, _ = m.selectedKey()
	assert.Equal(t, "sectors", key)

	m, _ = pressKey(t, m, keyUp)
	key, _ = m.selectedKey()
	assert.Equal(t, "sectors", key, "up clamps at the first card")
}

func TestPanelFilter(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	m := loadedPanel(t, backend)

	m, _ = pressKey(t, m, keySlash)
	assert.True(t, m.showFilter)

	m, _ = pressKey(t, m, "s")
	m, _ = pressKey(t, m, "y")
	m, _ = pressKey(t, m, "m")
	m, _ = pressKey(t, m, keyEnter)

	assert.False(t, m.showFilter)
	assert.Equal(t, []string{"symbols"}, m.keys)

	key, ok := m.selectedKey()
	require.True(t, ok)
	assert.Equal(t, "symbols", key, "cursor clamps into the filtered list")

	// Esc clears the filter from the list view.
	m, _ = pressKey(t, m, keyEsc)
	assert.Equal(t, []string{"sectors", "symbols"}, m.keys)
}

func TestPanelWindowResize(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	m := loadedPanel(t, backend)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 72, Height: 20})
	m = updated.(PanelModel)

	assert.Equal(t, 72, m.width)
	assert.Equal(t, 20, m.height)
}

func TestPanelQuitDuringLoading(t *testing.T) {
	backend := &stubBackend{snapshot: testSnapshot(t)}
	model := NewPanelModel(context.Background(), backend, zerolog.Nop())

	m, cmd := pressKey(t, model, keyQuit)
	assert.Equal(t, ViewStateQuitting, m.state)
	require.NotNil(t, cmd)

	// The mount-time fetch resolves after quit and must be discarded.
	updated, followup := m.Update(statusMsg{snapshot: testSnapshot(t), initial: true})
	m = updated.(PanelModel)
	assert.Nil(t, followup)
	assert.Empty(t, m.snapshot)
	assert.Equal(t, ViewStateQuitting, m.state)
}
