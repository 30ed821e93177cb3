package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpPast(t *testing.T) {
	assert.Equal(t, "refreshed", OpRefresh.Past())
	assert.Equal(t, "cleared", OpClear.Past())
}

func TestOpState(t *testing.T) {
	assert.Equal(t, Refreshing, OpRefresh.State())
	assert.Equal(t, Clearing, OpClear.State())
	assert.Equal(t, Idle, Op("unknown").State())
}

func TestOpStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "refreshing", Refreshing.String())
	assert.Equal(t, "clearing", Clearing.String())
}

func TestOpStates(t *testing.T) {
	t.Run("nil map reads idle", func(t *testing.T) {
		var states OpStates
		assert.Equal(t, Idle, states.Get("sectors"))
		assert.False(t, states.Busy())
	})

	t.Run("with copies instead of mutating", func(t *testing.T) {
		before := OpStates{"sectors": Refreshing}
		after := before.With("symbols", Clearing)

		assert.Equal(t, Refreshing, before.Get("sectors"))
		assert.Equal(t, Idle, before.Get("symbols"), "original must not change")
		assert.Equal(t, Refreshing, after.Get("sectors"))
		assert.Equal(t, Clearing, after.Get("symbols"))
	})

	t.Run("single phase per key", func(t *testing.T) {
		states := OpStates{}.With("sectors", Refreshing).With("sectors", Clearing)
		assert.Equal(t, Clearing, states.Get("sectors"))
		assert.Len(t, states, 1)
	})

	t.Run("idle removes the key", func(t *testing.T) {
		states := OpStates{"sectors": Refreshing, "symbols": Clearing}
		next := states.With("sectors", Idle)

		assert.Len(t, next, 1)
		assert.Equal(t, Idle, next.Get("sectors"))
		assert.True(t, next.Busy())

		assert.False(t, next.With("symbols", Idle).Busy())
	})
}
