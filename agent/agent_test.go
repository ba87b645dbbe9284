package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		reg, err := NewRegistry(Concierge, DefaultDefinitions()...)
		require.NoError(t, err)

		assert.Equal(t, Concierge, reg.Entry())
		assert.Equal(t, []string{Concierge, Archivist}, reg.Names())

		def, ok := reg.Get(Archivist)
		require.True(t, ok)
		assert.True(t, def.Allows("save_note"))
		assert.False(t, def.Allows("handoff_to_archivist"))
	})

	t.Run("entry must be registered", func(t *testing.T) {
		_, err := NewRegistry("ghost", DefaultDefinitions()...)
		assert.ErrorContains(t, err, "entry agent")
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := NewRegistry("a",
			Definition{Name: "a"},
			Definition{Name: "a"},
		)
		assert.ErrorContains(t, err, "duplicate agent name")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRegistry("a", Definition{Name: ""})
		assert.ErrorContains(t, err, "empty name")
	})
}

func TestHandoffTarget(t *testing.T) {
	target, ok := HandoffTarget("handoff_to_archivist")
	assert.True(t, ok)
	assert.Equal(t, "archivist", target)

	_, ok = HandoffTarget("save_note")
	assert.False(t, ok)

	_, ok = HandoffTarget("handoff_to_")
	assert.False(t, ok, "empty target is not a handoff")
}

func TestDefaultDefinitionsCycle(t *testing.T) {
	defs := DefaultDefinitions()
	require.Len(t, defs, 2)

	byName := map[string]Definition{}
	for _, d := range defs {
		byName[d.Name] = d
	}

	// Both agents can reach each other, so control can always return to the
	// entry agent.
	assert.True(t, byName[Concierge].Allows("handoff_to_archivist"))
	assert.True(t, byName[Archivist].Allows("handoff_to_concierge"))
	assert.NotEmpty(t, byName[Concierge].Instructions)
	assert.NotEmpty(t, byName[Archivist].Instructions)
}
