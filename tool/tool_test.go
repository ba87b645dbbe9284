package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smoothoperator/session"
)

func newTestContext(notes *session.NoteStore) *ToolContext {
	return NewToolContext(context.Background(), "sess-1", "archivist", "call-1", notes, nil)
}

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		reg, err := NewRegistry(NewSaveNoteTool(), NewGetNoteTool())
		require.NoError(t, err)

		got, ok := reg.Get("save_note")
		require.True(t, ok)
		assert.Equal(t, "save_note", got.Name())

		_, ok = reg.Get("nope")
		assert.False(t, ok)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := NewRegistry(NewSaveNoteTool(), NewSaveNoteTool())
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("names keep registration order", func(t *testing.T) {
		reg, err := NewRegistry(NoteTools()...)
		require.NoError(t, err)
		assert.Equal(t, []string{"save_note", "get_note", "list_titles"}, reg.Names())
	})
}

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("get_note", "Note 'x' not found", CodeNotFound)
	assert.EqualError(t, err, "tool error [NOT_FOUND] in get_note: Note 'x' not found")

	bare := &ToolError{Tool: "get_note", Message: "boom"}
	assert.EqualError(t, bare, "tool error in get_note: boom")
}

func TestFunctionToolValidation(t *testing.T) {
	notes := session.NewNoteStore()
	save := NewSaveNoteTool()

	_, err := save.Call(newTestContext(notes), map[string]any{"title": "only title"})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, 0, notes.Len(), "validation failure must not mutate the store")
}

func TestFunctionToolWrapsPlainErrors(t *testing.T) {
	boom := NewFunctionTool("boom", "always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(*ToolContext, map[string]any) (any, error) {
			return nil, assert.AnError
		},
	)

	_, err := boom.Call(newTestContext(session.NewNoteStore()), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "boom", toolErr.Tool)
}

func TestHandoffTool(t *testing.T) {
	h := NewHandoffTool("archivist", "")

	assert.Equal(t, "handoff_to_archivist", h.Name())
	assert.Equal(t, "archivist", h.Target())
	assert.NotEmpty(t, h.Description())

	result, err := h.Call(nil, map[string]any{"reason": "note work"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"success": true, "handed_off": "archivist"}, result)
}
