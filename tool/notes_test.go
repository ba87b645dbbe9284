package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smoothoperator/session"
)

func TestSaveNoteTool(t *testing.T) {
	notes := session.NewNoteStore()
	save := NewSaveNoteTool()

	result, err := save.Call(newTestContext(notes), map[string]any{
		"title":   "groceries",
		"content": "milk, eggs",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"success": true,
		"message": "Note 'groceries' saved successfully",
	}, result)

	content, ok := notes.Get("groceries")
	require.True(t, ok)
	assert.Equal(t, "milk, eggs", content)
}

func TestSaveNoteOverwrites(t *testing.T) {
	notes := session.NewNoteStore()
	save := NewSaveNoteTool()
	ctx := newTestContext(notes)

	_, err := save.Call(ctx, map[string]any{"title": "a", "content": "v1"})
	require.NoError(t, err)
	_, err = save.Call(ctx, map[string]any{"title": "a", "content": "v2"})
	require.NoError(t, err)

	content, _ := notes.Get("a")
	assert.Equal(t, "v2", content)
	assert.Equal(t, []string{"a"}, notes.Titles())
}

func TestSaveNoteRejectsNullArguments(t *testing.T) {
	notes := session.NewNoteStore()

	// JSON null decodes to a nil value; it must fail validation instead of
	// reaching the implementation.
	_, err := NewSaveNoteTool().Call(newTestContext(notes), map[string]any{
		"title":   nil,
		"content": "x",
	})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, 0, notes.Len())
}

func TestGetNoteRoundTrip(t *testing.T) {
	notes := session.NewNoteStore()
	ctx := newTestContext(notes)

	_, err := NewSaveNoteTool().Call(ctx, map[string]any{"title": "a", "content": "hello"})
	require.NoError(t, err)

	result, err := NewGetNoteTool().Call(ctx, map[string]any{"title": "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"success": true, "title": "a", "content": "hello"}, result)
}

func TestGetNoteMissing(t *testing.T) {
	ctx := newTestContext(session.NewNoteStore())

	_, err := NewGetNoteTool().Call(ctx, map[string]any{"title": "nope"})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeNotFound, toolErr.Code)
	assert.Equal(t, "Note 'nope' not found", toolErr.Message)
}

func TestListTitlesTool(t *testing.T) {
	notes := session.NewNoteStore()
	ctx := newTestContext(notes)
	list := NewListTitlesTool()

	t.Run("empty store", func(t *testing.T) {
		result, err := list.Call(ctx, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"success": true, "titles": []string{}, "count": 0}, result)
	})

	t.Run("insertion order", func(t *testing.T) {
		notes.Save("b", "2")
		notes.Save("a", "1")

		result, err := list.Call(ctx, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"success": true, "titles": []string{"b", "a"}, "count": 2}, result)
	})
}
