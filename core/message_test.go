package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCallArgumentMap(t *testing.T) {
	t.Run("decodes json arguments", func(t *testing.T) {
		tc := ToolCall{ID: "1", Name: "save_note", Arguments: `{"title":"a","content":"b"}`}
		args, err := tc.ArgumentMap()
		require.NoError(t, err)
		assert.Equal(t, "a", args["title"])
		assert.Equal(t, "b", args["content"])
	})

	t.Run("empty payload yields empty map", func(t *testing.T) {
		tc := ToolCall{ID: "1", Name: "list_titles"}
		args, err := tc.ArgumentMap()
		require.NoError(t, err)
		assert.NotNil(t, args)
		assert.Empty(t, args)
	})

	t.Run("malformed payload errors", func(t *testing.T) {
		tc := ToolCall{ID: "1", Name: "save_note", Arguments: `{"title":`}
		_, err := tc.ArgumentMap()
		assert.Error(t, err)
	})
}

func TestNewToolResultMessage(t *testing.T) {
	msg := NewToolResultMessage("call-1", map[string]any{"success": true})
	assert.Equal(t, RoleTool, msg.Role)
	assert.Equal(t, "call-1", msg.ToolCallID)
	assert.JSONEq(t, `{"success":true}`, msg.Content)
}

func TestNewToolResultMessageUnserializable(t *testing.T) {
	msg := NewToolResultMessage("call-1", map[string]any{"bad": func() {}})
	assert.JSONEq(t, `{"success":false,"error":"unserializable tool result"}`, msg.Content)
}

func TestNewAssistantMessage(t *testing.T) {
	calls := []ToolCall{{ID: "1", Name: "get_note", Arguments: `{"title":"a"}`}}
	msg := NewAssistantMessage("archivist", "checking", calls)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "archivist", msg.Agent)
	assert.Equal(t, "checking", msg.Content)
	assert.Len(t, msg.ToolCalls, 1)
}
