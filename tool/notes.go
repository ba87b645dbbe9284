package tool

import "fmt"

// Argument containers for the note tools; schemas are derived via reflection.

type saveNoteArgs struct {
	Title   string `json:"title" description:"Title of the note"`
	Content string `json:"content" description:"Content of the note"`
}

type getNoteArgs struct {
	Title string `json:"title" description:"Title of the note to retrieve"`
}

// NewSaveNoteTool returns the save_note tool: upserts title -> content in the
// session's note store. Always succeeds once arguments validate.
func NewSaveNoteTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"save_note",
		"Save a note with the given title and content",
		saveNoteArgs{},
		func(toolCtx *ToolContext, args map[string]any) (any, error) {
			title := args["title"].(string)
			content := args["content"].(string)
			toolCtx.Notes().Save(title, content)
			return map[string]any{
				"success": true,
				"message": fmt.Sprintf("Note '%s' saved successfully", title),
			}, nil
		},
	)
}

// NewGetNoteTool returns the get_note tool: retrieves a note by title,
// failing with a NOT_FOUND tool error when the title does not exist in this
// session's store.
func NewGetNoteTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"get_note",
		"Retrieve the content of a note by its title",
		getNoteArgs{},
		func(toolCtx *ToolContext, args map[string]any) (any, error) {
			title := args["title"].(string)
			content, ok := toolCtx.Notes().Get(title)
			if !ok {
				return nil, NewToolError("get_note", fmt.Sprintf("Note '%s' not found", title), CodeNotFound)
			}
			return map[string]any{
				"success": true,
				"title":   title,
				"content": content,
			}, nil
		},
	)
}

// NewListTitlesTool returns the list_titles tool: lists all note titles for
// the session in insertion order.
func NewListTitlesTool() *FunctionTool {
	return NewFunctionTool(
		"list_titles",
		"List all available note titles",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(toolCtx *ToolContext, _ map[string]any) (any, error) {
			titles := toolCtx.Notes().Titles()
			return map[string]any{
				"success": true,
				"titles":  titles,
				"count":   len(titles),
			}, nil
		},
	)
}

// NoteTools bundles the three note tools for registry construction.
func NoteTools() []Tool {
	return []Tool{NewSaveNoteTool(), NewGetNoteTool(), NewListTitlesTool()}
}
