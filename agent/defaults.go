package agent

// Default agent names.
const (
	Concierge = "concierge"
	Archivist = "archivist"
)

const conciergeInstructions = `You are the Concierge, a friendly front-facing assistant.
You help users with general queries and can hand off to the Archivist for note-related tasks.

When users want to:
- Save a note
- Retrieve a note
- List notes
- Manage their notes in any way

Respond with: "I'll hand this over to our Archivist specialist who handles notes."
And use the handoff_to_archivist function.

For all other queries, help the user directly.`

const archivistInstructions = `You are the Archivist, a specialist in managing notes.
You have access to three tools:
- save_note: Save a note with title and content
- get_note: Retrieve a note by title
- list_titles: List all available notes

After completing note operations, you can return control to the Concierge
using handoff_to_concierge if the user has additional non-note queries.

Be efficient and clear in your note management.`

// DefaultDefinitions returns the two-agent graph the service ships with: the
// concierge (entry agent) routing note work to the archivist, and the
// archivist handing back when done. The handoff cycle keeps every agent able
// to reach the entry agent again.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:         Concierge,
			Instructions: conciergeInstructions,
			Tools:        []string{"handoff_to_archivist"},
		},
		{
			Name:         Archivist,
			Instructions: archivistInstructions,
			Tools:        []string{"save_note", "get_note", "list_titles", "handoff_to_concierge"},
		},
	}
}
