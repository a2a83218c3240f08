package agent

import "github.com/kingbootoshi/feather/pkg/llm"

// history is the ordered, append-only message store for one conversation.
// Slot 0 is the mutable system message; everything after it is append-only.
// The store is exclusively owned by one Agent and assumes a single writer.
type history struct {
	messages []llm.Message
}

func newHistory(systemPrompt string) *history {
	return &history{
		messages: []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}},
	}
}

// SetSystem rewrites the system slot in place.
func (h *history) SetSystem(prompt string) {
	h.messages[0] = llm.Message{Role: llm.RoleSystem, Content: prompt}
}

// Append adds a turn after the system slot.
func (h *history) Append(msg llm.Message) {
	h.messages = append(h.messages, msg)
}

// Snapshot returns a copy of the full transcript.
func (h *history) Snapshot() []llm.Message {
	out := make([]llm.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of stored turns, system slot included.
func (h *history) Len() int {
	return len(h.messages)
}
