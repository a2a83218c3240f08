// Package agent implements the conversational orchestration core: an
// append-only message history with a live system slot, a system-prompt
// builder with dynamic-variable substitution and mode-specific instruction
// blocks, an output extractor for cognition-tagged and schema-constrained
// replies, and the run controller driving the model/tool loop.
//
// Invariants:
// - Message slot 0 is always the system message and is rewritten before every model call.
// - A run issues at most the effective iteration bound of model calls.
// - Tool-level and output-parsing failures are absorbed into the transcript, never surfaced.
//
// Usage:
//
//	a, _ := agent.New(agent.Config{
//		Model:        "openai/gpt-4o",
//		SystemPrompt: "You are a travel assistant.",
//		Client:       client,
//		Tools:        []tool.Tool{searchFlights},
//	})
//	result, _ := a.Run(ctx, "find me a flight to Lisbon")
//	_ = result
package agent
