package agent

import "github.com/kingbootoshi/feather/pkg/llm"

// Info describes an agent to an observability sink.
type Info struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt"`
}

// Sink is an optional, write-only consumer of agent state snapshots. The
// controller calls it after, never instead of, its own state transitions, and
// never depends on it for control flow. Implementations must not block.
type Sink interface {
	OnAgentRegistered(info Info)
	OnSystemPromptUpdated(agentID, prompt string)
	OnMessageHistoryUpdated(agentID string, messages []llm.Message)
	OnLLMRequestStored(agentID string, iteration int, req llm.ChatRequest)
	OnLLMResponseStored(agentID string, iteration int, resp llm.ChatResponse)
	OnErrorUpdated(agentID string, message string)
	OnLogAppended(agentID string, line string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnAgentRegistered(Info)                               {}
func (NopSink) OnSystemPromptUpdated(string, string)                 {}
func (NopSink) OnMessageHistoryUpdated(string, []llm.Message)        {}
func (NopSink) OnLLMRequestStored(string, int, llm.ChatRequest)      {}
func (NopSink) OnLLMResponseStored(string, int, llm.ChatResponse)    {}
func (NopSink) OnErrorUpdated(string, string)                        {}
func (NopSink) OnLogAppended(string, string)                         {}

type multiSink []Sink

// MultiSink fans events out to every given sink in order.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) OnAgentRegistered(info Info) {
	for _, s := range m {
		s.OnAgentRegistered(info)
	}
}

func (m multiSink) OnSystemPromptUpdated(agentID, prompt string) {
	for _, s := range m {
		s.OnSystemPromptUpdated(agentID, prompt)
	}
}

func (m multiSink) OnMessageHistoryUpdated(agentID string, messages []llm.Message) {
	for _, s := range m {
		s.OnMessageHistoryUpdated(agentID, messages)
	}
}

func (m multiSink) OnLLMRequestStored(agentID string, iteration int, req llm.ChatRequest) {
	for _, s := range m {
		s.OnLLMRequestStored(agentID, iteration, req)
	}
}

func (m multiSink) OnLLMResponseStored(agentID string, iteration int, resp llm.ChatResponse) {
	for _, s := range m {
		s.OnLLMResponseStored(agentID, iteration, resp)
	}
}

func (m multiSink) OnErrorUpdated(agentID, message string) {
	for _, s := range m {
		s.OnErrorUpdated(agentID, message)
	}
}

func (m multiSink) OnLogAppended(agentID, line string) {
	for _, s := range m {
		s.OnLogAppended(agentID, line)
	}
}
