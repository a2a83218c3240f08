package agent

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/kingbootoshi/feather/pkg/llm"
	"github.com/kingbootoshi/feather/pkg/tool"
)

// defaultMaxIterations bounds the run loop when no mode overrides it.
const defaultMaxIterations = 5

// Config holds agent configuration. It is captured at construction and
// immutable for the agent's lifetime.
type Config struct {
	// AgentID identifies the agent to logs and the sink. A UUID is assigned
	// when empty.
	AgentID string

	// Model is the model identifier passed through to the endpoint.
	Model string

	// SystemPrompt is the base system template. {{name}} placeholders are
	// substituted from DynamicVariables on every iteration.
	SystemPrompt string

	// DynamicVariables maps placeholder names to zero-arg providers whose
	// return value replaces {{name}} in the system prompt.
	DynamicVariables map[string]func() string

	// Tools is the fixed tool set for the conversation. Chain mode appends
	// the finish_run tool when it is not already present.
	Tools []tool.Tool

	// Cognition instructs the model to reply in think/plan/speak tags; only
	// the speak segment is surfaced. Mutually exclusive with
	// StructuredOutputSchema.
	Cognition bool

	// StructuredOutputSchema constrains the reply to a JSON Schema, parsed
	// into a map with silent text fallback. Mutually exclusive with
	// Cognition.
	StructuredOutputSchema map[string]interface{}

	// ChainRun requires the model to call finish_run to end the run, bounded
	// by MaxChainIterations.
	ChainRun bool

	// MaxChainIterations bounds chain mode. Defaults to 5.
	MaxChainIterations int

	// ForceTool forces the model to call the single registered tool on the
	// single permitted iteration. Requires exactly one tool.
	ForceTool bool

	// AutoExecuteTools controls whether requested tool calls are executed by
	// the run loop. Nil means true; when false, Run returns the pending
	// calls to the caller unexecuted.
	AutoExecuteTools *bool

	// AdditionalParams is passed through to the endpoint untouched
	// (temperature, max_tokens, top_p, penalties, stop).
	AdditionalParams map[string]interface{}

	// Client is the chat-completion endpoint.
	Client llm.Client

	// Sink is an optional observability consumer. Defaults to NopSink.
	Sink Sink

	Logger zerolog.Logger
}

func (c *Config) validate() error {
	if c.Client == nil {
		return fmt.Errorf("client is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Cognition && c.StructuredOutputSchema != nil {
		return fmt.Errorf("cognition and structured output are mutually exclusive")
	}
	if c.ForceTool && len(c.Tools) != 1 {
		return fmt.Errorf("force tool mode requires exactly one tool, got %d", len(c.Tools))
	}
	if c.MaxChainIterations < 0 {
		return fmt.Errorf("max chain iterations cannot be negative")
	}

	if c.StructuredOutputSchema != nil {
		if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(c.StructuredOutputSchema)); err != nil {
			return fmt.Errorf("invalid structured output schema: %w", err)
		}
	}

	return nil
}

// autoExecute resolves the auto-execute flag with its default of true.
func (c *Config) autoExecute() bool {
	if c.AutoExecuteTools == nil {
		return true
	}
	return *c.AutoExecuteTools
}

// maxIterations resolves the effective iteration bound: 1 under force-tool,
// MaxChainIterations under chain mode, 5 otherwise.
func (c *Config) maxIterations() int {
	if c.ForceTool {
		return 1
	}
	if c.ChainRun {
		if c.MaxChainIterations > 0 {
			return c.MaxChainIterations
		}
		return defaultMaxIterations
	}
	return defaultMaxIterations
}

// Bool is a convenience for the AutoExecuteTools field.
func Bool(v bool) *bool {
	return &v
}
