package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/kingbootoshi/feather/pkg/llm"
	"github.com/kingbootoshi/feather/pkg/tool"
)

// Result is the outcome of one Run call. It is created fresh per call and
// never retained by the agent.
type Result struct {
	Success bool        `json:"success"`
	Output  interface{} `json:"output"`
	Error   string      `json:"error,omitempty"`

	// PendingToolCalls carries the model's unexecuted tool-call requests
	// when auto-execution is disabled.
	PendingToolCalls []llm.ToolCall `json:"pending_tool_calls,omitempty"`
}

// Agent owns exactly one conversation: one message history and one config for
// its lifetime. It advances the conversation sequentially; callers must not
// invoke Run or the append operations concurrently on the same instance.
type Agent struct {
	id       string
	cfg      Config
	client   llm.Client
	registry *tool.Registry
	invoker  *tool.Invoker
	history  *history
	sink     Sink
	logger   zerolog.Logger
}

// New creates an agent from config. Chain mode auto-appends the finish_run
// tool when the caller has not registered one under that name.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.AgentID == "" {
		cfg.AgentID = uuid.NewString()
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}

	tools := append([]tool.Tool(nil), cfg.Tools...)
	if cfg.ChainRun && !hasTool(tools, tool.FinishName) {
		tools = append(tools, tool.Finish())
	}

	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Logger.With().
		Str("component", "agent").
		Str("agent_id", cfg.AgentID).
		Logger()

	a := &Agent{
		id:       cfg.AgentID,
		cfg:      cfg,
		client:   cfg.Client,
		registry: registry,
		invoker:  tool.NewInvoker(registry, cfg.Logger),
		history:  newHistory(cfg.SystemPrompt),
		sink:     cfg.Sink,
		logger:   logger,
	}

	a.sink.OnAgentRegistered(Info{
		ID:           a.id,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
	})
	logger.Info().Str("model", cfg.Model).Int("tools", registry.Len()).Msg("Agent registered")

	return a, nil
}

// ID returns the agent identifier.
func (a *Agent) ID() string {
	return a.id
}

// Messages returns a copy of the full transcript.
func (a *Agent) Messages() []llm.Message {
	return a.history.Snapshot()
}

// MessageOption customizes an injected message.
type MessageOption func(*llm.Message)

// WithImage attaches an image reference to a user message, promoting the body
// to a multi-part content sequence.
func WithImage(url string) MessageOption {
	return func(m *llm.Message) {
		if len(m.Parts) == 0 && m.Content != "" {
			m.Parts = append(m.Parts, llm.TextPart(m.Content))
		}
		m.Parts = append(m.Parts, llm.ImagePart(url))
	}
}

// AddUserMessage appends a user turn to the conversation.
func (a *Agent) AddUserMessage(content string, opts ...MessageOption) {
	msg := llm.Message{Role: llm.RoleUser, Content: content}
	for _, opt := range opts {
		opt(&msg)
	}
	a.history.Append(msg)
	a.sink.OnMessageHistoryUpdated(a.id, a.history.Snapshot())
}

// AddAssistantMessage appends an assistant turn to the conversation.
func (a *Agent) AddAssistantMessage(content string) {
	a.history.Append(llm.Message{Role: llm.RoleAssistant, Content: content})
	a.sink.OnMessageHistoryUpdated(a.id, a.history.Snapshot())
}

// Run advances the conversation until it finalizes or fails. A non-empty
// input is appended as a user turn first. On terminal failure the returned
// Result carries Success=false and a human-readable error string alongside
// the error; the transcript is left in whatever state it reached.
func (a *Agent) Run(ctx context.Context, input string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if input != "" {
		a.AddUserMessage(input)
	}

	runID, err := gonanoid.New(8)
	if err != nil {
		runID = a.id
	}
	logger := a.logger.With().Str("run_id", runID).Logger()

	max := a.cfg.maxIterations()
	lastContent := ""

	for iteration := 1; iteration <= max; iteration++ {
		prompt := buildSystemPrompt(&a.cfg, iteration)
		a.history.SetSystem(prompt)
		a.sink.OnSystemPromptUpdated(a.id, prompt)

		req := llm.ChatRequest{
			Model:          a.cfg.Model,
			Messages:       a.history.Snapshot(),
			Tools:          a.registry.Schemas(),
			ToolChoice:     a.toolChoice(iteration, max),
			ResponseFormat: a.responseFormat(),
			Params:         a.cfg.AdditionalParams,
		}
		a.sink.OnLLMRequestStored(a.id, iteration, req)
		logger.Debug().
			Int("iteration", iteration).
			Int("messages", a.history.Len()).
			Str("tool_choice", req.ToolChoice.Mode).
			Msg("Calling model endpoint")

		resp, err := a.client.Chat(ctx, req)
		if err != nil {
			return a.fail(logger, &EndpointError{Err: err})
		}
		if len(resp.Choices) == 0 {
			return a.fail(logger, ErrEmptyResponse)
		}
		msg := resp.Choices[0].Message
		if msg == nil {
			return a.fail(logger, ErrMissingMessage)
		}
		a.sink.OnLLMResponseStored(a.id, iteration, *resp)

		lastContent = msg.Content
		a.history.Append(llm.Message{
			Role:      llm.RoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})
		a.sink.OnMessageHistoryUpdated(a.id, a.history.Snapshot())

		if len(msg.ToolCalls) == 0 {
			if !a.cfg.ChainRun {
				return a.finalize(logger, extractOutput(msg.Content, &a.cfg)), nil
			}
			if iteration >= max {
				// Safety valve: the loop must end even when the model
				// ignores the forced finish_run directive.
				return a.finalize(logger, strings.TrimSpace(msg.Content)), nil
			}
			a.sink.OnLogAppended(a.id, fmt.Sprintf("iteration %d: no tool call in chain mode, continuing", iteration))
			continue
		}

		if !a.cfg.autoExecute() {
			logger.Info().Int("pending", len(msg.ToolCalls)).Msg("Returning tool calls for manual handling")
			return Result{
				Success:          true,
				Output:           a.cognitionText(msg.Content),
				PendingToolCalls: msg.ToolCalls,
			}, nil
		}

		invocations := a.invoker.InvokeAll(ctx, msg.ToolCalls)

		for _, inv := range invocations {
			if inv.Finish {
				return a.finalize(logger, inv.Output), nil
			}
		}

		for _, inv := range invocations {
			a.history.Append(llm.Message{Role: llm.RoleUser, Content: inv.Output})
		}
		a.sink.OnMessageHistoryUpdated(a.id, a.history.Snapshot())
		a.sink.OnLogAppended(a.id, fmt.Sprintf("iteration %d: executed %d tool calls", iteration, len(invocations)))
	}

	if a.cfg.ChainRun {
		return a.finalize(logger, strings.TrimSpace(lastContent)), nil
	}
	return a.fail(logger, ErrMaxIterations)
}

// toolChoice resolves the directive in priority order: forced single tool,
// forced finish on the final chain iteration, free choice otherwise.
func (a *Agent) toolChoice(iteration, max int) llm.ToolChoice {
	if a.cfg.ForceTool {
		return llm.NamedToolChoice(a.cfg.Tools[0].Name)
	}
	if a.cfg.ChainRun && iteration >= max {
		return llm.NamedToolChoice(tool.FinishName)
	}
	return llm.AutoToolChoice()
}

func (a *Agent) responseFormat() *llm.ResponseFormat {
	schema := a.cfg.StructuredOutputSchema
	if schema == nil {
		return nil
	}
	name := "structured_output"
	if title, ok := schema["title"].(string); ok && title != "" {
		name = title
	}
	return &llm.ResponseFormat{Name: name, Schema: schema, Strict: true}
}

// cognitionText surfaces the speak segment when cognition is active, the
// trimmed raw content otherwise.
func (a *Agent) cognitionText(content string) string {
	if a.cfg.Cognition {
		if speak, ok := extractTag(content, "speak"); ok {
			return strings.TrimSpace(speak)
		}
	}
	return strings.TrimSpace(content)
}

func (a *Agent) finalize(logger zerolog.Logger, output interface{}) Result {
	logger.Info().Msg("Run finalized")
	a.sink.OnLogAppended(a.id, "run finalized")
	return Result{Success: true, Output: output}
}

func (a *Agent) fail(logger zerolog.Logger, err error) (Result, error) {
	logger.Error().Err(err).Msg("Run failed")
	a.sink.OnErrorUpdated(a.id, err.Error())
	return Result{Success: false, Error: err.Error()}, err
}

func hasTool(tools []tool.Tool, name string) bool {
	for _, t := range tools {
		if t.Name == name {
			return true
		}
	}
	return false
}
