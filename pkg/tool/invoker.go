package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingbootoshi/feather/pkg/llm"
)

// Invocation is the settled outcome of one requested tool call. Output is
// model-readable text: a tool-execution block for ordinary tools, or the bare
// result string for the finish tool.
type Invocation struct {
	Call   llm.ToolCall
	Output string
	Finish bool
}

// Invoker executes batches of model-requested tool calls.
type Invoker struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewInvoker creates an invoker over a registry.
func NewInvoker(registry *Registry, logger zerolog.Logger) *Invoker {
	return &Invoker{
		registry: registry,
		logger:   logger.With().Str("component", "tool_invoker").Logger(),
	}
}

// InvokeAll executes every call in the batch concurrently and waits for the
// full set to settle. A slow or failing call never blocks or poisons the
// others. Failures (unknown tool, bad arguments, handler error) are captured
// as descriptive result text, never returned as errors; the transcript stays
// self-healing so the model can correct itself on the next turn.
func (inv *Invoker) InvokeAll(ctx context.Context, calls []llm.ToolCall) []Invocation {
	results := make([]Invocation, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call llm.ToolCall) {
			defer wg.Done()
			results[i] = inv.invokeOne(ctx, call)
		}(i, call)
	}
	wg.Wait()

	return results
}

func (inv *Invoker) invokeOne(ctx context.Context, call llm.ToolCall) Invocation {
	start := time.Now()

	args, err := parseArguments(call.Arguments)
	if err != nil {
		inv.logger.Warn().Str("tool", call.Name).Err(err).Msg("Malformed tool arguments")
		return inv.fold(call, fmt.Sprintf("tool errored: malformed arguments: %v", err))
	}

	t, ok := inv.registry.Get(call.Name)
	if !ok {
		inv.logger.Warn().Str("tool", call.Name).Msg("Tool not found")
		return inv.fold(call, fmt.Sprintf("tool not found: %s", call.Name))
	}

	if err := inv.registry.ValidateArgs(call.Name, args); err != nil {
		inv.logger.Warn().Str("tool", call.Name).Err(err).Msg("Tool argument validation failed")
		return inv.fold(call, fmt.Sprintf("tool errored: %v", err))
	}

	result, err := t.Execute(ctx, args)
	if err != nil {
		inv.logger.Warn().
			Str("tool", call.Name).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("Tool execution failed")
		return inv.fold(call, fmt.Sprintf("tool errored: %v", err))
	}

	inv.logger.Debug().
		Str("tool", call.Name).
		Dur("duration", time.Since(start)).
		Msg("Tool execution completed")

	return inv.fold(call, formatResult(result))
}

// fold wraps a result into a transcript block, except for the finish tool
// whose result passes through bare.
func (inv *Invoker) fold(call llm.ToolCall, result string) Invocation {
	if call.Name == FinishName {
		return Invocation{Call: call, Output: result, Finish: true}
	}

	var b strings.Builder
	b.WriteString("<tool_execution>\n")
	b.WriteString("tool: " + call.Name + "\n")
	b.WriteString("arguments: " + compactArguments(call.Arguments) + "\n")
	b.WriteString("result: " + result + "\n")
	b.WriteString("</tool_execution>")

	return Invocation{Call: call, Output: b.String()}
}

func parseArguments(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}

func compactArguments(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "{}"
	}
	return raw
}

func formatResult(result interface{}) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", result)
	}
}
