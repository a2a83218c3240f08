package agent

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const cognitionInstructions = `

# Response Protocol
Structure every reply with the following tags, in order:
<think>Reason about the request and what you know.</think>
<plan>Decide the steps you will take.</plan>
<speak>Your final response to the user.</speak>
Only the content of <speak> is shown to the user.`

// buildSystemPrompt composes the live system message for one iteration. It is
// a pure function of the config and the iteration number: dynamic-variable
// substitution, then the chain-mode budget block, then exactly one of the
// cognition or structured-output instruction blocks.
func buildSystemPrompt(cfg *Config, iteration int) string {
	prompt := substituteVariables(cfg.SystemPrompt, cfg.DynamicVariables)

	if cfg.ChainRun {
		prompt += chainInstructions(iteration, cfg.maxIterations())
	}

	if cfg.Cognition {
		prompt += cognitionInstructions
	} else if cfg.StructuredOutputSchema != nil {
		prompt += structuredInstructions(cfg.StructuredOutputSchema)
	}

	return prompt
}

// substituteVariables replaces every {{name}} placeholder with its provider's
// value. A missing or panicking provider yields an inline placeholder string
// instead; substitution never aborts prompt construction.
func substituteVariables(template string, vars map[string]func() string) string {
	result := template
	for name, provider := range vars {
		result = strings.ReplaceAll(result, "{{"+name+"}}", resolveVariable(name, provider))
	}
	return result
}

func resolveVariable(name string, provider func() string) (value string) {
	defer func() {
		if r := recover(); r != nil {
			value = "[" + name + ": no dynamic variable available]"
		}
	}()
	if provider == nil {
		return "[" + name + ": no dynamic variable available]"
	}
	return provider()
}

func chainInstructions(iteration, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n# Task Completion\nYou are on iteration %d of a maximum of %d. ", iteration, max)
	b.WriteString("Work step by step using your tools, and call the finish_run tool with your complete final response once the task is done. The conversation only ends when you call finish_run.")
	if iteration >= max {
		b.WriteString("\n\nTHIS IS YOUR FINAL ITERATION. You must call finish_run with your final response now; no further iterations will be granted.")
	}
	return b.String()
}

// structuredInstructions renders the target schema for the model: property
// names with their types, the required-field list, and a skeletal example.
func structuredInstructions(schema map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("\n\n# Output Format\nRespond with a single JSON object and nothing else.")

	props, _ := schema["properties"].(map[string]interface{})
	if len(props) > 0 {
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\nProperties:")
		for _, name := range names {
			b.WriteString("\n- " + name)
			if prop, ok := props[name].(map[string]interface{}); ok {
				if typ, ok := prop["type"].(string); ok {
					b.WriteString(" (" + typ + ")")
				}
				if desc, ok := prop["description"].(string); ok && desc != "" {
					b.WriteString(": " + desc)
				}
			}
		}
	}

	if required := requiredFields(schema); len(required) > 0 {
		b.WriteString("\nRequired: " + strings.Join(required, ", "))
	}

	if example, err := json.MarshalIndent(skeleton(schema), "", "  "); err == nil {
		b.WriteString("\nExample shape:\n" + string(example))
	}

	return b.String()
}

func requiredFields(schema map[string]interface{}) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []interface{}:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// skeleton derives a placeholder value tree from a JSON Schema.
func skeleton(schema map[string]interface{}) interface{} {
	typ, _ := schema["type"].(string)
	switch typ {
	case "object":
		out := map[string]interface{}{}
		if props, ok := schema["properties"].(map[string]interface{}); ok {
			for name, raw := range props {
				if prop, ok := raw.(map[string]interface{}); ok {
					out[name] = skeleton(prop)
				} else {
					out[name] = "..."
				}
			}
		}
		return out
	case "array":
		if items, ok := schema["items"].(map[string]interface{}); ok {
			return []interface{}{skeleton(items)}
		}
		return []interface{}{}
	case "string":
		return "..."
	case "number", "integer":
		return 0
	case "boolean":
		return false
	default:
		return "..."
	}
}
