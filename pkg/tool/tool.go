package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/kingbootoshi/feather/pkg/llm"
)

// Handler is the function signature for tool execution.
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool is a named, schema-described capability the model may request.
// Parameters is a JSON Schema for the arguments object. Tools are immutable
// once registered.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Execute     Handler
}

// Schema returns the model-visible surface of the tool.
func (t Tool) Schema() llm.ToolSchema {
	params := t.Parameters
	if params == nil {
		params = map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		}
	}
	return llm.ToolSchema{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}
}

// Registry holds the fixed set of tools for one conversation. The set is
// decided at construction and never mutated afterwards.
type Registry struct {
	order   []string
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry validates and indexes the given tools. Names must be unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:   make(map[string]Tool, len(tools)),
		schemas: make(map[string]*gojsonschema.Schema, len(tools)),
	}

	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if t.Execute == nil {
			return nil, fmt.Errorf("tool %q has no execute handler", t.Name)
		}
		if _, exists := r.tools[t.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Schema().Parameters))
		if err != nil {
			return nil, fmt.Errorf("invalid parameter schema for tool %q: %w", t.Name, err)
		}

		r.order = append(r.order, t.Name)
		r.tools[t.Name] = t
		r.schemas[t.Name] = schema
	}

	return r, nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Schemas returns all model-visible tool schemas in registration order.
func (r *Registry) Schemas() []llm.ToolSchema {
	out := make([]llm.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema())
	}
	return out
}

// ValidateArgs checks an argument object against the tool's parameter schema.
func (r *Registry) ValidateArgs(name string, args map[string]interface{}) error {
	schema, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("tool not found: %s", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return err
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("argument validation failed: %v", errs)
	}
	return nil
}

// DecodeArgs decodes a raw argument map onto a typed struct. Handlers that
// prefer typed parameters over map lookups use this at their entry point.
func DecodeArgs(args map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build argument decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}
