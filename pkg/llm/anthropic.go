package llm

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultMaxTokens = 4096

// AnthropicClient implements Client for Anthropic Claude.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Provider returns the provider name.
func (c *AnthropicClient) Provider() string {
	return "anthropic"
}

// Chat makes a messages call against the Anthropic API, translated onto the
// chat-completion contract. The system turn is lifted into the request-level
// system field; structured response formats are carried by the prompt alone
// since the API has no response_format parameter.
func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	anthropicMessages := []anthropic.MessageParam{}
	systemPrompt := ""

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt = msg.Content
		case RoleUser:
			if len(msg.Parts) > 0 {
				blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
				for _, p := range msg.Parts {
					switch p.Type {
					case "image_url":
						blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: p.ImageURL}))
					default:
						blocks = append(blocks, anthropic.NewTextBlock(p.Text))
					}
				}
				anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(blocks...))
			} else {
				anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(
					anthropic.NewTextBlock(msg.Content),
				))
			}
		case RoleAssistant:
			blocks := []anthropic.ContentBlockParamUnion{}
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, json.RawMessage(tc.Arguments), tc.Name))
			}
			anthropicMessages = append(anthropicMessages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		}
	}

	reqParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  anthropicMessages,
		MaxTokens: anthropicMaxTokens(req.Params),
	}

	if systemPrompt != "" {
		reqParams.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	if v, ok := floatParam(req.Params, "temperature"); ok {
		reqParams.Temperature = anthropic.Float(v)
	}
	if v, ok := floatParam(req.Params, "top_p"); ok {
		reqParams.TopP = anthropic.Float(v)
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, t := range req.Tools {
			toolParam := anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: t.Parameters["properties"],
				},
			}
			if required, ok := t.Parameters["required"].([]interface{}); ok {
				strs := make([]string, 0, len(required))
				for _, r := range required {
					if s, ok := r.(string); ok {
						strs = append(strs, s)
					}
				}
				toolParam.InputSchema.Required = strs
			} else if required, ok := t.Parameters["required"].([]string); ok {
				toolParam.InputSchema.Required = required
			}
			tools = append(tools, anthropic.ToolUnionParam{OfTool: &toolParam})
		}
		reqParams.Tools = tools

		if req.ToolChoice.Mode == ToolChoiceNamed {
			reqParams.ToolChoice = anthropic.ToolChoiceUnionParam{
				OfTool: &anthropic.ToolChoiceToolParam{Name: req.ToolChoice.Name},
			}
		}
	}

	response, err := c.client.Messages.New(ctx, reqParams)
	if err != nil {
		return nil, err
	}

	msg := ResponseMessage{}
	for _, block := range response.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			msg.Content += b.Text
		case anthropic.ToolUseBlock:
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: b.JSON.Input.Raw(),
			})
		}
	}

	return &ChatResponse{
		Choices: []Choice{{Message: &msg}},
		Usage: &TokenUsage{
			InputTokens:  int(response.Usage.InputTokens),
			OutputTokens: int(response.Usage.OutputTokens),
		},
	}, nil
}

func anthropicMaxTokens(params map[string]interface{}) int64 {
	if v, ok := floatParam(params, "max_tokens"); ok && v > 0 {
		return int64(v)
	}
	return anthropicDefaultMaxTokens
}
