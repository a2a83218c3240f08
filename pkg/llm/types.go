package llm

// Message roles used across the conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentPart is one element of a multi-part message body.
type ContentPart struct {
	Type     string `json:"type"` // "text" or "image_url"
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart builds an image-reference content part.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: url}
}

// Message is one conversation turn. Content holds plain text; Parts, when
// non-empty, takes precedence and carries an ordered multi-part body.
type Message struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Parts     []ContentPart          `json:"parts,omitempty"`
	ToolCalls []ToolCall             `json:"tool_calls,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ToolCall is a model-requested tool invocation. Arguments is the raw JSON
// string exactly as the endpoint returned it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSchema describes a callable tool to the endpoint. It carries the
// model-visible surface only, never the invoke capability.
type ToolSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Tool-choice directive modes.
const (
	ToolChoiceAuto  = "auto"
	ToolChoiceNamed = "named"
)

// ToolChoice tells the endpoint whether the model may pick tools freely or
// must call one specific tool.
type ToolChoice struct {
	Mode string `json:"mode"`
	Name string `json:"name,omitempty"`
}

// AutoToolChoice lets the model choose freely.
func AutoToolChoice() ToolChoice {
	return ToolChoice{Mode: ToolChoiceAuto}
}

// NamedToolChoice forces the model to call the named tool.
func NamedToolChoice(name string) ToolChoice {
	return ToolChoice{Mode: ToolChoiceNamed, Name: name}
}

// ResponseFormat constrains the model's reply to a JSON Schema.
type ResponseFormat struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
	Strict bool                   `json:"strict"`
}

// ChatRequest is a single chat-completion call. Params carries passthrough
// model parameters (temperature, max_tokens, top_p, penalties, stop) that are
// opaque to the orchestration core.
type ChatRequest struct {
	Model          string                 `json:"model"`
	Messages       []Message              `json:"messages"`
	Tools          []ToolSchema           `json:"tools,omitempty"`
	ToolChoice     ToolChoice             `json:"tool_choice"`
	ResponseFormat *ResponseFormat        `json:"response_format,omitempty"`
	Params         map[string]interface{} `json:"params,omitempty"`
}

// ResponseMessage is the assistant message inside one choice.
type ResponseMessage struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Choice is one completion candidate.
type Choice struct {
	Message *ResponseMessage `json:"message"`
}

// TokenUsage tracks token consumption for one call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatResponse is the endpoint's reply. Callers consume choice 0.
type ChatResponse struct {
	Choices []Choice    `json:"choices"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}
