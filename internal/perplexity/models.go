package perplexity

import (
	"net/http"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	ChatURL = "https://api.perplexity.ai/chat/completions"

	DefaultModel        = "sonar-pro"
	DefaultMaxTokens    = 1024
	DefaultSystemPrompt = "Be precise and concise."

	// Placeholders for fields the API left out.
	NotAvailable       = "N/A"
	NoContentAvailable = "No content available."
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestParameters are the caller supplied inputs of a single completion.
// An empty SystemPrompt means DefaultSystemPrompt.
type RequestParameters struct {
	Model        string `validate:"required"`
	MaxTokens    int    `validate:"gt=0"`
	Query        string `validate:"required"`
	SystemPrompt string
}

type BuildOptions struct {
	// URL of the chat completions endpoint, ChatURL if empty.
	URL                 string
	SkipModelValidation bool
}

// RequestBody is the exact wire format of the request.
type RequestBody struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type RequestDescriptor struct {
	URL     string
	Headers http.Header
	Body    RequestBody
}

type ApiResponse struct {
	StatusCode int
	Body       []byte
}

// Usage is token accounting in the order the API reported it.
type Usage = orderedmap.OrderedMap[string, int64]

type Result struct {
	ModelUsed    string
	AnswerText   string
	FinishReason string
	Usage        *Usage
	// Raw response body, kept for raw printing.
	Raw []byte
}
