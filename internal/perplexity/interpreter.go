package perplexity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Pointers tell absent/null fields apart from empty ones.
type completion struct {
	Model   *string         `json:"model"`
	Choices []choice        `json:"choices"`
	Usage   json.RawMessage `json:"usage"`
}

type choice struct {
	Message      *choiceMessage `json:"message"`
	FinishReason *string        `json:"finish_reason"`
}

type choiceMessage struct {
	Content *string `json:"content"`
}

var jsonNull = []byte("null")

// Interpret a raw response. Optional fields fall back to NotAvailable or
// NoContentAvailable, only the first choice is used.
func Interpret(resp ApiResponse) (Result, error) {
	if resp.StatusCode != http.StatusOK {
		return Result{}, &ClientError{
			Kind:       KindAPIRejection,
			HTTPStatus: resp.StatusCode,
			Detail:     string(resp.Body),
		}
	}

	if bytes.Equal(bytes.TrimSpace(resp.Body), jsonNull) {
		return Result{}, newError(KindMalformedResponse, "response body is null", nil)
	}
	var c completion
	if err := json.Unmarshal(resp.Body, &c); err != nil {
		return Result{}, newError(KindMalformedResponse, "failed to unmarshal response body", err)
	}

	if len(c.Choices) == 0 {
		return Result{}, newError(KindEmptyChoices, "response contained no choices", nil)
	}

	usage, err := parseUsage(c.Usage)
	if err != nil {
		return Result{}, newError(KindMalformedResponse, "failed to unmarshal usage", err)
	}

	first := c.Choices[0]
	ret := Result{
		ModelUsed:    valueOr(c.Model, NotAvailable),
		AnswerText:   NoContentAvailable,
		FinishReason: valueOr(first.FinishReason, NotAvailable),
		Usage:        usage,
		Raw:          bytes.Clone(resp.Body),
	}
	if first.Message != nil {
		ret.AnswerText = valueOr(first.Message.Content, NoContentAvailable)
	}
	return ret, nil
}

// parseUsage keeps integer metrics in the order received. Anything else, such
// as nested cost objects or fractional values, is skipped.
func parseUsage(raw json.RawMessage) (*Usage, error) {
	usage := orderedmap.New[string, int64]()
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return usage, nil
	}
	if trimmed := bytes.TrimSpace(raw); trimmed[0] != '{' {
		return nil, fmt.Errorf("expected object, got: %s", raw)
	}
	metrics := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, metrics); err != nil {
		return nil, err
	}
	for pair := metrics.Oldest(); pair != nil; pair = pair.Next() {
		if bytes.Equal(bytes.TrimSpace(pair.Value), jsonNull) {
			continue
		}
		var v int64
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			continue
		}
		usage.Set(pair.Key, v)
	}
	return usage, nil
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
