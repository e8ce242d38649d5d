package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// Sender delivers a request and returns whatever the server answered,
// independent of status code.
type Sender interface {
	Send(ctx context.Context, req RequestDescriptor) (ApiResponse, error)
}

type HTTPSender struct {
	client *http.Client
	debug  bool
}

// NewHTTPSender using client, or http.DefaultClient if nil.
func NewHTTPSender(client *http.Client) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{
		client: client,
		debug:  misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_PPLX")),
	}
}

func (s *HTTPSender) Send(ctx context.Context, desc RequestDescriptor) (ApiResponse, error) {
	req, err := s.createRequest(ctx, desc)
	if err != nil {
		return ApiResponse{}, newError(KindTransport, "failed to create request", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return ApiResponse{}, newError(KindTransport, "failed to execute request", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return ApiResponse{}, &ClientError{
			Kind:       KindTransport,
			HTTPStatus: res.StatusCode,
			Detail:     "failed to read response body",
			Err:        err,
		}
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("perplexity response, status: %v, body: %v\n", res.Status, string(body)))
	}
	return ApiResponse{StatusCode: res.StatusCode, Body: body}, nil
}

func (s *HTTPSender) createRequest(ctx context.Context, desc RequestDescriptor) (*http.Request, error) {
	jsonData, err := json.Marshal(desc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("perplexity request to '%v': %v\n", desc.URL, debug.IndentedJsonFmt(desc.Body)))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, desc.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = desc.Headers.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	return req, nil
}
