package perplexity

import (
	"context"
	"errors"
)

// Client runs one completion: build, send, interpret. It performs a single
// request and never retries.
type Client struct {
	credential string
	builder    Builder
	sender     Sender
}

func NewClient(credential string, builder Builder, sender Sender) *Client {
	return &Client{
		credential: credential,
		builder:    builder,
		sender:     sender,
	}
}

func (c *Client) Complete(ctx context.Context, params RequestParameters) (Result, error) {
	desc, err := c.builder.Build(c.credential, params)
	if err != nil {
		return Result{}, err
	}
	resp, err := c.sender.Send(ctx, desc)
	if err != nil {
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			return Result{}, err
		}
		return Result{}, newError(KindTransport, "failed to send request", err)
	}
	return Interpret(resp)
}
