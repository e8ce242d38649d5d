package perplexity

import (
	"fmt"
)

// Kind classifies why a request could not produce a Result.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindValidation
	KindAPIRejection
	KindMalformedResponse
	KindEmptyChoices
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindValidation:
		return "validation error"
	case KindAPIRejection:
		return "api rejection"
	case KindMalformedResponse:
		return "malformed response"
	case KindEmptyChoices:
		return "empty choices"
	case KindTransport:
		return "transport error"
	}
	return fmt.Sprintf("unknown kind (%d)", int(k))
}

// Sentinels for errors.Is. Matching is done on Kind only.
var (
	ErrConfiguration     = &ClientError{Kind: KindConfiguration}
	ErrValidation        = &ClientError{Kind: KindValidation}
	ErrAPIRejection      = &ClientError{Kind: KindAPIRejection}
	ErrMalformedResponse = &ClientError{Kind: KindMalformedResponse}
	ErrEmptyChoices      = &ClientError{Kind: KindEmptyChoices}
	ErrTransport         = &ClientError{Kind: KindTransport}
)

// ClientError is returned by every failing operation in this package.
// HTTPStatus is 0 unless the server answered.
type ClientError struct {
	Kind       Kind
	HTTPStatus int
	Detail     string
	Err        error
}

func newError(kind Kind, detail string, err error) *ClientError {
	return &ClientError{Kind: kind, Detail: detail, Err: err}
}

func (e *ClientError) Error() string {
	msg := e.Kind.String()
	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%v (status: %v)", msg, e.HTTPStatus)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%v: %v", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %v", msg, e.Err)
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
