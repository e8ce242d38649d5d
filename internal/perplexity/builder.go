package perplexity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/baalimago/pplx/internal/catalog"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Builder turns RequestParameters into a RequestDescriptor. It never touches
// the network and holds no mutable state, so one Builder may be shared.
type Builder struct {
	catalog catalog.Catalog
	opts    BuildOptions
}

func NewBuilder(c catalog.Catalog, opts BuildOptions) Builder {
	if opts.URL == "" {
		opts.URL = ChatURL
	}
	return Builder{catalog: c, opts: opts}
}

// Build the request for a single completion. The conversation is always the
// system prompt followed by the query.
func (b Builder) Build(credential string, params RequestParameters) (RequestDescriptor, error) {
	if strings.TrimSpace(credential) == "" {
		return RequestDescriptor{}, newError(KindConfiguration, "credential is empty", nil)
	}
	if err := b.validate(params); err != nil {
		return RequestDescriptor{}, err
	}

	systemPrompt := params.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	headers := make(http.Header)
	headers.Set("Authorization", fmt.Sprintf("Bearer %v", credential))
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	return RequestDescriptor{
		URL:     b.opts.URL,
		Headers: headers,
		Body: RequestBody{
			Model:     params.Model,
			MaxTokens: params.MaxTokens,
			Messages: []Message{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: params.Query},
			},
		},
	}, nil
}

func (b Builder) validate(params RequestParameters) error {
	// Whitespace only queries count as missing, but the query is sent as given.
	trimmed := params
	trimmed.Query = strings.TrimSpace(params.Query)
	if err := validate.Struct(trimmed); err != nil {
		return newError(KindValidation, describeValidationErr(err), nil)
	}
	if b.opts.SkipModelValidation {
		return nil
	}
	if !b.catalog.Contains(params.Model) {
		detail := fmt.Sprintf("'%v' is not a valid model, available models: %v",
			params.Model, strings.Join(b.catalog.Models(), ", "))
		return newError(KindValidation, detail, nil)
	}
	return nil
}

func describeValidationErr(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	descriptions := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			descriptions = append(descriptions, fmt.Sprintf("%v is required", fe.Field()))
		case "gt":
			descriptions = append(descriptions, fmt.Sprintf("%v must be greater than %v, got: %v", fe.Field(), fe.Param(), fe.Value()))
		default:
			descriptions = append(descriptions, fmt.Sprintf("%v failed on '%v'", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(descriptions, ", ")
}
