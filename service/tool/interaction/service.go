// Package interaction asks the requesting user for missing information
// instead of performing a side effect.
package interaction

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/opsrelay/opsrelay/service/tool"
)

const name = "interaction"

// Service turns a request_missing_info action into a prompt back to the user.
type Service struct {
	endpoint string
	client   *http.Client
}

// Input is the request.
type Input struct {
	Question string `json:"question,omitempty"`
}

// Output is the tool result envelope.
type Output struct {
	OK           bool   `json:"ok"`
	Tool         string `json:"tool"`
	PromptToUser string `json:"prompt_to_user,omitempty"`
}

// Option customises the service.
type Option func(*Service)

// WithEndpoint points the service at a tool server base URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Service) { s.endpoint = strings.TrimSuffix(endpoint, "/") }
}

// WithClient overrides the HTTP client.
func WithClient(client *http.Client) Option {
	return func(s *Service) { s.client = client }
}

// New creates the service.
func New(options ...Option) *Service {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	return s
}

// Name returns the service name.
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods.
func (s *Service) Methods() tool.Signatures {
	return []tool.Signature{
		{
			Name:        "request",
			Description: "Requests missing information from the user.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method.
func (s *Service) Method(name string) (tool.Executable, error) {
	switch strings.ToLower(name) {
	case "request":
		return s.request, nil
	default:
		return nil, tool.NewMethodNotFoundError(name)
	}
}

func (s *Service) request(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return tool.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return tool.NewInvalidOutputError(out)
	}
	if s.endpoint == "" {
		question := input.Question
		if question == "" {
			question = "Additional information is required to proceed."
		}
		output.OK = true
		output.Tool = "request_missing_info"
		output.PromptToUser = question
		return nil
	}
	return tool.PostJSON(ctx, s.client, s.endpoint+"/tools/request-missing-info", input, output)
}

var _ tool.Service = (*Service)(nil)
