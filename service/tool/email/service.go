// Package email sends email through a mail-bridge tool endpoint.
package email

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/opsrelay/opsrelay/internal/idgen"
	"github.com/opsrelay/opsrelay/service/tool"
)

const name = "email"

// Service delivers email through an internal tool endpoint, simulating
// delivery when no endpoint is configured.
type Service struct {
	endpoint string
	client   *http.Client
}

// Input is the send request.
type Input struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Output is the tool result envelope.
type Output struct {
	OK                bool   `json:"ok"`
	Tool              string `json:"tool"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
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
			Name:        "send",
			Description: "Sends an email message.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method.
func (s *Service) Method(name string) (tool.Executable, error) {
	switch strings.ToLower(name) {
	case "send":
		return s.send, nil
	default:
		return nil, tool.NewMethodNotFoundError(name)
	}
}

func (s *Service) send(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return tool.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return tool.NewInvalidOutputError(out)
	}
	if s.endpoint == "" {
		output.OK = true
		output.Tool = "send_email"
		output.ProviderMessageID = "msg_" + idgen.New()
		return nil
	}
	return tool.PostJSON(ctx, s.client, s.endpoint+"/tools/send-email", input, output)
}

var _ tool.Service = (*Service)(nil)
