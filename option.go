package opsrelay

import (
	"github.com/opsrelay/opsrelay/service/approval"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/opsrelay/opsrelay/service/prompt"
	"github.com/opsrelay/opsrelay/service/tool"
)

// Option customises a Service.
type Option func(s *Service)

// WithConfig sets the configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithModelClient sets the text-generation backend.
func WithModelClient(client llm.Client) Option {
	return func(s *Service) { s.client = client }
}

// WithPromptStore sets the prompt store.
func WithPromptStore(store prompt.Store) Option {
	return func(s *Service) { s.prompts = store }
}

// WithApprovalRepository sets the approval repository.
func WithApprovalRepository(repository approval.Repository) Option {
	return func(s *Service) { s.approvals = repository }
}

// WithToolServices registers additional tool services on top of the built-in
// slack, email and interaction services.
func WithToolServices(services ...tool.Service) Option {
	return func(s *Service) { s.extraTools = append(s.extraTools, services...) }
}
