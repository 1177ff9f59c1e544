package opsrelay

import (
	"context"

	"github.com/opsrelay/opsrelay/model"
	"github.com/opsrelay/opsrelay/policy"
	"github.com/opsrelay/opsrelay/runtime/executor"
	"github.com/opsrelay/opsrelay/runtime/harness"
	"github.com/opsrelay/opsrelay/runtime/orchestrator"
	"github.com/opsrelay/opsrelay/runtime/plangen"
	"github.com/opsrelay/opsrelay/runtime/summarizer"
	"github.com/opsrelay/opsrelay/service/approval"
	"github.com/opsrelay/opsrelay/service/approval/memory"
	"github.com/opsrelay/opsrelay/service/llm"
	"github.com/opsrelay/opsrelay/service/prompt"
	"github.com/opsrelay/opsrelay/service/tool"
	"github.com/opsrelay/opsrelay/service/tool/email"
	"github.com/opsrelay/opsrelay/service/tool/interaction"
	"github.com/opsrelay/opsrelay/service/tool/slack"
)

// Service is the assembled workflow engine.
type Service struct {
	config     *Config
	client     llm.Client
	prompts    prompt.Store
	approvals  approval.Repository
	registry   *tool.Registry
	extraTools []tool.Service

	orchestrator *orchestrator.Service
}

// New assembles a Service. Unset collaborators fall back to in-process
// defaults: built-in prompts, an in-memory approval repository, simulated
// tool delivery and a mock model client.
func New(options ...Option) *Service {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.client == nil {
		s.client = llm.NewScriptedClient()
	}
	if s.prompts == nil {
		if s.config.PromptURL != "" {
			s.prompts = prompt.NewFsStore(s.config.PromptURL)
		} else {
			s.prompts = prompt.NewDefaultStore()
		}
	}
	if s.approvals == nil {
		s.approvals = memory.New()
	}

	s.registry = tool.NewRegistry()
	if endpoint := s.config.ToolEndpoint; endpoint != "" {
		s.registry.Register(slack.New(slack.WithEndpoint(endpoint)))
		s.registry.Register(email.New(email.WithEndpoint(endpoint)))
		s.registry.Register(interaction.New(interaction.WithEndpoint(endpoint)))
	} else {
		s.registry.Register(slack.New())
		s.registry.Register(email.New())
		s.registry.Register(interaction.New())
	}
	for _, service := range s.extraTools {
		s.registry.Register(service)
	}

	policyConfig := s.config.Policy
	if policyConfig == nil {
		policyConfig = policy.DefaultConfig()
	}
	engine := policy.NewEngine(policyConfig)

	h := harness.New(tool.NewGateway(s.registry))
	s.orchestrator = orchestrator.New(
		s.client,
		s.prompts,
		h,
		plangen.New(s.client, s.prompts),
		executor.New(h),
		summarizer.New(s.client, s.prompts),
		approval.NewGate(s.approvals),
		s.approvals,
		engine,
		orchestrator.Options{
			MaxRetries:          s.config.MaxRetries,
			NotificationVersion: s.config.NotificationVersion,
			PlanVersion:         s.config.PlanVersion,
			SummaryVersion:      s.config.SummaryVersion,
		},
	)
	return s
}

// RunNotificationRouter runs the single-call notification flow.
func (s *Service) RunNotificationRouter(ctx context.Context, input *orchestrator.NotificationInput) (map[string]interface{}, error) {
	return s.orchestrator.RunNotificationRouter(ctx, input)
}

// RunIncidentBroadcast runs the incident broadcast workflow.
func (s *Service) RunIncidentBroadcast(ctx context.Context, input *orchestrator.BroadcastInput) (*model.Outcome, error) {
	return s.orchestrator.RunIncidentBroadcast(ctx, input)
}

// ResumeApprovedWorkflow approves a pending request and resumes its run.
func (s *Service) ResumeApprovedWorkflow(ctx context.Context, approvalID, approvedBy string) (*model.Outcome, error) {
	return s.orchestrator.ResumeApprovedWorkflow(ctx, approvalID, approvedBy)
}

// Approvals exposes the approval repository for decision and listing APIs.
func (s *Service) Approvals() approval.Repository {
	return s.approvals
}

// Registry exposes the tool registry.
func (s *Service) Registry() *tool.Registry {
	return s.registry
}
