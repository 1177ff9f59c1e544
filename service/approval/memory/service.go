// Package memory provides the in-memory approval repository used by tests,
// examples and single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/opsrelay/opsrelay/internal/clock"
	"github.com/opsrelay/opsrelay/internal/idgen"
	"github.com/opsrelay/opsrelay/service/approval"
	"github.com/opsrelay/opsrelay/service/dao"
	"github.com/opsrelay/opsrelay/service/dao/criteria"
	"github.com/opsrelay/opsrelay/service/dao/store"
	"github.com/opsrelay/opsrelay/service/messaging"
	qmem "github.com/opsrelay/opsrelay/service/messaging/memory"
)

type service struct {
	requests dao.Service[string, approval.Request]
	events   *qmem.Queue[approval.Event]

	// decideMu serialises the PENDING->decided transition; the store's own
	// lock only covers individual Save/Load calls, not the read-modify-write.
	decideMu sync.Mutex
}

func requestKey(r *approval.Request) string { return r.ID }

// New creates an empty in-memory repository.
func New() approval.Repository {
	return &service{
		requests: store.NewMemoryStore[string, approval.Request](requestKey),
		events:   qmem.NewQueue[approval.Event](qmem.DefaultConfig()),
	}
}

// CreatePending implements approval.Repository.
func (s *service) CreatePending(ctx context.Context, request *approval.Request) (string, error) {
	if request == nil {
		return "", dao.ErrNilEntity
	}
	stored := *request
	stored.ID = idgen.New()
	stored.Status = approval.StatusPending
	stored.RequestedAt = clock.Now()
	if err := s.requests.Save(ctx, &stored); err != nil {
		return "", err
	}
	// Events are advisory; a full buffer must never stall request creation.
	_ = s.events.TryPublish(ctx, &approval.Event{Topic: approval.TopicRequestCreated, Request: &stored})
	return stored.ID, nil
}

// Get implements approval.Repository.
func (s *service) Get(ctx context.Context, id string) (*approval.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	request, err := s.requests.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, dao.ErrNotFound
	}
	return request, nil
}

// MarkApproved implements approval.Repository.
func (s *service) MarkApproved(ctx context.Context, id, approvedBy string) (*approval.Request, error) {
	return s.decide(ctx, id, approval.StatusApproved, approvedBy, "")
}

// MarkRejected implements approval.Repository.
func (s *service) MarkRejected(ctx context.Context, id, rejectedBy, reason string) (*approval.Request, error) {
	return s.decide(ctx, id, approval.StatusRejected, rejectedBy, reason)
}

func (s *service) decide(ctx context.Context, id string, status approval.Status, decidedBy, reason string) (*approval.Request, error) {
	s.decideMu.Lock()
	defer s.decideMu.Unlock()

	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Compare-and-set: only one decision may succeed.
	if request.Status != approval.StatusPending {
		return nil, &approval.ConflictError{ID: id, Status: request.Status}
	}

	decided := *request
	now := clock.Now()
	decided.Status = status
	decided.DecidedAt = &now
	decided.DecidedBy = decidedBy
	decided.DecisionReason = reason
	if err := s.requests.Save(ctx, &decided); err != nil {
		return nil, err
	}
	// Non-blocking: decideMu is held here, a slow consumer must not pin it.
	_ = s.events.TryPublish(ctx, &approval.Event{Topic: approval.TopicDecisionCreated, Request: &decided})
	return &decided, nil
}

// List implements approval.Repository.
func (s *service) List(ctx context.Context, filters approval.Filters, paging approval.Paging, sorting approval.Sorting) (*approval.Page, error) {
	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}

	var statusParams []*dao.Parameter
	if filters.Status != "" {
		statusParams = append(statusParams, dao.NewParameter("Status", string(filters.Status)))
	}

	matched := make([]*approval.Request, 0, len(all))
	for _, request := range all {
		if !criteria.FilterByStatus(string(request.Status), statusParams) {
			continue
		}
		if filters.RequestedBy != "" && request.RequestedBy != filters.RequestedBy {
			continue
		}
		if filters.DecidedBy != "" && request.DecidedBy != filters.DecidedBy {
			continue
		}
		if filters.Workflow != "" && request.Workflow != filters.Workflow {
			continue
		}
		matched = append(matched, request)
	}

	sortRequests(matched, sorting)

	if paging.Limit <= 0 {
		paging.Limit = approval.DefaultPaging.Limit
	}
	if paging.Offset < 0 {
		paging.Offset = 0
	}
	total := len(matched)
	start := paging.Offset
	if start > total {
		start = total
	}
	end := start + paging.Limit
	if end > total {
		end = total
	}

	return &approval.Page{
		Data: matched[start:end],
		Meta: approval.PageMeta{
			Total:       total,
			Limit:       paging.Limit,
			Offset:      paging.Offset,
			HasNext:     end < total,
			HasPrevious: start > 0,
		},
	}, nil
}

func sortRequests(requests []*approval.Request, sorting approval.Sorting) {
	by := sorting.By
	if by == "" {
		by = approval.SortByRequestedAt
	}
	order := sorting.Order
	if order == "" {
		order = approval.SortDesc
	}
	sort.SliceStable(requests, func(i, j int) bool {
		var less bool
		switch by {
		case approval.SortByStatus:
			less = requests[i].Status < requests[j].Status
		case approval.SortByWorkflow:
			less = requests[i].Workflow < requests[j].Workflow
		default:
			less = requests[i].RequestedAt.Before(requests[j].RequestedAt)
		}
		if order == approval.SortDesc {
			return !less && !equalBy(requests[i], requests[j], by)
		}
		return less
	})
}

func equalBy(a, b *approval.Request, by string) bool {
	switch by {
	case approval.SortByStatus:
		return a.Status == b.Status
	case approval.SortByWorkflow:
		return a.Workflow == b.Workflow
	default:
		return a.RequestedAt.Equal(b.RequestedAt)
	}
}

// Queue implements approval.Repository.
func (s *service) Queue() messaging.Queue[approval.Event] {
	return s.events
}

var _ approval.Repository = (*service)(nil)
