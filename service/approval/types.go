package approval

import (
	"fmt"
	"time"

	"github.com/opsrelay/opsrelay/model"
)

// Status of an approval request. A request transitions exactly once:
// PENDING to APPROVED or PENDING to REJECTED.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is a persisted approval request for a paused workflow run.
type Request struct {
	ID              string         `json:"id"`
	TraceID         string         `json:"traceId"`
	Workflow        model.Workflow `json:"workflow"`
	Actions         []model.Action `json:"actions"`
	SafeUserRequest string         `json:"safeUserRequest"`
	Plan            *model.Plan    `json:"plan"`
	Reason          string         `json:"reason"`
	Status          Status         `json:"status"`
	RequestedAt     time.Time      `json:"requestedAt"`
	RequestedBy     string         `json:"requestedBy,omitempty"`
	DecidedAt       *time.Time     `json:"decidedAt,omitempty"`
	DecidedBy       string         `json:"decidedBy,omitempty"`
	DecisionReason  string         `json:"decisionReason,omitempty"`
}

// ConflictError reports a decision attempt on a request that is no longer
// PENDING. Decisions are single-shot by contract.
type ConflictError struct {
	ID     string
	Status Status
}

// Error implements error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("approval %s already decided (status %s)", e.ID, e.Status)
}

// Filters narrows a listing. Zero values match everything.
type Filters struct {
	Status      Status
	RequestedBy string
	DecidedBy   string
	Workflow    model.Workflow
}

// Paging bounds a listing.
type Paging struct {
	Limit  int
	Offset int
}

// DefaultPaging is applied when the caller supplies no limit.
var DefaultPaging = Paging{Limit: 50}

// Sort fields and orders.
const (
	SortByRequestedAt = "requested_at"
	SortByStatus      = "status"
	SortByWorkflow    = "workflow"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sorting orders a listing; the zero value means requested-at descending.
type Sorting struct {
	By    string
	Order string
}

// PageMeta describes the position of a page within the full result set.
type PageMeta struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// Page is one page of approval requests.
type Page struct {
	Data []*Request `json:"data"`
	Meta PageMeta   `json:"meta"`
}

// Event topics published by repositories.
const (
	TopicRequestCreated  = "request.created"
	TopicDecisionCreated = "decision.created"
)

// Event is the envelope published on the approval queue.
type Event struct {
	Topic   string            `json:"topic"`
	Request *Request          `json:"request,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}
