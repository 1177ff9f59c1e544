package approval

import (
	"context"

	"github.com/opsrelay/opsrelay/service/messaging"
)

// Repository persists approval requests and owns the single-decision
// guarantee: MarkApproved and MarkRejected must perform an atomic
// compare-and-set on the PENDING status (for SQL backends:
// UPDATE ... WHERE status='PENDING' with an affected-row check) and return
// *ConflictError when the request was already decided.
type Repository interface {
	// CreatePending persists a new PENDING request and returns its id.
	// ID, Status, RequestedAt are assigned by the repository.
	CreatePending(ctx context.Context, request *Request) (string, error)

	// Get returns the request or dao.ErrNotFound.
	Get(ctx context.Context, id string) (*Request, error)

	// MarkApproved transitions PENDING to APPROVED, recording the decider
	// and decision time.
	MarkApproved(ctx context.Context, id, approvedBy string) (*Request, error)

	// MarkRejected transitions PENDING to REJECTED with a reason. Terminal -
	// a rejected run is never resumed.
	MarkRejected(ctx context.Context, id, rejectedBy, reason string) (*Request, error)

	// List returns one page of requests matching the filters.
	List(ctx context.Context, filters Filters, paging Paging, sorting Sorting) (*Page, error)

	// Queue exposes the event stream of created requests and decisions.
	Queue() messaging.Queue[Event]
}
