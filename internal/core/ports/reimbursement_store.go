package ports

import (
	"context"
	"time"

	"github.com/nimbushr/expense-system/internal/core/domain"
)

// StatusFilter narrows a reimbursement query by lifecycle state.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterPending  StatusFilter = "pending"
	FilterResolved StatusFilter = "resolved" // approved or denied
)

// AnyAuthor disables the author filter in a QueryFilter.
const AnyAuthor int64 = -1

// QueryFilter carries the query parameters for listing reimbursement requests.
type QueryFilter struct {
	AuthorID int64 // AnyAuthor = no author filter
	Status   StatusFilter
}

// ReimbursementStore is the claim persistence collaborator. Lookups return
// domain.ErrRequestNotFound when no record matches; any other error is a
// store failure.
type ReimbursementStore interface {
	Query(ctx context.Context, filter QueryFilter) ([]domain.ReimbursementRequest, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ByID(ctx context.Context, id int64) (domain.ReimbursementRequest, error)

	// Save persists the claim and returns its id, assigning a new one when
	// ID == domain.NullID.
	Save(ctx context.Context, req domain.ReimbursementRequest) (int64, error)

	// Resolve moves a claim out of pending with compare-and-set semantics: the
	// update applies only if the stored status is still pending at write time.
	// Returns domain.ErrRequestNotPending when another resolution won the race
	// and domain.ErrRequestNotFound when the id does not exist.
	Resolve(ctx context.Context, id int64, status domain.ReimbursementStatus, resolverID int64, at time.Time) error
}
