package domain

import (
	"errors"
	"strings"
	"time"
)

// ReimbursementType classifies what kind of expense is being claimed.
type ReimbursementType string

const (
	TypeNone    ReimbursementType = "none" // invalid sentinel, never stored
	TypeLodging ReimbursementType = "lodging"
	TypeTravel  ReimbursementType = "travel"
	TypeFood    ReimbursementType = "food"
	TypeOther   ReimbursementType = "other"
)

// TypeFromString parses a client-supplied expense type. Unrecognised input
// maps to TypeNone, which callers must treat as invalid.
func TypeFromString(s string) ReimbursementType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lodging":
		return TypeLodging
	case "travel":
		return TypeTravel
	case "food":
		return TypeFood
	case "other":
		return TypeOther
	default:
		return TypeNone
	}
}

// ReimbursementStatus represents the lifecycle state of a claim.
type ReimbursementStatus string

const (
	StatusNone     ReimbursementStatus = "none" // invalid sentinel, never stored
	StatusPending  ReimbursementStatus = "pending"
	StatusApproved ReimbursementStatus = "approved"
	StatusDenied   ReimbursementStatus = "denied"
)

// validTransitions defines the allowed state machine transitions. Approved
// and denied are terminal.
var validTransitions = map[ReimbursementStatus][]ReimbursementStatus{
	StatusPending: {StatusApproved, StatusDenied},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ReimbursementStatus) CanTransitionTo(next ReimbursementStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrRequestNotFound = errors.New("reimbursement request not found")
var ErrRequestNotPending = errors.New("reimbursement request is not pending")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ReimbursementRequest is an expense claim submitted by an employee and
// resolved by a manager. Amount and type are fixed at submission; status,
// resolver and resolution time change exactly once, when a manager resolves
// the claim.
type ReimbursementRequest struct {
	ID          int64               `json:"id"`
	AuthorID    int64               `json:"author_id"`
	AmountCents int64               `json:"amount_cents"`
	Type        ReimbursementType   `json:"type"`
	Status      ReimbursementStatus `json:"status"`
	Description string              `json:"description,omitempty"`
	SubmittedAt time.Time           `json:"submitted_at"`
	ResolverID  int64               `json:"resolver_id"`
	ResolvedAt  *time.Time          `json:"resolved_at,omitempty"`
}

// NewReimbursementRequest builds an unsaved claim in its initial state.
func NewReimbursementRequest(authorID, amountCents int64, typ ReimbursementType, description string, now time.Time) ReimbursementRequest {
	return ReimbursementRequest{
		ID:          NullID,
		AuthorID:    authorID,
		AmountCents: amountCents,
		Type:        typ,
		Status:      StatusPending,
		Description: description,
		SubmittedAt: now,
		ResolverID:  NullID,
	}
}
