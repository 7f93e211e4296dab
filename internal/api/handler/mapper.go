package handler

import (
	"time"

	"github.com/nimbushr/expense-system/internal/core/domain"
)

// profileView is the JSON shape of a user profile in responses.
type profileView struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// requestView is the JSON shape of a reimbursement request in responses.
type requestView struct {
	ID          int64      `json:"id"`
	AuthorID    int64      `json:"author_id"`
	AmountCents int64      `json:"amount_cents"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Description string     `json:"description,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ResolverID  *int64     `json:"resolver_id,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func toProfileViews(profiles []domain.UserProfile) []profileView {
	if len(profiles) == 0 {
		return nil
	}
	out := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileView{
			ID:        p.ID,
			Role:      string(p.Role),
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
		})
	}
	return out
}

func toRequestViews(requests []domain.ReimbursementRequest) []requestView {
	if len(requests) == 0 {
		return nil
	}
	out := make([]requestView, 0, len(requests))
	for _, r := range requests {
		view := requestView{
			ID:          r.ID,
			AuthorID:    r.AuthorID,
			AmountCents: r.AmountCents,
			Type:        string(r.Type),
			Status:      string(r.Status),
			Description: r.Description,
			SubmittedAt: r.SubmittedAt,
			ResolvedAt:  r.ResolvedAt,
		}
		if r.ResolverID != domain.NullID {
			resolver := r.ResolverID
			view.ResolverID = &resolver
		}
		out = append(out, view)
	}
	return out
}
