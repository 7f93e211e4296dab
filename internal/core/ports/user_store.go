package ports

import (
	"context"

	"github.com/nimbushr/expense-system/internal/core/domain"
)

// UserProfileStore is the identity and credential collaborator. Lookups
// return domain.ErrUserNotFound when no profile matches; any other error is a
// store failure.
type UserProfileStore interface {
	ExistsID(ctx context.Context, id int64) (bool, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)

	// PasswordHashByUsername returns the stored bcrypt hash for the account.
	PasswordHashByUsername(ctx context.Context, username string) (string, error)

	ByID(ctx context.Context, id int64) (domain.UserProfile, error)
	ByUsername(ctx context.Context, username string) (domain.UserProfile, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.UserProfile, error)

	// Save persists the profile and returns its id. A profile with
	// ID == domain.NullID is inserted under a newly assigned id; otherwise the
	// existing record is updated in place. Role and id are never changed by an
	// update.
	Save(ctx context.Context, profile domain.UserProfile) (int64, error)
}
