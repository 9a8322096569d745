package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	User "ripple/internal/identity/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *User.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User.User, error)

	// TouchLastSeen refreshes last_seen for a referenced identity.
	TouchLastSeen(ctx context.Context, id uuid.UUID) error

	// DeleteStale removes users not seen since the cutoff. Returns the
	// number of deleted records.
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}
