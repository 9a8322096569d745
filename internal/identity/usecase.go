package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserUsecase interface {
	// Register creates a new identity with a server-assigned id.
	Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error)

	// Get returns the stored profile and refreshes last_seen.
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
}
