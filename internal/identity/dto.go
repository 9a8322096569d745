package identity

import (
	"time"

	"github.com/google/uuid"
)

// NOTE: commands travel from handler to usecase
// Note: DTO travels from usecase to handler
type RegisterCommand struct {
	Username string
	Avatar   string
}

type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar,omitempty"`
	LastSeen time.Time `json:"lastSeen"`
}
