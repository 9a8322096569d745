package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`

	// Username = display name shown in chats, not a unique handle.
	// Identity is possession of the id, nothing stronger.
	Username string `bun:",notnull"`

	// Avatar = reference (URL) to a generated avatar image
	Avatar string `bun:",null"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	LastSeen  time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
