package model

import (
	"time"

	"github.com/google/uuid"
)

type Channel struct {
	ID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`

	// Basic info
	Name string `bun:",notnull"`

	// Code = short shareable join token, stored uppercase. The unique
	// index is what makes code reservation atomic under concurrent
	// creation: the insert either takes the code or fails.
	Code string `bun:",notnull,unique"`

	ImageRef string `bun:"image_ref,null"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`

	// Activity tracking; refreshed on every membership or message
	// mutation, never moves backwards.
	LastActive time.Time `bun:",nullzero,notnull,default:current_timestamp"`

	// Loaded relations, nil unless explicitly selected.
	Members  []*ChannelMember  `bun:"rel:has-many,join:id=channel_id"`
	Messages []*ChannelMessage `bun:"rel:has-many,join:id=channel_id"`
}
