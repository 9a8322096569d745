package model

import (
	"time"

	"github.com/google/uuid"
	user "ripple/internal/identity/model"
)

// ChannelMember is one row per (channel, user). Insertion order is the
// display order, carried by the serial pk; (channel_id, user_id) is unique
// so a repeated join cannot duplicate membership.
type ChannelMember struct {
	ID int64 `bun:",pk,autoincrement"`

	ChannelID uuid.UUID `bun:",notnull,type:uuid,unique:channel_member"`
	Channel   *Channel  `bun:"rel:belongs-to,join:channel_id=id"`

	UserID uuid.UUID  `bun:",notnull,type:uuid,unique:channel_member"`
	User   *user.User `bun:"rel:belongs-to,join:user_id=id"`

	JoinedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
