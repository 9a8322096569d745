package model

import (
	"time"

	"github.com/google/uuid"
	user "ripple/internal/identity/model"
)

// MessageKind is a closed set; anything else is rejected at the append
// boundary.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindLink  MessageKind = "link"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindLink:
		return true
	}
	return false
}

type ChannelMessage struct {
	ID        uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	ChannelID uuid.UUID `bun:",notnull,type:uuid"`
	Channel   *Channel  `bun:"rel:belongs-to,join:channel_id=id"`

	SenderID uuid.UUID  `bun:",notnull,type:uuid"`
	Sender   *user.User `bun:"rel:belongs-to,join:sender_id=id"`

	// Content is plain text, a data-URI for images, or a URL for links.
	Content string      `bun:",notnull"`
	Kind    MessageKind `bun:",notnull,default:'text'"`

	// One-time-view images flip Viewed exactly once, never back.
	OneTimeView bool `bun:",default:false"`
	Viewed      bool `bun:",default:false"`

	// SentAt is server-assigned inside the append transaction so ordering
	// within a channel is never at the mercy of client clocks.
	SentAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
