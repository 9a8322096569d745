package channel

import (
	"time"

	"github.com/google/uuid"
	"ripple/internal/channel/model"
	"ripple/internal/identity"
)

// NOTE: commands travel from handler to usecase
// Note: DTO travels from usecase to handler
type CreateChannelCommand struct {
	Name      string
	CreatorID uuid.UUID
	ImageRef  string
}

type AppendMessageCommand struct {
	ChannelID   uuid.UUID
	SenderID    uuid.UUID
	Content     string
	Kind        model.MessageKind
	OneTimeView bool
}

type MessageDTO struct {
	ID          uuid.UUID         `json:"id"`
	Content     string            `json:"content"`
	Kind        model.MessageKind `json:"kind"`
	Sender      *identity.UserDTO `json:"sender,omitempty"`
	SenderID    uuid.UUID         `json:"senderId"`
	Timestamp   time.Time         `json:"timestamp"`
	OneTimeView bool              `json:"oneTimeView,omitempty"`
	Viewed      bool              `json:"viewed,omitempty"`
}

type ChannelDTO struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	Code       string             `json:"code"`
	ImageRef   string             `json:"imageRef,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	LastActive time.Time          `json:"lastActive"`
	Members    []identity.UserDTO `json:"members"`
	Messages   []MessageDTO       `json:"messages"`
}
