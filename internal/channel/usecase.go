package channel

import (
	"context"

	"github.com/google/uuid"
)

type ChannelUsecase interface {
	// Create validates the name, allocates a unique join code and persists
	// the channel with the creator as first member.
	Create(ctx context.Context, cmd CreateChannelCommand) (*ChannelDTO, error)

	Get(ctx context.Context, id uuid.UUID) (*ChannelDTO, error)
	List(ctx context.Context) ([]*ChannelDTO, error)

	// JoinByID adds the user to the channel. Idempotent: a repeated join
	// keeps the member set and its order, but still refreshes activity.
	JoinByID(ctx context.Context, channelID, userID uuid.UUID) (*ChannelDTO, error)

	// JoinByCode behaves as JoinByID after a case-insensitive code lookup.
	JoinByCode(ctx context.Context, code string, userID uuid.UUID) (*ChannelDTO, error)

	// Append validates and appends a message, returning the updated
	// channel snapshot.
	Append(ctx context.Context, cmd AppendMessageCommand) (*ChannelDTO, error)

	// MarkViewed records first display of a one-time-view message.
	MarkViewed(ctx context.Context, channelID, messageID uuid.UUID) error
}
