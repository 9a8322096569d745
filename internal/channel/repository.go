package channel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"ripple/internal/channel/model"
)

type ChannelRepository interface {
	// Create inserts the channel and its creator membership in one
	// transaction. The unique index on code makes the insert double as the
	// code reservation: a collision surfaces as ErrCodeTaken.
	Create(ctx context.Context, ch *model.Channel, creatorID uuid.UUID) error

	// GetByID returns the channel with members (insertion order) and
	// messages (append order) loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Channel, error)

	// GetByCode looks up by join code; the caller normalizes to uppercase.
	GetByCode(ctx context.Context, code string) (*model.Channel, error)

	List(ctx context.Context) ([]*model.Channel, error)

	// AddMember appends userID to the membership if absent and refreshes
	// last_active either way. Serializes on the channel row.
	AddMember(ctx context.Context, channelID, userID uuid.UUID) error

	// AppendMessage assigns the message id and timestamp, appends it and
	// refreshes last_active, all under the channel row lock.
	AppendMessage(ctx context.Context, msg *model.ChannelMessage) error

	// MarkMessageViewed flips viewed false->true for a one-time-view
	// message. No-op when already viewed or not one-time-view.
	MarkMessageViewed(ctx context.Context, channelID, messageID uuid.UUID) error

	// ListReapable returns ids of channels with no members whose
	// last_active is strictly older than the cutoff.
	ListReapable(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)

	// DeleteIfReapable deletes the channel and its messages only if it is
	// still empty and idle at delete time, so a join that slipped in
	// between list and delete wins. Reports whether a delete happened.
	DeleteIfReapable(ctx context.Context, id uuid.UUID, cutoff time.Time) (bool, error)
}
