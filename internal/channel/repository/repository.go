package repository

import (
	"context"
	"database/sql"
	"time"

	"ripple/internal/channel/model"
	appErrors "ripple/pkg/errors"
	"ripple/pkg/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type ChannelRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewChannelRepository(db *bun.DB, logger *logger.Logger) *ChannelRepository {
	return &ChannelRepository{
		db:     db,
		logger: logger,
	}
}

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation
}

func (r *ChannelRepository) Create(ctx context.Context, ch *model.Channel, creatorID uuid.UUID) error {

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(ch).Returning("*").Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return appErrors.ErrCodeTaken
			}
			return errors.Wrap(err, "channelRepo.Create.InsertChannel")
		}

		member := &model.ChannelMember{
			ChannelID: ch.ID,
			UserID:    creatorID,
			JoinedAt:  ch.CreatedAt,
		}
		if _, err := tx.NewInsert().Model(member).Exec(ctx); err != nil {
			return errors.Wrap(err, "channelRepo.Create.InsertCreator")
		}
		return nil
	})
	return err
}

func (r *ChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Channel, error) {

	ch := new(model.Channel)
	err := r.populated(r.db.NewSelect().Model(ch)).
		Where("channel.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrChannelNotFound
		}
		return nil, errors.Wrap(err, "channelRepo.GetByID.Scan")
	}
	return ch, nil
}

func (r *ChannelRepository) GetByCode(ctx context.Context, code string) (*model.Channel, error) {

	ch := new(model.Channel)
	err := r.populated(r.db.NewSelect().Model(ch)).
		Where("channel.code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidChannelCode
		}
		return nil, errors.Wrap(err, "channelRepo.GetByCode.Scan")
	}
	return ch, nil
}

func (r *ChannelRepository) List(ctx context.Context) ([]*model.Channel, error) {

	var channels []*model.Channel
	err := r.populated(r.db.NewSelect().Model(&channels)).
		Order("channel.last_active DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "channelRepo.List.Scan")
	}
	return channels, nil
}

// populated loads members in join order and messages in append order,
// each with its user record.
func (r *ChannelRepository) populated(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Members", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("id ASC")
		}).
		Relation("Members.User").
		Relation("Messages", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sent_at ASC").Order("id ASC")
		}).
		Relation("Messages.Sender")
}

// lockChannel takes the row lock that serializes all per-channel mutation.
func lockChannel(ctx context.Context, tx bun.Tx, id uuid.UUID) error {
	ch := new(model.Channel)
	err := tx.NewSelect().Model(ch).Where("id = ?", id).For("UPDATE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrChannelNotFound
		}
		return errors.Wrap(err, "channelRepo.lockChannel.Scan")
	}
	return nil
}

func touchChannel(ctx context.Context, tx bun.Tx, id uuid.UUID, now time.Time) error {
	// GREATEST keeps last_active monotonic even if the wall clock steps back
	_, err := tx.NewUpdate().
		Model((*model.Channel)(nil)).
		Set("last_active = GREATEST(last_active, ?)", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "channelRepo.touchChannel.Update")
	}
	return nil
}

func (r *ChannelRepository) AddMember(ctx context.Context, channelID, userID uuid.UUID) error {

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockChannel(ctx, tx, channelID); err != nil {
			return err
		}

		member := &model.ChannelMember{
			ChannelID: channelID,
			UserID:    userID,
			JoinedAt:  time.Now(),
		}
		// A repeated join is a no-op on the membership set, not an error.
		_, err := tx.NewInsert().
			Model(member).
			On("CONFLICT (channel_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.AddMember.Insert")
		}

		return touchChannel(ctx, tx, channelID, time.Now())
	})
}

func (r *ChannelRepository) AppendMessage(ctx context.Context, msg *model.ChannelMessage) error {

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockChannel(ctx, tx, msg.ChannelID); err != nil {
			return err
		}

		// Server-assigned under the row lock, so timestamps within a
		// channel are non-decreasing in append order.
		msg.ID = uuid.New()
		msg.SentAt = time.Now()

		if _, err := tx.NewInsert().Model(msg).Exec(ctx); err != nil {
			return errors.Wrap(err, "channelRepo.AppendMessage.Insert")
		}

		return touchChannel(ctx, tx, msg.ChannelID, msg.SentAt)
	})
}

func (r *ChannelRepository) MarkMessageViewed(ctx context.Context, channelID, messageID uuid.UUID) error {

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockChannel(ctx, tx, channelID); err != nil {
			return err
		}

		msg := new(model.ChannelMessage)
		err := tx.NewSelect().
			Model(msg).
			Where("id = ? AND channel_id = ?", messageID, channelID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrMessageNotFound
			}
			return errors.Wrap(err, "channelRepo.MarkMessageViewed.Scan")
		}

		// One-way transition, only meaningful for one-time-view messages.
		if !msg.OneTimeView || msg.Viewed {
			return nil
		}

		_, err = tx.NewUpdate().
			Model((*model.ChannelMessage)(nil)).
			Set("viewed = TRUE").
			Where("id = ? AND one_time_view = TRUE AND viewed = FALSE", messageID).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.MarkMessageViewed.Update")
		}
		return nil
	})
}

func (r *ChannelRepository) ListReapable(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {

	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*model.Channel)(nil)).
		Column("id").
		Where("last_active < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM channel_members m WHERE m.channel_id = channel.id)").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "channelRepo.ListReapable.Scan")
	}
	return ids, nil
}

func (r *ChannelRepository) DeleteIfReapable(ctx context.Context, id uuid.UUID, cutoff time.Time) (bool, error) {

	deleted := false
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// The conditional delete re-checks eligibility under the row lock,
		// so a join that committed after ListReapable keeps the channel.
		res, err := tx.NewDelete().
			Model((*model.Channel)(nil)).
			Where("id = ?", id).
			Where("last_active < ?", cutoff).
			Where("NOT EXISTS (SELECT 1 FROM channel_members m WHERE m.channel_id = channel.id)").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.DeleteIfReapable.DeleteChannel")
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}

		// Messages are owned by the channel and go with it.
		_, err = tx.NewDelete().
			Model((*model.ChannelMessage)(nil)).
			Where("channel_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "channelRepo.DeleteIfReapable.DeleteMessages")
		}
		deleted = true
		return nil
	})
	return deleted, err
}
