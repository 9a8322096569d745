package usecase

import (
	"context"
	"strings"
	"time"

	"ripple/internal/channel"
	"ripple/internal/channel/model"
	"ripple/internal/identity"
	"ripple/pkg/errors"
	"ripple/pkg/logger"
	"ripple/pkg/utils"

	"github.com/google/uuid"
)

// codeAttempts bounds code generation retries. With a 36^6 namespace the
// cap is effectively unreachable, but the contract must exist.
const codeAttempts = 10

type ChannelUsecase struct {
	repo   channel.ChannelRepository
	users  identity.UserRepository
	logger *logger.Logger
}

func NewChannelUsecase(repo channel.ChannelRepository, users identity.UserRepository, logger *logger.Logger) *ChannelUsecase {
	return &ChannelUsecase{repo: repo, users: users, logger: logger}
}

func (uc *ChannelUsecase) Create(ctx context.Context, cmd channel.CreateChannelCommand) (*channel.ChannelDTO, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.ErrInvalidChannelName
	}
	if err := uc.requireUser(ctx, cmd.CreatorID); err != nil {
		return nil, err
	}

	var created *model.Channel
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := utils.GenerateCode(utils.CodeLength)
		if err != nil {
			uc.logger.Error("failed to generate channel code", "err", err)
			return nil, errors.Internal("code generation failed")
		}

		now := time.Now()
		ch := &model.Channel{
			ID:         uuid.New(),
			Name:       name,
			Code:       code,
			ImageRef:   cmd.ImageRef,
			CreatedAt:  now,
			LastActive: now,
		}
		err = uc.repo.Create(ctx, ch, cmd.CreatorID)
		if err == nil {
			created = ch
			break
		}
		if errors.Is(err, errors.CodeAlreadyExists) {
			uc.logger.Warn("channel code collision, retrying", "code", code, "attempt", attempt+1)
			continue
		}
		uc.logger.Error("failed to create channel", "err", err)
		return nil, errors.ErrStoreUnavailable(err)
	}
	if created == nil {
		return nil, errors.ErrCodeSpaceExhausted
	}

	uc.touchUser(ctx, cmd.CreatorID)
	return uc.snapshot(ctx, created.ID)
}

func (uc *ChannelUsecase) Get(ctx context.Context, id uuid.UUID) (*channel.ChannelDTO, error) {
	ch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return toDTO(ch), nil
}

func (uc *ChannelUsecase) List(ctx context.Context) ([]*channel.ChannelDTO, error) {
	channels, err := uc.repo.List(ctx)
	if err != nil {
		uc.logger.Error("failed to list channels", "err", err)
		return nil, storeErr(err)
	}
	dtos := make([]*channel.ChannelDTO, 0, len(channels))
	for _, ch := range channels {
		dtos = append(dtos, toDTO(ch))
	}
	return dtos, nil
}

func (uc *ChannelUsecase) JoinByID(ctx context.Context, channelID, userID uuid.UUID) (*channel.ChannelDTO, error) {
	if err := uc.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := uc.repo.AddMember(ctx, channelID, userID); err != nil {
		return nil, storeErr(err)
	}
	uc.touchUser(ctx, userID)
	return uc.snapshot(ctx, channelID)
}

func (uc *ChannelUsecase) JoinByCode(ctx context.Context, code string, userID uuid.UUID) (*channel.ChannelDTO, error) {
	// Codes are case-insensitive and stored uppercase at rest.
	normalized := strings.ToUpper(strings.TrimSpace(code))

	ch, err := uc.repo.GetByCode(ctx, normalized)
	if err != nil {
		return nil, storeErr(err)
	}
	return uc.JoinByID(ctx, ch.ID, userID)
}

// requireUser validates a referenced identity before it is attached to
// channel state.
func (uc *ChannelUsecase) requireUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := uc.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return err
		}
		uc.logger.Error("failed to look up user", "id", userID, "err", err)
		return errors.ErrStoreUnavailable(err)
	}
	return nil
}

// touchUser refreshes last_seen for an identity referenced by a core
// operation. Best effort: never fails the caller.
func (uc *ChannelUsecase) touchUser(ctx context.Context, userID uuid.UUID) {
	if err := uc.users.TouchLastSeen(ctx, userID); err != nil {
		uc.logger.Warn("failed to refresh last_seen", "id", userID, "err", err)
	}
}

func (uc *ChannelUsecase) snapshot(ctx context.Context, id uuid.UUID) (*channel.ChannelDTO, error) {
	ch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return toDTO(ch), nil
}

// storeErr passes domain errors through and folds everything else into
// the store-unavailable taxonomy so persistence detail never leaks out.
func storeErr(err error) error {
	if errors.CodeOf(err) != errors.CodeUnknown {
		return err
	}
	return errors.ErrStoreUnavailable(err)
}

func toDTO(ch *model.Channel) *channel.ChannelDTO {
	dto := &channel.ChannelDTO{
		ID:         ch.ID,
		Name:       ch.Name,
		Code:       ch.Code,
		ImageRef:   ch.ImageRef,
		CreatedAt:  ch.CreatedAt,
		LastActive: ch.LastActive,
		Members:    make([]identity.UserDTO, 0, len(ch.Members)),
		Messages:   make([]channel.MessageDTO, 0, len(ch.Messages)),
	}
	for _, m := range ch.Members {
		if m.User == nil {
			continue
		}
		dto.Members = append(dto.Members, identity.UserDTO{
			ID:       m.User.ID,
			Username: m.User.Username,
			Avatar:   m.User.Avatar,
			LastSeen: m.User.LastSeen,
		})
	}
	for _, msg := range ch.Messages {
		md := channel.MessageDTO{
			ID:          msg.ID,
			Content:     msg.Content,
			Kind:        msg.Kind,
			SenderID:    msg.SenderID,
			Timestamp:   msg.SentAt,
			OneTimeView: msg.OneTimeView,
			Viewed:      msg.Viewed,
		}
		if msg.Sender != nil {
			md.Sender = &identity.UserDTO{
				ID:       msg.Sender.ID,
				Username: msg.Sender.Username,
				Avatar:   msg.Sender.Avatar,
				LastSeen: msg.Sender.LastSeen,
			}
		}
		dto.Messages = append(dto.Messages, md)
	}
	return dto
}
