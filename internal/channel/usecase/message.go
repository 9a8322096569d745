package usecase

import (
	"context"
	"strings"

	"ripple/internal/channel"
	"ripple/internal/channel/model"
	"ripple/pkg/errors"

	"github.com/google/uuid"
)

func (uc *ChannelUsecase) Append(ctx context.Context, cmd channel.AppendMessageCommand) (*channel.ChannelDTO, error) {
	if !cmd.Kind.Valid() {
		return nil, errors.ErrInvalidKind
	}
	if strings.TrimSpace(cmd.Content) == "" {
		return nil, errors.ErrEmptyContent
	}
	if cmd.OneTimeView && cmd.Kind != model.KindImage {
		return nil, errors.InvalidArg("only image messages can be one-time-view")
	}
	if err := uc.requireUser(ctx, cmd.SenderID); err != nil {
		return nil, err
	}

	msg := &model.ChannelMessage{
		ChannelID:   cmd.ChannelID,
		SenderID:    cmd.SenderID,
		Content:     cmd.Content,
		Kind:        cmd.Kind,
		OneTimeView: cmd.OneTimeView,
	}
	// Id and timestamp are assigned by the store under the channel lock.
	if err := uc.repo.AppendMessage(ctx, msg); err != nil {
		return nil, storeErr(err)
	}

	uc.touchUser(ctx, cmd.SenderID)
	return uc.snapshot(ctx, cmd.ChannelID)
}

func (uc *ChannelUsecase) MarkViewed(ctx context.Context, channelID, messageID uuid.UUID) error {
	if err := uc.repo.MarkMessageViewed(ctx, channelID, messageID); err != nil {
		return storeErr(err)
	}
	return nil
}
