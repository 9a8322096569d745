package usecase

import (
	"context"
	"strings"
	"time"

	"ripple/config"
	"ripple/internal/identity"
	models "ripple/internal/identity/model"
	"ripple/pkg/errors"
	"ripple/pkg/logger"

	"github.com/google/uuid"
)

type UserUsecase struct {
	repo   identity.UserRepository
	logger *logger.Logger
	config *config.Config
}

func NewUserUsecase(repo identity.UserRepository, logger *logger.Logger, config *config.Config) *UserUsecase {
	return &UserUsecase{repo: repo, logger: logger, config: config}
}

func (uc *UserUsecase) Register(ctx context.Context, cmd identity.RegisterCommand) (*identity.UserDTO, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, errors.ErrInvalidUsername
	}

	now := time.Now()
	u := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Avatar:    cmd.Avatar,
		CreatedAt: now,
		LastSeen:  now,
	}
	if err := uc.repo.CreateUser(ctx, u); err != nil {
		uc.logger.Error("failed to save user", "err", err)
		return nil, errors.ErrStoreUnavailable(err)
	}

	return toDTO(u), nil
}

func (uc *UserUsecase) Get(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
	u, err := uc.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
		uc.logger.Error("failed to load user", "id", id, "err", err)
		return nil, errors.ErrStoreUnavailable(err)
	}

	// Any reference to an identity counts as activity.
	if err := uc.repo.TouchLastSeen(ctx, id); err != nil {
		uc.logger.Warn("failed to refresh last_seen", "id", id, "err", err)
	} else {
		u.LastSeen = time.Now()
	}

	return toDTO(u), nil
}

func toDTO(u *models.User) *identity.UserDTO {
	return &identity.UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		LastSeen: u.LastSeen,
	}
}
