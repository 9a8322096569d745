package repository

import (
	"context"
	"database/sql"
	"time"

	User "ripple/internal/identity/model"
	appErrors "ripple/pkg/errors"
	"ripple/pkg/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type UserRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewUserRepository(db *bun.DB, logger *logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *User.User) error {

	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "identityRepo.CreateUser.Insert")
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User.User, error) {

	user := new(User.User)
	err := r.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "identityRepo.GetUserByID.Scan")
	}
	return user, nil
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*User.User)(nil)).
		Set("last_seen = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "identityRepo.TouchLastSeen.Update")
	}
	return nil
}

func (r *UserRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.NewDelete().
		Model((*User.User)(nil)).
		Where("last_seen < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "identityRepo.DeleteStale.Delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}
