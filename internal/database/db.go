package database

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	channelModels "ripple/internal/channel/model"
	identityModels "ripple/internal/identity/model"
)

// Connect opens a bun handle over pgdriver and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*bun.DB, error) {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqlDB := sql.OpenDB(connector)
	db := bun.NewDB(sqlDB, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Models in dependency order: users first, channel tables after.
func Models() []any {
	return []any{
		(*identityModels.User)(nil),
		(*channelModels.Channel)(nil),
		(*channelModels.ChannelMember)(nil),
		(*channelModels.ChannelMessage)(nil),
	}
}

// CreateSchema creates all tables if they do not exist. The unique index
// on channels.code comes from the model definition and is what enforces
// code reservation atomicity.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, m := range Models() {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
