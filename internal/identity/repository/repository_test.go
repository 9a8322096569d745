package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ripple/config"
	models "ripple/internal/identity/model"
	appErrors "ripple/pkg/errors"
	"ripple/pkg/logger"
)

var (
	testDB     *bun.DB
	testLogger *logger.Logger
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ripple"),
		postgres.WithUsername("ripple"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		log.Printf("failed to get connection string: %v", err)
		return
	}

	connector := pgdriver.NewConnector(pgdriver.WithDSN(connStr))
	sqlDB := sql.OpenDB(connector)
	testDB = bun.NewDB(sqlDB, pgdialect.New())

	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	if _, err := testDB.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx); err != nil {
		testDB.Close()
		log.Fatalf("failed to create users table: %v", err)
	}

	testLogger, _ = logger.NewLogger(&config.Config{})

	code := m.Run()

	testDB.Close()

	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Cleanup(func() {
		_, err := testDB.ExecContext(context.Background(), `TRUNCATE TABLE users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
	})
}

func Test_CreateAndGetUser(t *testing.T) {
	cleanup(t)
	r := NewUserRepository(testDB, testLogger)
	ctx := context.Background()

	u := &models.User{
		ID:        uuid.New(),
		Username:  "alice",
		Avatar:    "https://avatars.example/alice.png",
		CreatedAt: time.Now(),
		LastSeen:  time.Now(),
	}
	require.NoError(t, r.CreateUser(ctx, u))

	got, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, u.Avatar, got.Avatar)

	_, err = r.GetUserByID(ctx, uuid.New())
	assert.Equal(t, appErrors.ErrUserNotFound, err)
}

func Test_TouchLastSeen(t *testing.T) {
	cleanup(t)
	r := NewUserRepository(testDB, testLogger)
	ctx := context.Background()

	u := &models.User{
		ID:        uuid.New(),
		Username:  "bob",
		CreatedAt: time.Now().Add(-time.Hour),
		LastSeen:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NoError(t, r.TouchLastSeen(ctx, u.ID))

	got, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.LastSeen, time.Minute)
}

func Test_DeleteStale(t *testing.T) {
	cleanup(t)
	r := NewUserRepository(testDB, testLogger)
	ctx := context.Background()

	fresh := &models.User{ID: uuid.New(), Username: "fresh", CreatedAt: time.Now(), LastSeen: time.Now()}
	stale := &models.User{
		ID:        uuid.New(),
		Username:  "stale",
		CreatedAt: time.Now().Add(-60 * 24 * time.Hour),
		LastSeen:  time.Now().Add(-60 * 24 * time.Hour),
	}
	require.NoError(t, r.CreateUser(ctx, fresh))
	require.NoError(t, r.CreateUser(ctx, stale))

	n, err := r.DeleteStale(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = r.GetUserByID(ctx, stale.ID)
	assert.Equal(t, appErrors.ErrUserNotFound, err)
	_, err = r.GetUserByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
