package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"sync"
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
	"ripple/internal/channel/model"
	"ripple/internal/database"
	userModels "ripple/internal/identity/model"
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

	if err := database.CreateSchema(ctx, testDB); err != nil {
		testDB.Close()
		log.Fatalf("failed to create schema: %v", err)
	}

	testLogger, _ = logger.NewLogger(&config.Config{})

	code := m.Run()

	testDB.Close()

	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Cleanup(func() {
		_, err := testDB.ExecContext(context.Background(),
			`TRUNCATE TABLE channels, channel_members, channel_messages, users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
	})
}

func seedUser(t *testing.T, name string) uuid.UUID {
	u := &userModels.User{
		ID:        uuid.New(),
		Username:  name,
		CreatedAt: time.Now(),
		LastSeen:  time.Now(),
	}
	_, err := testDB.NewInsert().Model(u).Exec(context.Background())
	require.NoError(t, err)
	return u.ID
}

func seedChannel(t *testing.T, r *ChannelRepository, creatorID uuid.UUID, code string) *model.Channel {
	now := time.Now()
	ch := &model.Channel{
		ID:         uuid.New(),
		Name:       "Test",
		Code:       code,
		CreatedAt:  now,
		LastActive: now,
	}
	require.NoError(t, r.Create(context.Background(), ch, creatorID))
	return ch
}

func Test_Create_CodeReservationIsAtomic(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	creator := seedUser(t, "creator")

	seedChannel(t, r, creator, "AAAAA1")

	dup := &model.Channel{
		ID:         uuid.New(),
		Name:       "Dup",
		Code:       "AAAAA1",
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
	}
	err := r.Create(context.Background(), dup, creator)
	assert.Equal(t, appErrors.ErrCodeTaken, err)
}

func Test_Create_ConcurrentSameCode(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	creator := seedUser(t, "creator")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch := &model.Channel{
				ID:         uuid.New(),
				Name:       "Race",
				Code:       "RACE01",
				CreatedAt:  time.Now(),
				LastActive: time.Now(),
			}
			errs[i] = r.Create(context.Background(), ch, creator)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, appErrors.ErrCodeTaken, err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one creation may take a code")
}

func Test_AddMember_IdempotentAndOrdered(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	second := seedUser(t, "second")
	ch := seedChannel(t, r, creator, "JOIN01")

	require.NoError(t, r.AddMember(ctx, ch.ID, second))
	// repeated join must not duplicate or reorder
	require.NoError(t, r.AddMember(ctx, ch.ID, creator))
	require.NoError(t, r.AddMember(ctx, ch.ID, second))

	got, err := r.GetByID(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	assert.Equal(t, creator, got.Members[0].UserID)
	assert.Equal(t, second, got.Members[1].UserID)
	assert.False(t, got.LastActive.Before(ch.LastActive), "join must refresh last_active")
}

func Test_AddMember_UnknownChannel(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	user := seedUser(t, "drifter")

	err := r.AddMember(context.Background(), uuid.New(), user)
	assert.Equal(t, appErrors.ErrChannelNotFound, err)
}

func Test_AppendMessage_PreservesOrder(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	ch := seedChannel(t, r, creator, "MSGS01")

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		msg := &model.ChannelMessage{
			ChannelID: ch.ID,
			SenderID:  creator,
			Content:   c,
			Kind:      model.KindText,
		}
		require.NoError(t, r.AppendMessage(ctx, msg))
		assert.NotEqual(t, uuid.Nil, msg.ID, "append assigns the id")
	}

	got, err := r.GetByID(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	for i, msg := range got.Messages {
		assert.Equal(t, contents[i], msg.Content)
		if i > 0 {
			assert.False(t, msg.SentAt.Before(got.Messages[i-1].SentAt),
				"timestamps must be non-decreasing in append order")
		}
	}
	assert.Equal(t, got.LastActive.UTC().Truncate(time.Millisecond),
		got.Messages[2].SentAt.UTC().Truncate(time.Millisecond),
		"last_active follows the newest message")
}

func Test_GetByCode(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	ch := seedChannel(t, r, creator, "CODE01")

	got, err := r.GetByCode(ctx, "CODE01")
	require.NoError(t, err)
	assert.Equal(t, ch.ID, got.ID)

	_, err = r.GetByCode(ctx, "NOPE00")
	assert.Equal(t, appErrors.ErrInvalidChannelCode, err)
}

func Test_MarkMessageViewed_OneWay(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	ch := seedChannel(t, r, creator, "VIEW01")

	img := &model.ChannelMessage{
		ChannelID:   ch.ID,
		SenderID:    creator,
		Content:     "data:image/png;base64,xyz",
		Kind:        model.KindImage,
		OneTimeView: true,
	}
	require.NoError(t, r.AppendMessage(ctx, img))
	plain := &model.ChannelMessage{
		ChannelID: ch.ID,
		SenderID:  creator,
		Content:   "hello",
		Kind:      model.KindText,
	}
	require.NoError(t, r.AppendMessage(ctx, plain))

	require.NoError(t, r.MarkMessageViewed(ctx, ch.ID, img.ID))
	// second view and non-one-time messages are no-ops
	require.NoError(t, r.MarkMessageViewed(ctx, ch.ID, img.ID))
	require.NoError(t, r.MarkMessageViewed(ctx, ch.ID, plain.ID))

	got, err := r.GetByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.True(t, got.Messages[0].Viewed)
	assert.False(t, got.Messages[1].Viewed)

	err = r.MarkMessageViewed(ctx, ch.ID, uuid.New())
	assert.Equal(t, appErrors.ErrMessageNotFound, err)
}

func setLastActive(t *testing.T, id uuid.UUID, at time.Time) {
	_, err := testDB.NewUpdate().
		Model((*model.Channel)(nil)).
		Set("last_active = ?", at).
		Where("id = ?", id).
		Exec(context.Background())
	require.NoError(t, err)
}

func removeMembers(t *testing.T, id uuid.UUID) {
	_, err := testDB.NewDelete().
		Model((*model.ChannelMember)(nil)).
		Where("channel_id = ?", id).
		Exec(context.Background())
	require.NoError(t, err)
}

func Test_Reap_EligibilityRules(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	cutoff := time.Now().Add(-5 * time.Hour)

	// idle and empty: reapable
	idle := seedChannel(t, r, creator, "IDLE01")
	setLastActive(t, idle.ID, cutoff.Add(-time.Minute))
	removeMembers(t, idle.ID)

	// idle but still populated: never reapable
	populated := seedChannel(t, r, creator, "BUSY01")
	setLastActive(t, populated.ID, cutoff.Add(-time.Hour))

	// empty but exactly at the cutoff: not yet eligible
	boundary := seedChannel(t, r, creator, "EDGE01")
	setLastActive(t, boundary.ID, cutoff)
	removeMembers(t, boundary.ID)

	ids, err := r.ListReapable(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{idle.ID}, ids)

	deleted, err := r.DeleteIfReapable(ctx, idle.ID, cutoff)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = r.GetByID(ctx, idle.ID)
	assert.Equal(t, appErrors.ErrChannelNotFound, err)

	deleted, err = r.DeleteIfReapable(ctx, populated.ID, cutoff)
	require.NoError(t, err)
	assert.False(t, deleted, "a channel with members is never reaped")

	deleted, err = r.DeleteIfReapable(ctx, boundary.ID, cutoff)
	require.NoError(t, err)
	assert.False(t, deleted, "exactly-at-threshold is not yet eligible")
}

func Test_Reap_JoinWinsOverListedCandidate(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	joiner := seedUser(t, "joiner")
	cutoff := time.Now().Add(-5 * time.Hour)

	ch := seedChannel(t, r, creator, "RES001")
	setLastActive(t, ch.ID, cutoff.Add(-time.Minute))
	removeMembers(t, ch.ID)

	ids, err := r.ListReapable(ctx, cutoff)
	require.NoError(t, err)
	require.Contains(t, ids, ch.ID)

	// a join lands between listing and deleting
	require.NoError(t, r.AddMember(ctx, ch.ID, joiner))

	deleted, err := r.DeleteIfReapable(ctx, ch.ID, cutoff)
	require.NoError(t, err)
	assert.False(t, deleted, "the conditional delete must observe the join")

	got, err := r.GetByID(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, joiner, got.Members[0].UserID)
}

func Test_RoundTrip(t *testing.T) {
	cleanup(t)
	r := NewChannelRepository(testDB, testLogger)
	ctx := context.Background()

	creator := seedUser(t, "creator")
	friend := seedUser(t, "friend")

	ch := seedChannel(t, r, creator, "TRIP01")
	require.NoError(t, r.AddMember(ctx, ch.ID, friend))

	for _, c := range []string{"one", "two", "three"} {
		require.NoError(t, r.AppendMessage(ctx, &model.ChannelMessage{
			ChannelID: ch.ID,
			SenderID:  creator,
			Content:   c,
			Kind:      model.KindText,
		}))
	}

	got, err := r.GetByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Name)
	require.Len(t, got.Members, 2)
	assert.Equal(t, creator, got.Members[0].UserID)
	assert.Equal(t, friend, got.Members[1].UserID)
	require.NotNil(t, got.Members[0].User)
	assert.Equal(t, "creator", got.Members[0].User.Username)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, []string{"one", "two", "three"},
		[]string{got.Messages[0].Content, got.Messages[1].Content, got.Messages[2].Content})
}
