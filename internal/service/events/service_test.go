package events_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/cache"
	"github.com/oggyb/linkup/internal/config"
	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/service/events"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

func ptr[T any](v T) *T { return &v }

// setupService wires an events Service over an isolated in-memory DB with
// two users seeded: the creator and a second participant.
func setupService(t *testing.T) (*events.Service, *gorm.DB, []uint64) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	var ids []uint64
	for i := 1; i <= 2; i++ {
		user := db.User{
			ExternalUID:           fmt.Sprintf("uid-%d", i),
			Email:                 fmt.Sprintf("u%d@test.com", i),
			PasswordHash:          "x",
			DisplayName:           fmt.Sprintf("user%d", i),
			IsProfileVisible:      true,
			IsOnboardingCompleted: true,
		}
		require.NoError(t, gdb.Create(&user).Error)
		ids = append(ids, user.ID)
	}

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(gdb, redisCache, logger)
	return events.NewService(appCtx), gdb, ids
}

func baseInput(title string, lat, lon float64) events.Input {
	return events.Input{
		Title:     title,
		Category:  "music",
		Latitude:  &lat,
		Longitude: &lon,
		DateTime:  time.Now().Add(48 * time.Hour),
	}
}

func TestCreateApprovesImmediately(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	view, err := svc.Create(ctx, ids[0], baseInput("Jazz night", 55.75, 37.61))
	require.NoError(t, err)
	assert.Equal(t, string(db.EventApproved), view.Status)
	assert.NotZero(t, view.ID)
	require.NotNil(t, view.CreatedBy)
	assert.Equal(t, ids[0], view.CreatedBy.ID)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	_, err := svc.Create(ctx, ids[0], events.Input{DateTime: time.Now()})
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindValidation))

	bad := baseInput("Bad coords", 95, 10)
	_, err = svc.Create(ctx, ids[0], bad)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindValidation))

	half := baseInput("Half coords", 55.75, 37.61)
	half.Longitude = nil
	_, err = svc.Create(ctx, ids[0], half)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindValidation))
}

// Two points in central Moscow roughly 1.2km apart: the event is inside a
// 5km search radius and outside a 100m one.
func TestNearbyRadiusScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	_, err := svc.Create(ctx, ids[0], baseInput("Nearby gig", 55.76, 37.62))
	require.NoError(t, err)

	found, pg, err := svc.Nearby(ctx, 55.75, 37.61, 5000, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), pg.Total)
	require.NotNil(t, found[0].DistanceMeters)
	assert.Greater(t, *found[0].DistanceMeters, 100.0)
	assert.Less(t, *found[0].DistanceMeters, 5000.0)

	found, pg, err = svc.Nearby(ctx, 55.75, 37.61, 100, "", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, int64(0), pg.Total)
}

func TestNearbySortsByDistance(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	_, err := svc.Create(ctx, ids[0], baseInput("Farther", 55.78, 37.65))
	require.NoError(t, err)
	_, err = svc.Create(ctx, ids[0], baseInput("Closer", 55.751, 37.611))
	require.NoError(t, err)

	found, _, err := svc.Nearby(ctx, 55.75, 37.61, 50000, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Closer", found[0].Title)
	assert.Equal(t, "Farther", found[1].Title)
	assert.LessOrEqual(t, *found[0].DistanceMeters, *found[1].DistanceMeters)
}

func TestNearbyFiltersCategoryStatusAndOnline(t *testing.T) {
	ctx := context.Background()
	svc, gdb, ids := setupService(t)

	_, err := svc.Create(ctx, ids[0], baseInput("Concert", 55.751, 37.611))
	require.NoError(t, err)

	sports := baseInput("Marathon", 55.752, 37.612)
	sports.Category = "sports"
	_, err = svc.Create(ctx, ids[0], sports)
	require.NoError(t, err)

	online := baseInput("Webinar", 55.753, 37.613)
	online.IsOnline = true
	_, err = svc.Create(ctx, ids[0], online)
	require.NoError(t, err)

	rejected, err := svc.Create(ctx, ids[0], baseInput("Flagged", 55.754, 37.614))
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&db.Event{}).Where("id = ?", rejected.ID).
		Update("status", db.EventRejected).Error)

	found, _, err := svc.Nearby(ctx, 55.75, 37.61, 50000, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, found, 2)

	found, _, err = svc.Nearby(ctx, 55.75, 37.61, 50000, "sports", 1, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Marathon", found[0].Title)
}

func TestNearbyInvalidCoords(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, _, err := svc.Nearby(ctx, 120, 37.61, 5000, "", 1, 20)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindValidation))
}

func TestNearbyPagination(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, ids[0], baseInput(
			fmt.Sprintf("Event %d", i),
			55.75+float64(i)*0.001,
			37.61,
		))
		require.NoError(t, err)
	}

	first, pg, err := svc.Nearby(ctx, 55.75, 37.61, 50000, "", 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(5), pg.Total)
	assert.Equal(t, 3, pg.TotalPages)

	third, pg, err := svc.Nearby(ctx, 55.75, 37.61, 50000, "", 3, 2)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, 3, pg.Page)
}

func TestUpdateAndDeleteOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	view, err := svc.Create(ctx, ids[0], baseInput("Owned", 55.75, 37.61))
	require.NoError(t, err)

	_, err = svc.Update(ctx, ids[1], view.ID, events.Patch{Title: ptr("Hijacked")})
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindForbidden))

	updated, err := svc.Update(ctx, ids[0], view.ID, events.Patch{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	err = svc.Delete(ctx, ids[1], view.ID)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindForbidden))

	require.NoError(t, svc.Delete(ctx, ids[0], view.ID))

	_, err = svc.GetByID(ctx, view.ID, ids[0])
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindNotFound))
}

func TestJoinAndLeave(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	view, err := svc.Create(ctx, ids[0], baseInput("Meetup", 55.75, 37.61))
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, ids[1], view.ID, db.ParticipantGoing))

	detail, err := svc.GetByID(ctx, view.ID, ids[1])
	require.NoError(t, err)
	assert.True(t, detail.IsJoined)
	assert.Equal(t, string(db.ParticipantGoing), detail.JoinStatus)
	assert.Equal(t, int64(1), detail.ParticipantCount)

	// Re-joining with a different status updates in place.
	require.NoError(t, svc.Join(ctx, ids[1], view.ID, db.ParticipantInterested))
	detail, err = svc.GetByID(ctx, view.ID, ids[1])
	require.NoError(t, err)
	assert.Equal(t, string(db.ParticipantInterested), detail.JoinStatus)
	assert.Equal(t, int64(1), detail.ParticipantCount)

	require.NoError(t, svc.Leave(ctx, ids[1], view.ID))

	err = svc.Leave(ctx, ids[1], view.ID)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindNotFound))
}

func TestJoinRejectsUnapprovedAndFull(t *testing.T) {
	ctx := context.Background()
	svc, gdb, ids := setupService(t)

	input := baseInput("Tiny", 55.75, 37.61)
	input.MaxParticipants = ptr(1)
	view, err := svc.Create(ctx, ids[0], input)
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, ids[0], view.ID, db.ParticipantGoing))

	err = svc.Join(ctx, ids[1], view.ID, db.ParticipantGoing)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindConflict))

	// Someone already in can still change their status when full.
	require.NoError(t, svc.Join(ctx, ids[0], view.ID, db.ParticipantInterested))

	require.NoError(t, gdb.Model(&db.Event{}).Where("id = ?", view.ID).
		Update("status", db.EventPending).Error)
	err = svc.Join(ctx, ids[1], view.ID, db.ParticipantGoing)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindValidation))

	err = svc.Join(ctx, ids[1], 9999, db.ParticipantGoing)
	require.Error(t, err)
	assert.True(t, svcErr.IsKind(err, svcErr.KindNotFound))
}

func TestListByUserAndParticipants(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ids[0], baseInput(fmt.Sprintf("Mine %d", i), 55.75, 37.61))
		require.NoError(t, err)
	}

	mine, pg, err := svc.ListByUser(ctx, ids[0], 1, 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(3), pg.Total)
	assert.Equal(t, 2, pg.TotalPages)

	none, pg, err := svc.ListByUser(ctx, ids[1], 1, 20)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, int64(0), pg.Total)

	view, err := svc.Create(ctx, ids[0], baseInput("Party", 55.75, 37.61))
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, ids[0], view.ID, db.ParticipantGoing))
	require.NoError(t, svc.Join(ctx, ids[1], view.ID, db.ParticipantInterested))

	participants, pg, err := svc.Participants(ctx, view.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, int64(2), pg.Total)
	assert.Equal(t, ids[0], participants[0].User.ID)
}
