package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/linkup/internal/db"
)

// setupDB spins up an isolated in-memory SQLite DB with the full schema.
// TranslateError stays on, same as production, so unique-constraint hits
// surface as gorm.ErrDuplicatedKey.
func setupDB(t *testing.T) *gorm.DB {
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
	return gdb
}

// seedUsers inserts n bare users and returns their ids.
func seedUsers(t *testing.T, gdb *gorm.DB, n int) []uint64 {
	t.Helper()

	ids := make([]uint64, 0, n)
	for i := 1; i <= n; i++ {
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
	return ids
}
