// File: internal/notification/repository_test.go
package notification

import (
	"context"
	"fmt"
	"testing"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedNotification(t *testing.T, repo Repository, userID uuid.UUID) *Notification {
	t.Helper()
	n := &Notification{
		UserID:  userID,
		Type:    MessageReceived,
		Message: "You have received a new message.",
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestMarkAsRead_ScopedToOwner(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	ownerID := uuid.New()
	n := seedNotification(t, repo, ownerID)

	// Someone else's ID does not reach the row.
	err := repo.MarkAsRead(ctx, n.ID, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.MarkAsRead(ctx, n.ID, ownerID))

	got, err := repo.FindByID(ctx, n.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
}

func TestMarkAllAsRead_CountsOnlyUnread(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	userID := uuid.New()
	seedNotification(t, repo, userID)
	already := seedNotification(t, repo, userID)
	require.NoError(t, repo.MarkAsRead(ctx, already.ID, userID))
	seedNotification(t, repo, uuid.New())

	count, err := repo.MarkAllAsRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetByUserID_OnlyOwnAndPaginated(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		seedNotification(t, repo, userID)
	}
	seedNotification(t, repo, uuid.New())

	notifications, pagination, err := repo.GetByUserID(ctx, userID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	require.NotNil(t, pagination)
	assert.Equal(t, int64(3), pagination.TotalItems)
}
