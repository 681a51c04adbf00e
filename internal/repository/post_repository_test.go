package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestPostRepository_ListActive(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewPostRepository(gormDB)

	now := time.Now()
	newestID := uuid.New()
	olderID := uuid.New()
	ownerID := uuid.New()

	// The listing query must filter on expiry and sort newest first.
	mock.ExpectQuery("SELECT (.+) FROM `posts` WHERE expires_at > (.+) ORDER BY created_at DESC").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "contact_info", "created_at", "expires_at", "user_id"}).
			AddRow(newestID.String(), "Newest", "a@x", now.Add(-time.Hour), now.Add(time.Hour), ownerID.String()).
			AddRow(olderID.String(), "Older", "b@x", now.Add(-2*time.Hour), now.Add(time.Hour), ownerID.String()))

	// Items are preloaded in submission order.
	mock.ExpectQuery("SELECT (.+) FROM `items` WHERE (.+)`items`\\.`post_id`(.+) ORDER BY items\\.position").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "image", "position", "post_id"}).
			AddRow(uuid.New().String(), "Drawer", "5.00", "", 0, newestID.String()))

	posts, err := repo.ListActive(context.Background(), now)

	assert.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Newest", posts[0].Title)
	assert.Equal(t, "Older", posts[1].Title)
	require.Len(t, posts[0].Items, 1)
	assert.Equal(t, "Drawer", posts[0].Items[0].Name)
	assert.Empty(t, posts[1].Items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListActive_QueryError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewPostRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnError(gorm.ErrInvalidDB)

	posts, err := repo.ListActive(context.Background(), now)

	assert.Error(t, err)
	assert.Nil(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
