package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"souq/internal/model"
)

// PostRepository defines listing persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindByIDWithOwner(ctx context.Context, id uuid.UUID) (*model.Post, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Post, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) (*model.Post, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// orderedItems preloads items in the order they were submitted.
func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("items.position ASC")
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create persists a post together with its items. GORM runs the insert and
// the association inserts in one transaction, so a post never appears
// without its items.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindByID finds a post by ID, items included. Expired posts are still
// returned; expiry only filters listings.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).
		Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByIDWithOwner finds a post by ID with its owning user loaded, for
// credential checks.
func (r *postRepository) FindByIDWithOwner(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).Preload("User").
		Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateFields applies a partial update of the supplied columns and returns
// the refreshed post.
func (r *postRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&post).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// UpdateExpiry sets expires_at unconditionally and returns the refreshed post.
func (r *postRepository) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) (*model.Post, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{"expires_at": expiresAt})
}

// ListActive returns all posts whose expiry is strictly in the future,
// newest first, items included.
func (r *postRepository) ListActive(ctx context.Context, now time.Time) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).
		Where("expires_at > ?", now).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
