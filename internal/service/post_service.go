package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"souq/internal/cache"
	domainerrors "souq/internal/errors"
	"souq/internal/model"
	"souq/internal/repository"
)

const postCacheTTL = 5 * time.Minute

// CreatePostInput carries everything needed to publish a listing,
// credentials included.
type CreatePostInput struct {
	Title       string
	Price       *decimal.Decimal
	ContactInfo string
	Items       []ItemInput
	Username    string
	Password    string
}

// ItemInput is one line item supplied at post creation.
type ItemInput struct {
	Name  string
	Price decimal.Decimal
	Image string
}

// PostService orchestrates the post lifecycle.
type PostService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, title string, price *decimal.Decimal, contactInfo string) (*model.Post, error)
	AuthenticateForPost(ctx context.Context, id uuid.UUID, username, password string) error
	ExtendPost(ctx context.Context, id uuid.UUID, username, password string) (*model.Post, error)
	ListActivePosts(ctx context.Context) ([]model.Post, error)
}

type postService struct {
	postRepo    repository.PostRepository
	credentials CredentialService
	cache       *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, credentials CredentialService, cache *cache.Client) PostService {
	return &postService{
		postRepo:    postRepo,
		credentials: credentials,
		cache:       cache,
	}
}

func (s *postService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id.String())
}

// CreatePost resolves the submitting user (registering a new account when
// the username is unseen), then persists the post and its items together
// with a 7-day expiry.
func (s *postService) CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	user, err := s.credentials.ResolveOrCreate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &model.Post{
		Title:       in.Title,
		Price:       in.Price,
		ContactInfo: in.ContactInfo,
		ExpiresAt:   now.Add(model.ExpiryWindow),
		UserID:      user.ID,
		Items:       make([]model.Item, 0, len(in.Items)),
	}
	for i, item := range in.Items {
		post.Items = append(post.Items, model.Item{
			Name:     item.Name,
			Price:    item.Price,
			Image:    item.Image,
			Position: i,
		})
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// GetPost retrieves a post by ID with caching. Expired posts are returned
// too; only listings filter on expiry, so owners can still reach the edit
// and extend flow for a lapsed post.
func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var cached model.Post
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), post, postCacheTTL)

	return post, nil
}

// UpdatePost overwrites title and contact info, and price when one is
// supplied; an omitted price leaves the stored value untouched. It performs
// no credential check: the client is expected to have called
// AuthenticateForPost first, and nothing binds the two calls together.
// That matches the deployed two-step edit protocol.
func (s *postService) UpdatePost(ctx context.Context, id uuid.UUID, title string, price *decimal.Decimal, contactInfo string) (*model.Post, error) {
	fields := map[string]interface{}{
		"title":        title,
		"contact_info": contactInfo,
	}
	if price != nil {
		fields["price"] = price
	}
	post, err := s.postRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return post, nil
}

// AuthenticateForPost verifies that the supplied credentials belong to the
// post's owner. On success it returns nil and nothing else: no token, no
// session. The caller is trusted to initiate the follow-up edit.
func (s *postService) AuthenticateForPost(ctx context.Context, id uuid.UUID, username, password string) error {
	_, err := s.authorizeOwner(ctx, id, username, password)
	return err
}

// ExtendPost re-verifies the owner's credentials and resets the expiry to
// seven days from now. Unlike update, extend authenticates on every call.
func (s *postService) ExtendPost(ctx context.Context, id uuid.UUID, username, password string) (*model.Post, error) {
	if _, err := s.authorizeOwner(ctx, id, username, password); err != nil {
		return nil, err
	}

	post, err := s.postRepo.UpdateExpiry(ctx, id, time.Now().Add(model.ExpiryWindow))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("extend post: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return post, nil
}

// ListActivePosts returns all non-expired posts, newest first.
func (s *postService) ListActivePosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postRepo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// authorizeOwner fetches the post with its owner and checks the supplied
// credentials against the owning user.
func (s *postService) authorizeOwner(ctx context.Context, id uuid.UUID, username, password string) (*model.Post, error) {
	post, err := s.postRepo.FindByIDWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	if post.User == nil || post.User.Username != username {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !s.credentials.Match(post.User, password) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return post, nil
}
