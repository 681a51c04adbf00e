package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"souq/internal/errors"
	"souq/internal/model"
	"souq/internal/service"
)

// PostHandler handles listing endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ItemRequest is one line item in a create request.
type ItemRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// CreatePostRequest is the payload for publishing a listing. Credentials
// ride along with the post; a new username registers an account implicitly.
type CreatePostRequest struct {
	Title       string           `json:"title" validate:"required"`
	Price       *decimal.Decimal `json:"price"`
	ContactInfo string           `json:"contactInfo" validate:"required"`
	Items       []ItemRequest    `json:"items" validate:"dive"`
	Username    string           `json:"username" validate:"required"`
	Password    string           `json:"password" validate:"required"`
}

// UpdatePostRequest is the payload for editing a listing.
type UpdatePostRequest struct {
	Title       string           `json:"title" validate:"required"`
	Price       *decimal.Decimal `json:"price"`
	ContactInfo string           `json:"contactInfo" validate:"required"`
}

// CredentialsRequest carries a username/password pair for owner-gated calls.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is a bare success signal.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatePost godoc
// @Summary Publish a listing
// @Description Creates a post with optional line items. A never-seen username registers a new account with the supplied password; an existing username must present its password.
// @Tags posts
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post payload"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	in := service.CreatePostInput{
		Title:       req.Title,
		Price:       req.Price,
		ContactInfo: req.ContactInfo,
		Username:    req.Username,
		Password:    req.Password,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.ItemInput{
			Name:  item.Name,
			Price: item.Price,
			Image: item.Image,
		})
	}

	post, err := h.postService.CreatePost(c.Request().Context(), in)
	if err != nil {
		c.Logger().Errorf("create post: %v", err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary List active posts
// @Description Returns all posts whose expiry is in the future, newest first.
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.ListActivePosts(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list posts: %v", err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("get post %s: %v", id, err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Edit a post
// @Description Overwrites title and contact info, and price when one is supplied. The endpoint itself performs no credential check; clients reach it only after a successful call to the auth endpoint. Every failure maps to 500.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body UpdatePostRequest true "Updated fields"
// @Success 200 {object} model.Post
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	// The deployed edit flow reports every failure, bad ids and missing
	// posts included, as a generic 500.
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return updateFailure(c, err)
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return updateFailure(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return updateFailure(c, err)
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), id, req.Title, req.Price, req.ContactInfo)
	if err != nil {
		return updateFailure(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

// AuthenticatePost godoc
// @Summary Verify ownership of a post
// @Description Checks the supplied credentials against the post's owner. Returns a bare success message, no token or session.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param credentials body CredentialsRequest true "Owner credentials"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/auth [post]
func (h *PostHandler) AuthenticatePost(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	if err := h.postService.AuthenticateForPost(c.Request().Context(), id, req.Username, req.Password); err != nil {
		c.Logger().Errorf("authenticate post %s: %v", id, err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Authentication successful"})
}

// ExtendPost godoc
// @Summary Extend a post's expiry
// @Description Re-verifies the owner's credentials, then resets the expiry to seven days from now.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param credentials body CredentialsRequest true "Owner credentials"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/extend [post]
func (h *PostHandler) ExtendPost(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	}

	post, err := h.postService.ExtendPost(c.Request().Context(), id, req.Username, req.Password)
	if err != nil {
		c.Logger().Errorf("extend post %s: %v", id, err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, post)
}

func parsePostID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid post ID",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

func updateFailure(c echo.Context, err error) error {
	c.Logger().Errorf("update post: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
		Error: "Error updating post",
		Code:  "INTERNAL_ERROR",
	})
}
