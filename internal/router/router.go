package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"souq/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, postHandler *handler.PostHandler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// All routes are public. Owner-gated operations carry credentials in
	// the request body; there is no session layer.
	api.POST("/posts", postHandler.CreatePost)
	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/:id", postHandler.GetPost)
	api.PUT("/posts/:id", postHandler.UpdatePost)
	api.POST("/posts/:id/auth", postHandler.AuthenticatePost)
	api.POST("/posts/:id/extend", postHandler.ExtendPost)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
