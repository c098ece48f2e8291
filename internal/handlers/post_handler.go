package handlers

import (
	"net/http"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/postfilter"
	"github.com/anonto42/postcraft/backend/internal/services"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	log   *logrus.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, log *logrus.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("", h.CreatePost)
	g.GET("", h.GetPosts) // optional keyword, category, platform and tag filters
	g.GET("/:id", h.GetPost)
	g.PUT("/:id", h.UpdatePost)
	g.DELETE("/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.log, models.NewValidationError("Invalid request payload"))
	}
	in := req.Normalize()
	if err := c.Validate(&in); err != nil {
		return fail(c, h.log, err)
	}

	post, err := h.posts.CreatePost(c.Request().Context(), userID, in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusCreated, "Post created successfully", echo.Map{"post": post})
}

// GetPosts lists the caller's posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	filter := postfilter.Filter{
		Keyword:  c.QueryParam("keyword"),
		Category: c.QueryParam("category"),
		Platform: c.QueryParam("platform"),
		Tag:      c.QueryParam("tag"),
	}
	posts, err := h.posts.ListPosts(c.Request().Context(), userID, filter)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Posts fetched successfully", echo.Map{"posts": posts})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	post, err := h.posts.GetPost(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Post fetched successfully", echo.Map{"post": post})
}

// UpdatePost applies a partial update to a post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.log, models.NewValidationError("Invalid request payload"))
	}
	patch := req.Normalize()
	if err := c.Validate(&patch); err != nil {
		return fail(c, h.log, err)
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), userID, c.Param("id"), patch)
	if err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Post updated successfully", echo.Map{"post": post})
}

// DeletePost deletes a post by ID
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.posts.DeletePost(c.Request().Context(), userID, c.Param("id")); err != nil {
		return fail(c, h.log, err)
	}
	return response.Success(c, http.StatusOK, "Post deleted successfully", nil)
}
