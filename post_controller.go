package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// PostController handles blog post routes. Every route sits behind the
// authentication gate; update and delete additionally run the ownership
// predicate.
type PostController struct {
	Posts      Posts
	ContextKey string
	Logger     Logger
}

func NewPostController(posts Posts, contextKey string) *PostController {
	return &PostController{
		Posts:      posts,
		ContextKey: contextKey,
		Logger:     defLogger{},
	}
}

func (c *PostController) WithLogger(l Logger) *PostController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterPostRoutes mounts the post routes on the given group. The
// caller supplies the authentication middleware.
func RegisterPostRoutes(group RouteRegistrar, ctrl *PostController, protected router.MiddlewareFunc) {
	group.Post("/post/create", ctrl.Create, protected)
	group.Get("/post/list", ctrl.List, protected)
	group.Get("/post/list/:id", ctrl.List, protected)
	group.Get("/post/:id", ctrl.Show, protected)
	group.Put("/post/update/:id", ctrl.Update, protected)
	group.Delete("/post/delete/:id", ctrl.Delete, protected)
}

// PostPayload is the create/update request body
type PostPayload struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

// Validate will run validation rules
func (p PostPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Title, validation.Required),
			validation.Field(&p.Content, validation.Required),
		)
	}, "Invalid post payload")
}

// Create sets the author from the verified caller, never from the body
func (c *PostController) Create(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, c.ContextKey)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	payload := PostPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    err.Message,
			"validation": err.ValidationMap(),
		})
	}

	authorID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	post := &Post{
		Title:    payload.Title,
		Content:  payload.Content,
		AuthorID: authorID,
	}

	post, err = c.Posts.Create(ctx.Context(), post)
	if err != nil {
		c.Logger.Error("Post create error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to create post"})
	}

	return ctx.JSON(router.StatusCreated, post)
}

// List returns all posts, or the posts of the author named in the
// optional path parameter
func (c *PostController) List(ctx router.Context) error {
	var records []*Post
	var err error

	if id := ctx.Param("id"); id != "" {
		authorID, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid author id"})
		}
		records, err = c.Posts.ListByAuthor(ctx.Context(), authorID)
	} else {
		records, err = c.Posts.ListAll(ctx.Context())
	}

	if err != nil {
		c.Logger.Error("Post list error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to list posts"})
	}

	return ctx.JSON(router.StatusOK, records)
}

// Show returns a single post with its author
func (c *PostController) Show(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusNotFound, map[string]string{"message": "Post not found"})
	}

	post, err := c.Posts.GetWithAuthor(ctx.Context(), id)
	if err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "Post not found"})
		}
		c.Logger.Error("Post show error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to load post"})
	}

	return ctx.JSON(router.StatusOK, post)
}

// Update mutates title/content after the ownership check. Absence is
// reported before authorization so a 404 never turns into a 403.
func (c *PostController) Update(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, c.ContextKey)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusNotFound, map[string]string{"message": "Post not found"})
	}

	post, err := c.Posts.GetWithAuthor(ctx.Context(), id)
	if err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "Post not found"})
		}
		c.Logger.Error("Post update load error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to load post"})
	}

	if !IsOwnerOrAdmin(claims, post.AuthorID) {
		return ctx.JSON(router.StatusForbidden, map[string]string{"message": "Not authorized"})
	}

	payload := PostPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	if payload.Title != "" {
		post.Title = payload.Title
	}
	if payload.Content != "" {
		post.Content = payload.Content
	}

	post, err = c.Posts.Update(ctx.Context(), post)
	if err != nil {
		c.Logger.Error("Post update error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to update post"})
	}

	return ctx.JSON(router.StatusOK, post)
}

// Delete removes a post after the ownership check
func (c *PostController) Delete(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, c.ContextKey)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusNotFound, map[string]string{"message": "Post not found"})
	}

	post, err := c.Posts.GetWithAuthor(ctx.Context(), id)
	if err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "Post not found"})
		}
		c.Logger.Error("Post delete load error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to load post"})
	}

	if !IsOwnerOrAdmin(claims, post.AuthorID) {
		return ctx.JSON(router.StatusForbidden, map[string]string{"message": "Not authorized"})
	}

	if err := c.Posts.DeleteByID(ctx.Context(), id); err != nil {
		c.Logger.Error("Post delete error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to delete post"})
	}

	return ctx.JSON(router.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
