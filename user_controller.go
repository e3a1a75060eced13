package blog

import (
	"fmt"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// UserController handles the profile routes and the admin user
// management routes
type UserController struct {
	Users      Users
	ContextKey string
	Logger     Logger
}

func NewUserController(users Users, contextKey string) *UserController {
	return &UserController{
		Users:      users,
		ContextKey: contextKey,
		Logger:     defLogger{},
	}
}

func (c *UserController) WithLogger(l Logger) *UserController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterUserRoutes mounts profile routes behind the authentication
// gate and management routes behind the admin gate
func RegisterUserRoutes(group RouteRegistrar, ctrl *UserController, protected, adminOnly router.MiddlewareFunc) {
	group.Get("/profile", ctrl.Profile, protected)
	group.Put("/profile/update", ctrl.ProfileUpdate, protected)

	group.Get("/user/list", ctrl.ListUsers, adminOnly)
	group.Post("/user", ctrl.AddUser, adminOnly)
	group.Put("/user/:id", ctrl.UpdateUser, adminOnly)
	group.Delete("/user/:id", ctrl.DeleteUser, adminOnly)
}

// UserPayload is the profile/management update body. Empty fields are
// left untouched.
type UserPayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// Profile returns the caller's own record
func (c *UserController) Profile(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, c.ContextKey)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	user, err := c.Users.GetByID(ctx.Context(), claims.UserID())
	if err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "User not found"})
		}
		c.Logger.Error("Profile load error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to load profile"})
	}

	return ctx.JSON(router.StatusOK, NewPublicUser(user))
}

// ProfileUpdate lets the caller change their own name, email, and
// password. A new password is re-hashed; roles cannot be self-assigned.
func (c *UserController) ProfileUpdate(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, c.ContextKey)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	payload := UserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
	}

	record := &User{ID: id}
	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Email != "" {
		record.Email = NormalizeEmail(payload.Email)
	}
	if payload.Password != "" {
		hash, err := HashPassword(payload.Password)
		if err != nil {
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid password"})
		}
		record.PasswordHash = hash
	}

	user, err := c.Users.Update(ctx.Context(), record)
	if err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "User not found"})
		}
		c.Logger.Error("Profile update error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to update profile"})
	}

	return ctx.JSON(router.StatusOK, NewPublicUser(user))
}

// ListUsers returns every user. Admin gate enforced by the route.
func (c *UserController) ListUsers(ctx router.Context) error {
	users, err := c.Users.ListAll(ctx.Context())
	if err != nil {
		c.Logger.Error("User list error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to list users"})
	}

	records := make([]PublicUser, 0, len(users))
	for _, u := range users {
		records = append(records, NewPublicUser(u))
	}

	return ctx.JSON(router.StatusOK, records)
}

// AddUser creates a user directly, bypassing the bootstrap-admin rule.
// Only admins reach this handler.
func (c *UserController) AddUser(ctx router.Context) error {
	payload := UserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Name, email, and password are required"})
	}

	role := RoleUser
	if payload.Role != "" {
		parsed, ok := ParseRole(payload.Role)
		if !ok {
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid role"})
		}
		role = parsed
	}

	if _, err := c.Users.GetByEmail(ctx.Context(), payload.Email); err == nil {
		return ctx.JSON(router.StatusConflict, map[string]string{"message": "Email already exists"})
	} else if !IsNotFoundError(err) {
		c.Logger.Error("User add lookup error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to create user"})
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid password"})
	}

	user, err := c.Users.Create(ctx.Context(), &User{
		Name:         payload.Name,
		Email:        payload.Email,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		c.Logger.Error("User add error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to create user"})
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"message": "User created",
		"user":    NewPublicUser(user),
	})
}

// UpdateUser mutates any user, including its role. Only admins reach
// this handler.
func (c *UserController) UpdateUser(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusNotFound, map[string]string{"message": "User not found"})
	}

	payload := UserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	record := &User{ID: id}
	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Email != "" {
		record.Email = NormalizeEmail(payload.Email)
	}
	if payload.Role != "" {
		role, ok := ParseRole(payload.Role)
		if !ok {
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid role"})
		}
		record.Role = role
	}
	if payload.Password != "" {
		hash, err := HashPassword(payload.Password)
		if err != nil {
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid password"})
		}
		record.PasswordHash = hash
	}

	user, err := c.Users.Update(ctx.Context(), record)
	if err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "User not found"})
		}
		c.Logger.Error("User update error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to update user"})
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "User updated",
		"user":    NewPublicUser(user),
	})
}

// DeleteUser hard deletes a user. Orphaned post authorship is left
// intact. Only admins reach this handler.
func (c *UserController) DeleteUser(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(router.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if err := c.Users.DeleteByID(ctx.Context(), id); err != nil {
		if IsNotFoundError(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{"message": "User not found"})
		}
		c.Logger.Error("User delete error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to delete user"})
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": fmt.Sprintf("User %s deleted successfully", id),
	})
}
