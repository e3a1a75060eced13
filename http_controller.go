package blog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controllers.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// AuthController handles the register/login/refresh/logout session flow
type AuthController struct {
	Debug    bool
	Auther   Authenticator
	Registry AccountRegistrerer
	Config   Config
	Logger   Logger
}

// NewAuthController creates the controller with a default logger
func NewAuthController(auther Authenticator, registry AccountRegistrerer, cfg Config) *AuthController {
	return &AuthController{
		Auther:   auther,
		Registry: registry,
		Config:   cfg,
		Logger:   defLogger{},
	}
}

func (a *AuthController) WithLogger(l Logger) *AuthController {
	if l != nil {
		a.Logger = l
	}
	return a
}

// RegisterAuthRoutes mounts the session routes on the given group
func RegisterAuthRoutes(group RouteRegistrar, configure func(*AuthController) *AuthController) {
	ctrl := &AuthController{Logger: defLogger{}}
	if configure != nil {
		ctrl = configure(ctrl)
	}

	group.Post("/register", ctrl.Register)
	group.Post("/login", ctrl.Login)
	group.Post("/refresh", ctrl.Refresh)
	group.Post("/logout", ctrl.Logout)
}

// RegisterPayload is the registration request body
type RegisterPayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// Validate will run validation rules
func (p RegisterPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Name, validation.Required),
			validation.Field(&p.Email, validation.Required, is.Email),
			validation.Field(&p.Password, validation.Required),
		)
	}, "Invalid register request payload")
}

// LoginPayload is the login request body
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (p LoginPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(&p.Email, validation.Required, is.Email),
			validation.Field(&p.Password, validation.Required),
		)
	}, "Invalid login request payload")
}

// Register handles POST /auth/register. No token is minted here; the
// user logs in afterwards.
func (a *AuthController) Register(ctx router.Context) error {
	payload := RegisterPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	if err := payload.Validate(); err != nil {
		if a.Debug {
			a.Logger.Debug("register validation", "details", print.MaybePrettyJSON(err.ValidationMap()))
		}
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    err.Message,
			"validation": err.ValidationMap(),
		})
	}

	err := a.Registry.RegisterUser(ctx.Context(), RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})

	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryConflict {
			// The wire contract pins duplicates to a 400, distinguishable
			// from login failures on purpose.
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "User already exists"})
		}

		a.Logger.Error("Register error", "error", err)
		return ctx.JSON(StatusFromError(err), map[string]string{"message": "Unable to register user"})
	}

	return ctx.JSON(router.StatusCreated, map[string]string{
		"status":  "success",
		"message": "User registered successfully",
	})
}

// Login handles POST /auth/login. The refresh token travels only in the
// cookie; the body carries the access token and the public identity.
func (a *AuthController) Login(ctx router.Context) error {
	payload := LoginPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    err.Message,
			"validation": err.ValidationMap(),
		})
	}

	pair, identity, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			return ctx.JSON(router.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
		}

		a.Logger.Error("Login error", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{"message": "Unable to login"})
	}

	SetRefreshCookie(ctx, pair.RefreshToken, time.Until(pair.RefreshExpiresAt))

	return ctx.JSON(router.StatusOK, map[string]any{
		"status":      "success",
		"accessToken": pair.AccessToken,
		"user": map[string]any{
			"id":    identity.ID(),
			"name":  identity.Name(),
			"email": identity.Email(),
			"role":  identity.Role(),
		},
	})
}

// Refresh handles POST /auth/refresh: exchange the cookie's refresh
// token for a fresh access token. Any failure is a 401.
func (a *AuthController) Refresh(ctx router.Context) error {
	refreshToken := ctx.Cookies(RefreshCookieName)
	if refreshToken == "" {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "No token provided"})
	}

	accessToken, _, err := a.Auther.Refresh(ctx.Context(), refreshToken)
	if err != nil {
		if IsTokenExpiredError(err) {
			return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Token expired"})
		}
		return ctx.JSON(router.StatusUnauthorized, map[string]string{"message": "Invalid token"})
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"accessToken": accessToken,
	})
}

// Logout handles POST /auth/logout. With stateless tokens this only
// clears the cookie; an access token already in the wild stays valid
// until its TTL runs out.
func (a *AuthController) Logout(ctx router.Context) error {
	ClearRefreshCookie(ctx)
	return ctx.JSON(router.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logged out",
	})
}
