package blog

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-blog/middleware/jwtware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RefreshCookieName is the cookie carrying the refresh token. It never
// appears in a response body.
const RefreshCookieName = "refreshToken"

// RouteGuard builds the authentication and role gates for protected routes
type RouteGuard struct {
	cfg    Config
	tokens TokenService
	Logger Logger
}

func NewRouteGuard(tokens TokenService, cfg Config) *RouteGuard {
	return &RouteGuard{
		cfg:    cfg,
		tokens: tokens,
		Logger: defLogger{},
	}
}

func (g *RouteGuard) WithLogger(l Logger) *RouteGuard {
	if l != nil {
		g.Logger = l
	}
	return g
}

// Protected authenticates the request: extract the bearer token,
// validate it as an access token, and park the claims in the context.
func (g *RouteGuard) Protected() router.MiddlewareFunc {
	return g.gate("")
}

// AdminOnly authenticates and additionally requires the admin role
func (g *RouteGuard) AdminOnly() router.MiddlewareFunc {
	return g.gate(string(RoleAdmin))
}

func (g *RouteGuard) gate(requiredRole string) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		ErrorHandler: g.AuthErrorHandler,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(g.cfg.GetSigningKey()),
			JWTAlg: g.cfg.GetSigningMethod(),
		},
		AuthScheme:     g.cfg.GetAuthScheme(),
		ContextKey:     g.cfg.GetContextKey(),
		TokenLookup:    g.cfg.GetTokenLookup(),
		TokenValidator: jwtValidatorAdapter{validator: g.tokens.AccessValidator()},
		RequiredRole:   requiredRole,
		ContextEnricher: func(c context.Context, claims jwtware.AuthClaims) context.Context {
			if authClaims, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(c, authClaims)
			}
			return c
		},
	})
}

// AuthErrorHandler maps gate failures onto the wire contract: every
// authentication failure is a 401 with a subkind specific message, a
// role failure is a 403. Internals never leak outward.
func (g *RouteGuard) AuthErrorHandler(c router.Context, err error) error {
	if errors.Is(err, jwtware.ErrRoleRequired) {
		return c.JSON(router.StatusForbidden, map[string]string{"message": "Forbidden: Access denied"})
	}

	if errors.Is(err, jwtware.ErrJWTMissing) {
		return c.JSON(router.StatusUnauthorized, map[string]string{"message": "No token provided"})
	}

	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return c.JSON(router.StatusUnauthorized, map[string]string{"message": "Malformed token"})
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		g.Logger.Debug(
			"auth gate rejected token",
			"text_code", richErr.TextCode,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)

		switch richErr.TextCode {
		case TextCodeTokenExpired:
			return c.JSON(router.StatusUnauthorized, map[string]string{"message": "Token expired"})
		case TextCodeTokenNotYetValid:
			return c.JSON(router.StatusUnauthorized, map[string]string{"message": "Token not active"})
		case TextCodeTokenSignature, TextCodeTokenPurpose:
			return c.JSON(router.StatusUnauthorized, map[string]string{"message": "Invalid token"})
		case TextCodeTokenMalformed:
			return c.JSON(router.StatusUnauthorized, map[string]string{"message": "Malformed token"})
		}
	}

	g.Logger.Warn("auth gate unexpected error", "error", err)
	return c.JSON(router.StatusUnauthorized, map[string]string{"message": "Authentication failed"})
}

// jwtValidatorAdapter bridges the package's TokenValidator to the
// middleware's mirrored interface
type jwtValidatorAdapter struct {
	validator TokenValidator
}

func (a jwtValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// SetRefreshCookie parks the refresh token in an HttpOnly strict cookie
func SetRefreshCookie(c router.Context, token string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

// ClearRefreshCookie expires the refresh cookie
func ClearRefreshCookie(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

// StatusFromError maps a rich error to an HTTP status code
func StatusFromError(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	if richErr.Code != 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
