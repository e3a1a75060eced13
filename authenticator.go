package blog

import (
	"context"
	"reflect"
	"time"
)

type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetRefreshExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService replaces the token service, mostly for tests
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the credentials and mints an access/refresh pair
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, nil, ErrIdentityNotFound
	}

	pair, err := s.tokens.IssuePair(identity)
	if err != nil {
		s.logger.Error("Login token issuance error", "error", err)
		return nil, nil, err
	}

	return pair, identity, nil
}

// Refresh validates a refresh token and mints a new access token from
// its claims. No store lookup happens here: the claims are trusted as
// of the original login.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.Validate(refreshToken, TokenPurposeRefresh)
	if err != nil {
		s.logger.Error("Refresh token validation error", "error", err)
		return "", time.Time{}, err
	}

	return s.tokens.Issue(IdentityFromClaims(claims), TokenPurposeAccess)
}

var _ Authenticator = (*Auther)(nil)
