package blog

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService issues and validates signed JWTs
type TokenService interface {
	Issue(identity Identity, purpose TokenPurpose) (string, time.Time, error)
	IssuePair(identity Identity) (*TokenPair, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string, purpose TokenPurpose) (AuthClaims, error)
	AccessValidator() TokenValidator
	RefreshValidator() TokenValidator
}

// TokenPair is the result of a single login event
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey        []byte
	accessExpiration  int
	refreshExpiration int
	issuer            string
	audience          jwt.ClaimStrings
	logger            Logger
}

// NewTokenService creates a new TokenService instance. Expirations are
// in hours; access and refresh lifetimes are independent.
func NewTokenService(signingKey []byte, accessExpiration, refreshExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:        signingKey,
		accessExpiration:  accessExpiration,
		refreshExpiration: refreshExpiration,
		issuer:            issuer,
		audience:          audience,
		logger:            logger,
	}
}

// Issue creates a signed JWT for the identity with the given purpose
func (ts *TokenServiceImpl) Issue(identity Identity, purpose TokenPurpose) (string, time.Time, error) {
	if !purpose.IsValid() {
		return "", time.Time{}, errors.New("unknown token purpose", errors.CategoryInternal)
	}

	now := time.Now()
	expiresAt := now.Add(ts.ttl(purpose))

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  ts.claimAudience(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:       identity.ID(),
		UserName:  identity.Name(),
		UserEmail: identity.Email(),
		UserRole:  identity.Role(),
		TokenUse:  purpose,
	}

	ensureTokenID(&claims.RegisteredClaims)

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// IssuePair mints an access and a refresh token from one claim set
func (ts *TokenServiceImpl) IssuePair(identity Identity) (*TokenPair, error) {
	access, accessExp, err := ts.Issue(identity, TokenPurposeAccess)
	if err != nil {
		return nil, err
	}

	refresh, refreshExp, err := ts.Issue(identity, TokenPurposeRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured
// claims. Failures are classified: expired, tampered, not yet valid,
// wrong purpose, and everything else collapses into malformed.
func (ts *TokenServiceImpl) Validate(tokenString string, purpose TokenPurpose) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		// tokens must carry the primary configured audience
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrUnableToMapClaims
	}

	if err := claims.requireValid(); err != nil {
		return nil, err
	}

	if claims.TokenUse != purpose {
		return nil, ErrTokenPurposeMismatch
	}

	return claims, nil
}

// AccessValidator adapts the service to the single argument validator
// shape the middleware expects, pinned to the access purpose.
func (ts *TokenServiceImpl) AccessValidator() TokenValidator {
	return TokenValidatorFunc(func(tokenString string) (AuthClaims, error) {
		return ts.Validate(tokenString, TokenPurposeAccess)
	})
}

// RefreshValidator pins validation to the refresh purpose
func (ts *TokenServiceImpl) RefreshValidator() TokenValidator {
	return TokenValidatorFunc(func(tokenString string) (AuthClaims, error) {
		return ts.Validate(tokenString, TokenPurposeRefresh)
	})
}

func (ts *TokenServiceImpl) ttl(purpose TokenPurpose) time.Duration {
	if purpose == TokenPurposeRefresh {
		return time.Duration(ts.refreshExpiration) * time.Hour
	}
	return time.Duration(ts.accessExpiration) * time.Hour
}

func (ts *TokenServiceImpl) claimAudience() jwt.ClaimStrings {
	if len(ts.audience) == 0 {
		return nil
	}
	aud := make(jwt.ClaimStrings, len(ts.audience))
	copy(aud, ts.audience)
	return aud
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
