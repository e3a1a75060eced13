package blog

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// TextCodes let transport layers tell 401 subkinds apart without
// leaking internals in the response body.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenSignature     = "TOKEN_SIGNATURE_INVALID"
	TextCodeTokenNotYetValid   = "TOKEN_NOT_YET_VALID"
	TextCodeTokenPurpose       = "TOKEN_PURPOSE_MISMATCH"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeInvalidRole        = "INVALID_ROLE"
	TextCodeClaimsMappingError = "CLAIMS_MAPPING_ERROR"
)

// ErrIdentityNotFound is the error we return for not found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrMismatchedHashAndPassword is the single error for any credential
// failure. Unknown email and wrong password are indistinguishable.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrEmailTaken signals a duplicate registration
var ErrEmailTaken = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrNotAuthorized is the ownership/role violation error, distinct from
// any authentication failure
var ErrNotAuthorized = errors.New("not authorized", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is returned when a token was valid but its lifetime passed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens we cannot parse
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned for tampered or foreign tokens
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenNotYetValid is returned for tokens used before their nbf claim
var ErrTokenNotYetValid = errors.New("token is not valid yet", errors.CategoryAuth).
	WithTextCode(TextCodeTokenNotYetValid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenPurposeMismatch is returned when a refresh token is presented
// where an access token is expected, or the other way around
var ErrTokenPurposeMismatch = errors.New("token purpose mismatch", errors.CategoryAuth).
	WithTextCode(TextCodeTokenPurpose).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims is returned when claims cannot be decoded
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode(TextCodeClaimsMappingError).
	WithCode(errors.CodeUnauthorized)

// IsNotFoundError reports whether err means a record was absent. The
// repository layer uses its own not-found category, so checking the
// generic category alone misses store errors.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) || errors.IsNotFound(err)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed token errors
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
