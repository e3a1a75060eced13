package blog_test

import (
	"fmt"
	"testing"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredErrorProperties(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category errors.Category
		textCode string
		message  string
	}{
		{
			name:     "mismatched hash and password",
			err:      blog.ErrMismatchedHashAndPassword,
			category: errors.CategoryAuth,
			textCode: blog.TextCodeInvalidCreds,
			message:  "the credentials provided are invalid",
		},
		{
			name:     "email taken",
			err:      blog.ErrEmailTaken,
			category: errors.CategoryConflict,
			textCode: blog.TextCodeEmailTaken,
			message:  "user already exists",
		},
		{
			name:     "token expired",
			err:      blog.ErrTokenExpired,
			category: errors.CategoryAuth,
			textCode: blog.TextCodeTokenExpired,
			message:  "token is expired",
		},
		{
			name:     "token malformed",
			err:      blog.ErrTokenMalformed,
			category: errors.CategoryAuth,
			textCode: blog.TextCodeTokenMalformed,
			message:  "token is malformed",
		},
		{
			name:     "token signature invalid",
			err:      blog.ErrTokenSignatureInvalid,
			category: errors.CategoryAuth,
			textCode: blog.TextCodeTokenSignature,
			message:  "token signature is invalid",
		},
		{
			name:     "token purpose mismatch",
			err:      blog.ErrTokenPurposeMismatch,
			category: errors.CategoryAuth,
			textCode: blog.TextCodeTokenPurpose,
			message:  "token purpose mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rich *errors.Error
			require.True(t, errors.As(tt.err, &rich))
			assert.Equal(t, tt.category, rich.Category)
			assert.Equal(t, tt.textCode, rich.TextCode)
			assert.Equal(t, tt.message, rich.Message)
		})
	}
}

func TestErrIdentityNotFoundIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(blog.ErrIdentityNotFound))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, blog.IsNotFoundError(nil))
	assert.True(t, blog.IsNotFoundError(blog.ErrIdentityNotFound))
	// store errors carry the repository's own not-found category
	assert.True(t, blog.IsNotFoundError(repository.NewRecordNotFound()))
	assert.True(t, blog.IsNotFoundError(fmt.Errorf("get user: %w", repository.NewRecordNotFound())))
	assert.False(t, blog.IsNotFoundError(blog.ErrEmailTaken))
	assert.False(t, blog.IsNotFoundError(assert.AnError))
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, blog.IsTokenExpiredError(nil))
	assert.True(t, blog.IsTokenExpiredError(blog.ErrTokenExpired))
	assert.True(t, blog.IsTokenExpiredError(fmt.Errorf("validate: %w", blog.ErrTokenExpired)))
	// legacy string match for errors that never passed through our codes
	assert.True(t, blog.IsTokenExpiredError(fmt.Errorf("token is expired by 2m")))
	assert.False(t, blog.IsTokenExpiredError(blog.ErrTokenMalformed))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, blog.IsMalformedError(nil))
	assert.True(t, blog.IsMalformedError(blog.ErrTokenMalformed))
	assert.True(t, blog.IsMalformedError(fmt.Errorf("missing or malformed JWT")))
	assert.True(t, blog.IsMalformedError(fmt.Errorf("token is malformed: bad segment")))
	assert.False(t, blog.IsMalformedError(blog.ErrTokenExpired))
}
