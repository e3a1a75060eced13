package blog_test

import (
	"context"
	"testing"
	"time"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bindRegisterPayload(p blog.RegisterPayload) func(mock.Arguments) {
	return func(args mock.Arguments) {
		target := args.Get(0).(*blog.RegisterPayload)
		*target = p
	}
}

func bindLoginPayload(p blog.LoginPayload) func(mock.Arguments) {
	return func(args mock.Arguments) {
		target := args.Get(0).(*blog.LoginPayload)
		*target = p
	}
}

func TestAuthControllerRegister(t *testing.T) {
	registry := &fakeRegistry{}
	ctrl := blog.NewAuthController(&MockAuthenticator{}, registry, testConfig{})

	ctx := &MockContext{}
	ctx.On("Bind", mock.Anything).Run(bindRegisterPayload(blog.RegisterPayload{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "s3cr3t",
	})).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", router.StatusCreated, map[string]string{
		"status":  "success",
		"message": "User registered successfully",
	}).Return(nil)

	err := ctrl.Register(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)

	require.Len(t, registry.got, 1)
	assert.Equal(t, "ada@example.com", registry.got[0].Email)
}

func TestAuthControllerRegisterDuplicate(t *testing.T) {
	registry := &fakeRegistry{err: blog.ErrEmailTaken}
	ctrl := blog.NewAuthController(&MockAuthenticator{}, registry, testConfig{})

	ctx := &MockContext{}
	ctx.On("Bind", mock.Anything).Run(bindRegisterPayload(blog.RegisterPayload{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "s3cr3t",
	})).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", router.StatusBadRequest, map[string]string{
		"message": "User already exists",
	}).Return(nil)

	err := ctrl.Register(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestAuthControllerRegisterInvalidPayload(t *testing.T) {
	ctrl := blog.NewAuthController(&MockAuthenticator{}, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Bind", mock.Anything).Run(bindRegisterPayload(blog.RegisterPayload{
		Name: "Ada Lovelace",
	})).Return(nil)
	ctx.On("JSON", router.StatusBadRequest, mock.Anything).Return(nil)

	err := ctrl.Register(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestAuthControllerLogin(t *testing.T) {
	identity := newTestIdentity()
	pair := &blog.TokenPair{
		AccessToken:      "access-token",
		AccessExpiresAt:  time.Now().Add(time.Hour),
		RefreshToken:     "refresh-token",
		RefreshExpiresAt: time.Now().Add(24 * 7 * time.Hour),
	}

	auther := &MockAuthenticator{}
	auther.On("Login", mock.Anything, "ada@example.com", "s3cr3t").Return(pair, identity, nil)

	ctrl := blog.NewAuthController(auther, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Bind", mock.Anything).Run(bindLoginPayload(blog.LoginPayload{
		Email:    "ada@example.com",
		Password: "s3cr3t",
	})).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
		return c.Name == blog.RefreshCookieName &&
			c.Value == "refresh-token" &&
			c.HTTPOnly && c.Secure && c.SameSite == "Strict" &&
			c.Expires.After(time.Now())
	})).Return()
	ctx.On("JSON", router.StatusOK, map[string]any{
		"status":      "success",
		"accessToken": "access-token",
		"user": map[string]any{
			"id":    identity.ID(),
			"name":  identity.Name(),
			"email": identity.Email(),
			"role":  identity.Role(),
		},
	}).Return(nil)

	err := ctrl.Login(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
	auther.AssertExpectations(t)
}

func TestAuthControllerLoginBadCredentials(t *testing.T) {
	auther := &MockAuthenticator{}
	auther.On("Login", mock.Anything, "ada@example.com", "nope").
		Return(nil, nil, blog.ErrMismatchedHashAndPassword)

	ctrl := blog.NewAuthController(auther, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Bind", mock.Anything).Run(bindLoginPayload(blog.LoginPayload{
		Email:    "ada@example.com",
		Password: "nope",
	})).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", router.StatusBadRequest, map[string]string{
		"message": "Invalid credentials",
	}).Return(nil)

	err := ctrl.Login(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestAuthControllerRefresh(t *testing.T) {
	auther := &MockAuthenticator{}
	auther.On("Refresh", mock.Anything, "refresh-token").
		Return("new-access-token", time.Now().Add(time.Hour), nil)

	ctrl := blog.NewAuthController(auther, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Cookies", blog.RefreshCookieName).Return("refresh-token")
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", router.StatusOK, map[string]string{
		"accessToken": "new-access-token",
	}).Return(nil)

	err := ctrl.Refresh(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestAuthControllerRefreshNoCookie(t *testing.T) {
	ctrl := blog.NewAuthController(&MockAuthenticator{}, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Cookies", blog.RefreshCookieName).Return("")
	ctx.On("JSON", router.StatusUnauthorized, map[string]string{
		"message": "No token provided",
	}).Return(nil)

	err := ctrl.Refresh(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestAuthControllerRefreshExpired(t *testing.T) {
	auther := &MockAuthenticator{}
	auther.On("Refresh", mock.Anything, "stale-token").
		Return("", time.Time{}, blog.ErrTokenExpired)

	ctrl := blog.NewAuthController(auther, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Cookies", blog.RefreshCookieName).Return("stale-token")
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", router.StatusUnauthorized, map[string]string{
		"message": "Token expired",
	}).Return(nil)

	err := ctrl.Refresh(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestAuthControllerLogout(t *testing.T) {
	ctrl := blog.NewAuthController(&MockAuthenticator{}, &fakeRegistry{}, testConfig{})

	ctx := &MockContext{}
	ctx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
		return c.Name == blog.RefreshCookieName &&
			c.Value == "" &&
			c.Expires.Before(time.Now())
	})).Return()
	ctx.On("JSON", router.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logged out",
	}).Return(nil)

	err := ctrl.Logout(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}
