package blog

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, msg RegisterUserMessage) error
}

// UserStore is the store we use to retrieve users during verification
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserProvider resolves identities against the user store
type UserProvider struct {
	store     UserStore
	Validator func(*User) error
	logger    Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:     store,
		logger:    defLogger{},
		Validator: defaultValidator,
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

func (u *UserProvider) validate(user *User) error {
	if u.Validator != nil {
		return u.Validator(user)
	}
	return defaultValidator(user)
}

// VerifyIdentity will find the user, compare the password, and return
// the identity. A missing user and a wrong password return the identical
// error so responses cannot be used to enumerate accounts.
func (u UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return userIdentity{
		id:    user.ID.String(),
		name:  user.Name,
		email: user.Email,
		role:  string(user.Role),
	}, nil
}

// FindIdentityByEmail resolves an identity without verifying credentials
func (u UserProvider) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return userIdentity{
		id:    user.ID.String(),
		name:  user.Name,
		email: user.Email,
		role:  string(user.Role),
	}, nil
}

type userIdentity struct {
	id    string
	name  string
	email string
	role  string
}

func (a userIdentity) ID() string {
	return a.id
}

func (a userIdentity) Name() string {
	return a.name
}

func (a userIdentity) Email() string {
	return a.email
}

func (a userIdentity) Role() string {
	return a.role
}

var _ Identity = userIdentity{}

func defaultValidator(u *User) error {
	if u.Role.IsValid() {
		return nil
	}
	return errors.New("user has an unknown or invalid role", errors.CategoryAuth).
		WithTextCode(TextCodeInvalidRole).
		WithMetadata(map[string]any{"role": u.Role, "user_id": u.ID.String()})
}
