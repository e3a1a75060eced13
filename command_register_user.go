package blog

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler runs the registration flow inside one transaction:
// hash the password, resolve the role, and insert. The first account may
// claim the admin role while no admin exists; every later request for it
// silently downgrades to the default role.
type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// RegisterUser satisfies the AccountRegistrerer interface
func (h *RegisterUserHandler) RegisterUser(ctx context.Context, event RegisterUserMessage) error {
	return h.Execute(ctx, event)
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		role, err := h.resolveRole(ctx, tx, event.Role)
		if err != nil {
			return err
		}

		user.PasswordHash = hash
		user.Name = event.Name
		user.Email = NormalizeEmail(event.Email)
		user.Role = role
		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		// Friendly duplicate check; the unique constraint still closes
		// the race between concurrent registrations.
		if _, err := h.repo.Users().GetByEmailTx(ctx, tx, user.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check existing user")
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
				WithTextCode(TextCodeEmailTaken)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return nil
}

func (h *RegisterUserHandler) resolveRole(ctx context.Context, tx bun.Tx, requested string) (UserRole, error) {
	if requested == "" || requested == string(RoleUser) {
		return RoleUser, nil
	}

	role, ok := ParseRole(requested)
	if !ok {
		return "", goerrors.New("unknown role requested", goerrors.CategoryValidation).
			WithTextCode(TextCodeInvalidRole).
			WithMetadata(map[string]any{"role": requested})
	}

	if role == RoleAdmin {
		count, err := h.repo.Users().CountByRoleTx(ctx, tx, RoleAdmin)
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count admin users")
		}
		if count > 0 {
			return RoleUser, nil
		}
	}

	return role, nil
}
