package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// MaxLoginAttempts is the maximum number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// UserProvider verifies credentials against a UserStore. It never touches
// password hashes itself; matching is delegated to the store.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity finds the user by email, delegates the password check to
// the store, and returns the identity with its current role set.
//
// An unknown identifier and a failed password check both surface as
// ErrMismatchedHashAndPassword so the response does not leak which half
// was wrong.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (*User, []string, error) {
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(password) == "" {
		return nil, nil, ErrInvalidInput
	}

	user, err := u.store.FindByEmail(ctx, identifier)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, nil, ErrMismatchedHashAndPassword
		}
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, nil, ErrMismatchedHashAndPassword
	}

	if user.LoginAttemptAt != nil {
		if expired := isOutsideCoolDown(*user.LoginAttemptAt, CoolDownPeriod); expired {
			user.LoginAttempts = 0
		}
	}

	// if we have too many attempts in the given window, cool off!
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, nil, ErrTooManyLoginAttempts
	}

	ok, err := u.store.CheckPassword(ctx, user, password)
	if err != nil {
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check password")
	}

	if !ok {
		if err := u.store.TrackAttemptedLogin(ctx, user); err != nil {
			return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to track login attempt")
		}
		return nil, nil, ErrMismatchedHashAndPassword
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	roles, err := u.store.Roles(ctx, user)
	if err != nil {
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user roles")
	}

	return user, roles, nil
}

var _ IdentityProvider = (*UserProvider)(nil)

func isOutsideCoolDown(since time.Time, period string) bool {
	d, err := time.ParseDuration(period)
	if err != nil {
		return false
	}
	return time.Since(since) > d
}

type authIdentity struct {
	id       string
	username string
	email    string
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }

var _ Identity = authIdentity{}
