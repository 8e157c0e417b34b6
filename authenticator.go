package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Client facing messages. These are forwarded verbatim as error bodies by
// the calling layer, so changing them is a wire level change.
const (
	msgNoDataSent        = "No data sent"
	msgInvalidData       = "Invalid data"
	msgInvalidCreds      = "Email or password is incorrect"
	msgEmailTaken        = "Email is already registered"
	msgUsernameTaken     = "UserName is already registered"
	msgTokenCreated      = "Token has created successfully"
	msgTooManyAttempts   = "Too many login attempts, try again later"
	msgRegistrationError = "Registration failed"
)

var _ Authenticator = (*Auther)(nil)

// Auther combines credential verification, claim assembly and token signing
// into the registration and login use cases
type Auther struct {
	users           UserStore
	provider        IdentityProvider
	tokenService    TokenService
	claimsDecorator ClaimsDecorator
	defaultRole     string
	logger          Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users UserStore, opts Config) *Auther {
	return &Auther{
		users:           users,
		provider:        NewUserProvider(users),
		tokenService:    NewTokenServiceFromConfig(opts, defLogger{}),
		claimsDecorator: noopClaimsDecorator{},
		defaultRole:     DefaultRole,
		logger:          defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithIdentityProvider swaps the credential verification strategy
func (s *Auther) WithIdentityProvider(provider IdentityProvider) *Auther {
	if provider != nil {
		s.provider = provider
	}
	return s
}

// WithTokenService swaps the signing implementation
func (s *Auther) WithTokenService(service TokenService) *Auther {
	if service != nil {
		s.tokenService = service
	}
	return s
}

// WithClaimsDecorator configures a ClaimsDecorator for enriching tokens
func (s *Auther) WithClaimsDecorator(decorator ClaimsDecorator) *Auther {
	s.claimsDecorator = normalizeClaimsDecorator(decorator)
	return s
}

// WithDefaultRole overrides the role granted on registration
func (s *Auther) WithDefaultRole(role string) *Auther {
	if strings.TrimSpace(role) != "" {
		s.defaultRole = role
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates the principal, grants the default role and returns a
// signed token. Expected failures come back as an unauthenticated result
// with a message; the error return is reserved for store or signing
// breakage.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*AuthResult, error) {
	if msg.missingRequired() {
		return &AuthResult{Message: msgNoDataSent}, nil
	}

	if _, err := s.users.FindByEmail(ctx, msg.Email); err == nil {
		return &AuthResult{Message: msgEmailTaken}, nil
	} else if !goerrors.IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
	}

	if _, err := s.users.FindByUsername(ctx, msg.Username); err == nil {
		return &AuthResult{Message: msgUsernameTaken}, nil
	} else if !goerrors.IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username uniqueness")
	}

	user := &User{
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		Username:  msg.Username,
		Email:     msg.Email,
		Phone:     msg.Phone,
	}

	created, err := s.users.Register(ctx, user, msg.Password)
	if err != nil {
		s.logger.Error("Register create user error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	if err := s.users.AddRole(ctx, created, s.defaultRole); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to grant default role")
	}

	issued, err := s.issueToken(ctx, created, []string{s.defaultRole})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		IsAuthenticated: true,
		Username:        created.Username,
		Email:           created.Email,
		Token:           issued.Token,
		ExpiresOn:       issued.ExpiresAt,
		Roles:           []string{s.defaultRole},
	}, nil
}

// Login verifies the credentials and issues a token over the principal's
// actual role set
func (s *Auther) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	user, roles, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		if msg, recoverable := loginFailureMessage(err); recoverable {
			s.logger.Debug("Login rejected", "identifier", identifier, "error", err)
			return &AuthResult{Message: msg}, nil
		}
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	issued, err := s.issueToken(ctx, user, roles)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		IsAuthenticated: true,
		Username:        user.Username,
		Email:           user.Email,
		Token:           issued.Token,
		ExpiresOn:       issued.ExpiresAt,
		Roles:           roles,
		Message:         msgTokenCreated,
	}, nil
}

// issueToken assembles the claim set for the user, runs the decorator, and
// signs. The store provided claims are unioned in verbatim.
func (s *Auther) issueToken(ctx context.Context, user *User, roles []string) (*IssuedToken, error) {
	existing, err := s.users.Claims(ctx, user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user claims")
	}

	set, err := BuildClaims(user.Identity(), roles, existing)
	if err != nil {
		return nil, err
	}

	decorator := normalizeClaimsDecorator(s.claimsDecorator)
	if err := decorator.Decorate(ctx, user.Identity(), set); err != nil {
		s.logger.Error("claims decorator failed", "error", err)
		return nil, err
	}

	return s.tokenService.Sign(set, time.Now())
}

func loginFailureMessage(err error) (string, bool) {
	switch {
	case goerrors.Is(err, ErrInvalidInput):
		return msgInvalidData, true
	case goerrors.Is(err, ErrMismatchedHashAndPassword),
		goerrors.Is(err, ErrIdentityNotFound):
		return msgInvalidCreds, true
	case goerrors.Is(err, ErrTooManyLoginAttempts):
		return msgTooManyAttempts, true
	}
	return "", false
}
