package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// Authenticator holds methods to deal with authentication. Expected
// failures (bad input, wrong credentials, uniqueness conflicts) come back
// inside the AuthResult; the error return carries operational breakage only.
type Authenticator interface {
	Register(ctx context.Context, msg RegisterUserMessage) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetTokenDurationDays() int
}

// IdentityProvider ensures we have a store to verify auth identities.
// VerifyIdentity returns the verified principal plus its current role set.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (*User, []string, error)
}

// UserStore is the credential store capability surface the core depends on.
// Password hashing lives behind CheckPassword and Register, never in the core.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Register(ctx context.Context, user *User, rawPassword string) (*User, error)
	CheckPassword(ctx context.Context, user *User, rawPassword string) (bool, error)
	Claims(ctx context.Context, user *User) ([]Claim, error)
	Roles(ctx context.Context, user *User) ([]string, error)
	AddRole(ctx context.Context, user *User, role string) error
	IsInRole(ctx context.Context, user *User, role string) (bool, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// RoleStore resolves role existence for assignment checks
type RoleStore interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// TokenService signs claim sets and validates issued tokens
type TokenService interface {
	Sign(set *ClaimSet, issuedAt time.Time) (*IssuedToken, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// IssuedToken is a signed, time-bounded credential. Created fresh per
// issuance, never mutated, never persisted.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResult is the outward facing result of registration and login.
// Expected failures surface as IsAuthenticated=false plus a message,
// never as an error the caller has to unwrap.
type AuthResult struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	Username        string    `json:"username,omitempty"`
	Email           string    `json:"email,omitempty"`
	Token           string    `json:"token,omitempty"`
	ExpiresOn       time.Time `json:"expiresOn,omitempty"`
	Roles           []string  `json:"roles,omitempty"`
	Message         string    `json:"message,omitempty"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
