package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced alongside categorized errors so API layers can map
// failures without string matching.
const (
	TextCodeInvalidInput    = "INVALID_INPUT"
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts = "TOO_MANY_ATTEMPTS"
	TextCodeEmailTaken      = "EMAIL_TAKEN"
	TextCodeUsernameTaken   = "USERNAME_TAKEN"
	TextCodeUnknownTarget   = "INVALID_USER_OR_ROLE"
	TextCodeRoleConflict    = "ALREADY_IN_ROLE"
	TextCodeSigningKey      = "SIGNING_KEY_INVALID"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
)

// ErrInvalidInput rejects empty or whitespace only credentials before we
// touch the store
var ErrInvalidInput = goerrors.New("Invalid data", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidInput)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound)

// ErrMismatchedHashAndPassword covers both an unknown identifier and a wrong
// password so callers cannot enumerate accounts
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTooManyLoginAttempts is returned while an account is cooling down
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrEmailRegistered signals a registration uniqueness violation on email
var ErrEmailRegistered = goerrors.New("Email is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrUsernameRegistered signals a registration uniqueness violation on username
var ErrUsernameRegistered = goerrors.New("UserName is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken)

// ErrUnknownUserOrRole collapses "no such user" and "no such role" into a
// single assignment failure
var ErrUnknownUserOrRole = goerrors.New("Invalid userID or role", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUnknownTarget)

// ErrAlreadyInRole rejects re-assigning a role the principal already holds
var ErrAlreadyInRole = goerrors.New("Is already in the role", goerrors.CategoryConflict).
	WithTextCode(TextCodeRoleConflict)

// ErrSigningKeyMissing indicates misconfigured key material; fatal to the
// request and worth an operator alert
var ErrSigningKeyMissing = goerrors.New("signing key material is missing or invalid", goerrors.CategoryInternal).
	WithTextCode(TextCodeSigningKey)

// ErrTokenExpired is the structured form of jwt's expiry failure
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers undecodable or tampered tokens
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrNoEmptyString rejects empty passwords at the hashing boundary
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenExpired
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message or text code
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenMalformed
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
