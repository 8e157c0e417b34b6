package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey   []byte
	durationDays int
	issuer       string
	audience     jwt.ClaimStrings
	logger       Logger
}

// NewTokenService creates a new TokenService instance. Token lifetime is
// expressed in whole days; the coarse granularity is deliberate and matches
// the tokens downstream verifiers already accept.
func NewTokenService(signingKey []byte, durationDays int, issuer string, audience jwt.ClaimStrings, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:   signingKey,
		durationDays: durationDays,
		issuer:       issuer,
		audience:     audience,
		logger:       logger,
	}
}

// NewTokenServiceFromConfig builds a TokenService from a Config
func NewTokenServiceFromConfig(cfg Config, logger Logger) TokenService {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenDurationDays(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)
}

// Sign binds issuer, audience, the claim set, issued-at and expiry into a
// compact HS256 token. A zero issuedAt uses the current time.
func (ts *TokenServiceImpl) Sign(set *ClaimSet, issuedAt time.Time) (*IssuedToken, error) {
	if set == nil {
		return nil, goerrors.New("claim set must not be nil", goerrors.CategoryInternal)
	}

	if len(strings.TrimSpace(string(ts.signingKey))) == 0 {
		return nil, ErrSigningKeyMissing
	}

	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	expiresAt := issuedAt.Add(time.Duration(ts.durationDays) * 24 * time.Hour)

	payload := set.MapClaims()
	if ts.issuer != "" {
		payload["iss"] = ts.issuer
	}
	switch len(ts.audience) {
	case 0:
	case 1:
		payload["aud"] = ts.audience[0]
	default:
		aud := make([]string, len(ts.audience))
		copy(aud, ts.audience)
		payload["aud"] = aud
	}
	payload["iat"] = jwt.NewNumericDate(issuedAt)
	payload["exp"] = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT").
			WithTextCode(TextCodeSigningKey)
	}

	return &IssuedToken{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return newTokenClaims(claims), nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}
