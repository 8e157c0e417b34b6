package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Claim types every issued token carries. Role and store provided claims are
// unioned on top of these.
const (
	ClaimSubject = "sub"
	ClaimTokenID = "jti"
	ClaimEmail   = "email"
	ClaimUID     = "uid"
	ClaimRole    = "role"
)

// Claim is a typed key/value assertion embedded in a token
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ClaimSet is an insertion ordered collection of claims deduplicated by
// (type, value) identity. Adding an existing pair is a no-op, so unions are
// safe to apply in any order the caller produces them.
type ClaimSet struct {
	claims []Claim
	seen   map[Claim]struct{}
}

func NewClaimSet() *ClaimSet {
	return &ClaimSet{
		seen: map[Claim]struct{}{},
	}
}

// Add appends the (claimType, value) pair, reporting whether the set changed
func (s *ClaimSet) Add(claimType, value string) bool {
	c := Claim{Type: claimType, Value: value}
	if _, ok := s.seen[c]; ok {
		return false
	}
	if s.seen == nil {
		s.seen = map[Claim]struct{}{}
	}
	s.seen[c] = struct{}{}
	s.claims = append(s.claims, c)
	return true
}

// Has reports whether the exact (type, value) pair is present
func (s *ClaimSet) Has(claimType, value string) bool {
	_, ok := s.seen[Claim{Type: claimType, Value: value}]
	return ok
}

// Values returns every value recorded for claimType, in insertion order
func (s *ClaimSet) Values(claimType string) []string {
	var out []string
	for _, c := range s.claims {
		if c.Type == claimType {
			out = append(out, c.Value)
		}
	}
	return out
}

// First returns the first value recorded for claimType
func (s *ClaimSet) First(claimType string) (string, bool) {
	for _, c := range s.claims {
		if c.Type == claimType {
			return c.Value, true
		}
	}
	return "", false
}

func (s *ClaimSet) Len() int {
	return len(s.claims)
}

// All returns a copy of the claims in insertion order
func (s *ClaimSet) All() []Claim {
	out := make([]Claim, len(s.claims))
	copy(out, s.claims)
	return out
}

// MapClaims renders the set as a JWT payload. A claim type with a single
// value stays scalar; repeated types collapse into an array, which is how
// standard JWT handlers serialize multi-valued claims.
func (s *ClaimSet) MapClaims() jwt.MapClaims {
	payload := jwt.MapClaims{}
	for _, c := range s.claims {
		existing, ok := payload[c.Type]
		if !ok {
			payload[c.Type] = c.Value
			continue
		}
		switch v := existing.(type) {
		case string:
			payload[c.Type] = []string{v, c.Value}
		case []string:
			payload[c.Type] = append(v, c.Value)
		}
	}
	return payload
}

// BuildClaims assembles the canonical claim set for an identity: subject,
// a fresh token id, email, internal uid, one role claim per role, and the
// store provided claims unioned in without duplication.
//
// The token id is the only non-deterministic part; it is regenerated on
// every call so two tokens for the same identity never share an identity.
func BuildClaims(identity Identity, roles []string, existing []Claim) (*ClaimSet, error) {
	if identity == nil {
		return nil, goerrors.New("identity is required", goerrors.CategoryBadInput)
	}

	if strings.TrimSpace(identity.Username()) == "" ||
		strings.TrimSpace(identity.Email()) == "" ||
		strings.TrimSpace(identity.ID()) == "" {
		return nil, goerrors.New("identity must have username, email and id", goerrors.CategoryValidation).
			WithMetadata(map[string]any{"identity": identity.ID()})
	}

	set := NewClaimSet()
	set.Add(ClaimSubject, identity.Username())
	set.Add(ClaimTokenID, uuid.NewString())
	set.Add(ClaimEmail, identity.Email())
	set.Add(ClaimUID, identity.ID())

	for _, role := range roles {
		set.Add(ClaimRole, role)
	}

	for _, c := range existing {
		set.Add(c.Type, c.Value)
	}

	return set, nil
}

// TokenClaims is the parsed view over a validated token payload
type TokenClaims struct {
	raw jwt.MapClaims
}

func newTokenClaims(raw jwt.MapClaims) *TokenClaims {
	return &TokenClaims{raw: raw}
}

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.stringClaim(ClaimSubject)
}

// TokenID returns the unique token id claim
func (c *TokenClaims) TokenID() string {
	return c.stringClaim(ClaimTokenID)
}

// Email returns the email claim
func (c *TokenClaims) Email() string {
	return c.stringClaim(ClaimEmail)
}

// UserID returns the internal uid claim, falling back to the subject
func (c *TokenClaims) UserID() string {
	if uid := c.stringClaim(ClaimUID); uid != "" {
		return uid
	}
	return c.Subject()
}

// Issuer returns the iss claim
func (c *TokenClaims) Issuer() string {
	return c.stringClaim("iss")
}

// Roles returns the role claims whether they were serialized as a scalar or
// an array
func (c *TokenClaims) Roles() []string {
	switch v := c.raw[ClaimRole].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasRole checks role membership with case normalized comparison
func (c *TokenClaims) HasRole(role string) bool {
	for _, r := range c.Roles() {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if exp, err := c.raw.GetExpirationTime(); err == nil && exp != nil {
		return exp.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if iat, err := c.raw.GetIssuedAt(); err == nil && iat != nil {
		return iat.Time
	}
	return time.Time{}
}

// Get exposes a raw payload value for claims this view has no accessor for
func (c *TokenClaims) Get(key string) (any, bool) {
	v, ok := c.raw[key]
	return v, ok
}

func (c *TokenClaims) stringClaim(key string) string {
	if v, ok := c.raw[key].(string); ok {
		return v
	}
	return ""
}
