package auth

import "strings"

const (
	// DefaultRole is granted to every newly registered user
	DefaultRole = "User"
	// AdminRole is the elevated role seeded by the migrations
	AdminRole = "Admin"
)

// NormalizeRoleName produces the canonical form used for uniqueness and
// membership comparisons. Display casing is preserved elsewhere; only the
// normalized form is compared.
func NormalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// RoleNamesEqual compares two role names under normalization
func RoleNamesEqual(a, b string) bool {
	return NormalizeRoleName(a) == NormalizeRoleName(b)
}

// DedupeRoles removes duplicate role names under normalization, keeping the
// first occurrence's casing and order. Claim building expects its role input
// already deduplicated; this is the helper assignment paths use to do it.
func DedupeRoles(roles []string) []string {
	if len(roles) == 0 {
		return roles
	}
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		key := NormalizeRoleName(r)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
