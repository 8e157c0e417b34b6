package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the principal record owned by the credential store
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Identity projects the record onto the narrow view token issuance needs
func (u *User) Identity() Identity {
	return authIdentity{
		id:       u.ID.String(),
		username: u.Username,
		email:    u.Email,
	}
}

// Role is a named authorization grant. NormalizedName backs case
// insensitive uniqueness; Name keeps the display casing.
type Role struct {
	bun.BaseModel  `bun:"table:roles,alias:rol"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name           string     `bun:"name,notnull" json:"name,omitempty"`
	NormalizedName string     `bun:"normalized_name,notnull,unique" json:"normalized_name,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// UserRoleAssignment links a principal to a role. The (user_id, role_id)
// pair is unique at the database level; re-assignment is a conflict, not
// an upsert.
type UserRoleAssignment struct {
	bun.BaseModel `bun:"table:user_roles,alias:usrl"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	RoleID        uuid.UUID  `bun:"role_id,notnull,type:uuid" json:"role_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Role          *Role      `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// UserClaim is a custom claim the store attaches to a principal; these are
// unioned into every token issued for the user
type UserClaim struct {
	bun.BaseModel `bun:"table:user_claims,alias:uclm"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	ClaimType     string    `bun:"claim_type,notnull" json:"claim_type,omitempty"`
	ClaimValue    string    `bun:"claim_value,notnull" json:"claim_value,omitempty"`
}

// Claim converts the stored row into the value type claims are built from
func (c *UserClaim) Claim() Claim {
	return Claim{Type: c.ClaimType, Value: c.ClaimValue}
}
