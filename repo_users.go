package auth

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the bun backed credential store. It satisfies UserStore, so the
// core never sees bun directly.
type Users interface {
	repository.Repository[*User]

	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	Register(ctx context.Context, user *User, rawPassword string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User, rawPassword string) (*User, error)

	CheckPassword(ctx context.Context, user *User, rawPassword string) (bool, error)

	Claims(ctx context.Context, user *User) ([]Claim, error)
	Roles(ctx context.Context, user *User) ([]string, error)
	AddRole(ctx context.Context, user *User, role string) error
	AddRoleTx(ctx context.Context, tx bun.IDB, user *User, role string) error
	IsInRole(ctx context.Context, user *User, role string) (bool, error)

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ UserStore                    = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.findByColumn(ctx, tx, "email", email)
}

func (a *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	return a.FindByUsernameTx(ctx, a.db, username)
}

func (a *users) FindByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	return a.findByColumn(ctx, tx, "username", username)
}

func (a *users) FindByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}
	return a.findByColumn(ctx, a.db, "id", uid.String())
}

func (a *users) findByColumn(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{column: value})
		}
		return nil, err
	}

	return record, nil
}

// Register hashes the raw password and persists the user. ID defaults to a
// fresh UUID when the caller did not pick one.
func (a *users) Register(ctx context.Context, user *User, rawPassword string) (*User, error) {
	return a.RegisterTx(ctx, a.db, user, rawPassword)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User, rawPassword string) (*User, error) {
	hash, err := HashPassword(rawPassword)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	prepareUserDefaults(user)

	return a.Repository.CreateTx(ctx, tx, user)
}

// CheckPassword reports whether the cleartext matches the stored hash.
// A mismatch is a false result, not an error.
func (a *users) CheckPassword(_ context.Context, user *User, rawPassword string) (bool, error) {
	if user == nil || user.PasswordHash == "" {
		return false, nil
	}

	if err := ComparePasswordAndHash(rawPassword, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (a *users) Claims(ctx context.Context, user *User) ([]Claim, error) {
	var records []UserClaim
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", user.ID).
		Order("uclm.claim_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, 0, len(records))
	for i := range records {
		claims = append(claims, records[i].Claim())
	}

	return claims, nil
}

func (a *users) Roles(ctx context.Context, user *User) ([]string, error) {
	var names []string
	err := a.db.NewSelect().
		Model((*UserRoleAssignment)(nil)).
		Column("rol.name").
		Join(`JOIN "roles" AS "rol" ON "rol"."id" = "usrl"."role_id"`).
		Where(`"usrl"."user_id" = ?`, user.ID).
		Order("rol.name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, err
	}

	return names, nil
}

func (a *users) AddRole(ctx context.Context, user *User, role string) error {
	return a.AddRoleTx(ctx, a.db, user, role)
}

func (a *users) AddRoleTx(ctx context.Context, tx bun.IDB, user *User, role string) error {
	record := &Role{}
	err := tx.NewSelect().
		Model(record).
		Where(`?TableAlias.normalized_name = ?`, NormalizeRoleName(role)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return repository.NewRecordNotFound().
				WithMetadata(map[string]any{"role": role})
		}
		return err
	}

	assignment := &UserRoleAssignment{
		ID:     uuid.New(),
		UserID: user.ID,
		RoleID: record.ID,
	}

	_, err = tx.NewInsert().Model(assignment).Exec(ctx)
	return err
}

func (a *users) IsInRole(ctx context.Context, user *User, role string) (bool, error) {
	return a.db.NewSelect().
		Model((*UserRoleAssignment)(nil)).
		Join(`JOIN "roles" AS "rol" ON "rol"."id" = "usrl"."role_id"`).
		Where(`"usrl"."user_id" = ?`, user.ID).
		Where(`"rol"."normalized_name" = ?`, NormalizeRoleName(role)).
		Exists(ctx)
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	// NOTE: Updating using the ORM fails due to a bug, it wont reset
	// login_attempt_at, login_attempts fields.
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	criteria := []repository.UpdateCriteria{
		repository.UpdateByID(user.ID.String()),
	}

	record := &User{}
	record.ID = user.ID
	record.LoginAttempts = user.LoginAttempts + 1
	now := time.Now()
	record.LoginAttemptAt = &now

	_, err := a.Repository.UpdateTx(ctx, tx, record, criteria...)

	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
