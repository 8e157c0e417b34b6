package auth

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles is the bun backed role store. Existence checks run against the
// normalized name so lookups are case insensitive.
type Roles interface {
	repository.Repository[*Role]

	Exists(ctx context.Context, name string) (bool, error)
	GetByName(ctx context.Context, name string) (*Role, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var (
	_ Roles     = (*roles)(nil)
	_ RoleStore = (*roles)(nil)
)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "normalized_name"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (r *roles) Exists(ctx context.Context, name string) (bool, error) {
	normalized := NormalizeRoleName(name)
	if normalized == "" {
		return false, nil
	}

	return r.db.NewSelect().
		Model((*Role)(nil)).
		Where(`?TableAlias.normalized_name = ?`, normalized).
		Exists(ctx)
}

func (r *roles) GetByName(ctx context.Context, name string) (*Role, error) {
	record := &Role{}
	err := r.db.NewSelect().
		Model(record).
		Where(`?TableAlias.normalized_name = ?`, NormalizeRoleName(name)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"role": name})
		}
		return nil, err
	}

	return record, nil
}
