package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// RoleService governs attaching roles to principals. Assignment is a one way
// transition with an idempotence check: holding the role already is a
// conflict, not a silent no-op.
type RoleService struct {
	users  UserStore
	roles  RoleStore
	logger Logger
}

func NewRoleService(users UserStore, roles RoleStore) *RoleService {
	return &RoleService{
		users:  users,
		roles:  roles,
		logger: defLogger{},
	}
}

func (s *RoleService) WithLogger(l Logger) *RoleService {
	if l != nil {
		s.logger = l
	}
	return s
}

// Assign attaches roleName to the user identified by userID.
//
// An unresolvable user id and an unknown role both return
// ErrUnknownUserOrRole; the collapse is deliberate so the response does not
// reveal which identifier was wrong.
func (s *RoleService) Assign(ctx context.Context, userID, roleName string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(roleName) == "" {
		return ErrUnknownUserOrRole
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUnknownUserOrRole
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve user for role assignment")
	}

	exists, err := s.roles.Exists(ctx, roleName)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve role for assignment")
	}
	if !exists {
		return ErrUnknownUserOrRole
	}

	inRole, err := s.users.IsInRole(ctx, user, roleName)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check role membership")
	}
	if inRole {
		return ErrAlreadyInRole
	}

	if err := s.users.AddRole(ctx, user, roleName); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to commit role assignment")
	}

	s.logger.Info("role assigned", "user_id", userID, "role", roleName)

	return nil
}
