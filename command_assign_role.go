package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type AssignRoleMessage struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (e AssignRoleMessage) Type() string { return "user.assign_role" }

// AssignRoleHandler is the message driven entry point for role assignment
type AssignRoleHandler struct {
	service *RoleService
}

func NewAssignRoleHandler(service *RoleService) *AssignRoleHandler {
	return &AssignRoleHandler{service: service}
}

func (h *AssignRoleHandler) Execute(ctx context.Context, event AssignRoleMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during role assignment",
		)
	default:
		return h.service.Assign(ctx, event.UserID, event.Role)
	}
}
