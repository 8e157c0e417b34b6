package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the JSON auth endpoints on the given router
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth-register.post")

	app.
		Post(controller.Routes.Token, controller.TokenPost).
		SetName("auth-token.post")

	app.
		Post(controller.Routes.AssignRole, controller.AssignRolePost).
		SetName("auth-role.post")
}

type AuthControllerRoutes struct {
	Register   string
	Token      string
	AssignRole string
}

// AuthController exposes registration, token issuance and role assignment
// as a JSON API. Expected failures are forwarded as 400s with the result's
// message; operational failures become 500s without leaking internals.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Auth         Authenticator
	RoleAssigner *RoleService
	Routes       *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:   "/auth/register",
			Token:      "/auth/token",
			AssignRole: "/auth/roles",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.RoleAssigner == nil {
		panic("Missing RoleService in auth controller...")
	}

	return c
}

// WithAuthenticator sets the Authenticator the controller drives
func WithAuthenticator(auth Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

// WithRoleAssigner sets the RoleService the controller drives
func WithRoleAssigner(service *RoleService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.RoleAssigner = service
		return c
	}
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// RegistrationPayload is the register request body
type RegistrationPayload struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Phone     string `form:"phone_number" json:"phone_number"`
	Password  string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	result, err := a.Auth.Register(ctx.Context(), RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Username:  payload.Username,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
	})
	if err != nil {
		return a.handleError(ctx, err)
	}

	if !result.IsAuthenticated {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"message": result.Message,
		})
	}

	return ctx.JSON(router.StatusOK, result)
}

// TokenPayload is the login request body
type TokenPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r TokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) TokenPost(ctx router.Context) error {
	payload := new(TokenPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("token parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	result, err := a.Auth.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.handleError(ctx, err)
	}

	if !result.IsAuthenticated {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"message": result.Message,
		})
	}

	return ctx.JSON(router.StatusOK, result)
}

// AssignRolePayload is the role assignment request body
type AssignRolePayload struct {
	UserID string `form:"user_id" json:"user_id"`
	Role   string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r AssignRolePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
		validation.Field(&r.Role, validation.Required, validation.Length(1, 100)),
	)
}

func (a *AuthController) AssignRolePost(ctx router.Context) error {
	payload := new(AssignRolePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("assign role parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if err := a.RoleAssigner.Assign(ctx.Context(), payload.UserID, payload.Role); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			switch richErr.Category {
			case goerrors.CategoryNotFound, goerrors.CategoryConflict:
				return ctx.JSON(router.StatusBadRequest, map[string]string{
					"message": richErr.Message,
				})
			}
		}
		return a.handleError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Done!",
	})
}

func (a *AuthController) handleError(ctx router.Context, err error) error {
	a.Logger.Error("auth controller error", "error", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]string{
		"message": "An unexpected server error occurred",
	})
}
