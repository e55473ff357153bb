package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the login endpoints. Password logins live under
// the v1 prefix, OTP logins under v2; both prefixes are public in the default
// access policy.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.PasswordLogin, controller.PasswordLogin).
		SetName("auth.v1.login")

	app.
		Post(controller.Routes.OTPLogin, controller.OTPLogin).
		SetName("auth.v2.login")
}

type AuthControllerRoutes struct {
	PasswordLogin string
	OTPLogin      string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Routes *AuthControllerRoutes
	Auther *Auther
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			PasswordLogin: "/api/v1/auth/login",
			OTPLogin:      "/api/v2/auth/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	return c
}

// WithAuther sets the authenticator the controller drives.
func WithAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// TokenResponse is the successful login payload.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresAt int64  `json:"expires_at"`
}

// LoginRequest is the password login payload. Exactly one of phone or email
// identifies the account.
type LoginRequest struct {
	Phone    string `form:"phone" json:"phone"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier, preferring phone when both are set
func (r LoginRequest) GetIdentifier() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.Email
}

// Validate will run validation rules
func (r LoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Email,
				validation.Required.When(r.Phone == "").Error("either phone or email is required"),
				is.Email,
			),
			validation.Field(
				&r.Password,
				validation.Required,
			),
		)
	}, "validation failed")
}

// OTPLoginRequest is the passcode login payload.
type OTPLoginRequest struct {
	Phone string `form:"phone" json:"phone"`
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

// GetIdentifier returns the identifier, preferring phone when both are set
func (r OTPLoginRequest) GetIdentifier() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.Email
}

// Validate will run validation rules
func (r OTPLoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Email,
				validation.Required.When(r.Phone == "").Error("either phone or email is required"),
				is.Email,
			),
			validation.Field(
				&r.Code,
				validation.Required,
				validation.Length(4, 10),
				is.Digit,
			),
		)
	}, "validation failed")
}

func (a *AuthController) PasswordLogin(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password login parse payload", "error", err)
		return a.badRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.validationFailed(ctx, err)
	}

	if a.Debug {
		a.Logger.Debug("password login payload", "payload", print.MaybePrettyJSON(payload))
	}

	candidate := Candidate{
		Kind:       CredentialPassword,
		Identifier: payload.GetIdentifier(),
		Password:   payload.Password,
	}

	return a.login(ctx, candidate)
}

func (a *AuthController) OTPLogin(ctx router.Context) error {
	payload := new(OTPLoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("otp login parse payload", "error", err)
		return a.badRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.validationFailed(ctx, err)
	}

	candidate := Candidate{
		Kind:       CredentialOTP,
		Identifier: payload.GetIdentifier(),
		Code:       payload.Code,
	}

	return a.login(ctx, candidate)
}

// login runs the candidate through the chain. Every failure renders the same
// 401 body regardless of which verifier rejected or why.
func (a *AuthController) login(ctx router.Context, candidate Candidate) error {
	result, err := a.Auther.Login(ctx.Context(), candidate)
	if err != nil {
		a.Logger.Warn("login rejected", "kind", string(candidate.Kind), "error", err)

		return ctx.JSON(router.StatusUnauthorized, ErrorResponse{
			Status:   router.StatusUnauthorized,
			TextCode: TextCodeAuthFailed,
			Message:  ErrAuthenticationFailed.Message,
		})
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt.Unix(),
	})
}

func (a *AuthController) badRequest(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusBadRequest, ErrorResponse{
		Status:   router.StatusBadRequest,
		TextCode: "INVALID_PAYLOAD",
		Message:  "failed to parse request body",
	})
}

func (a *AuthController) validationFailed(ctx router.Context, err *errors.Error) error {
	return ctx.JSON(router.StatusBadRequest, map[string]any{
		"status":     router.StatusBadRequest,
		"text_code":  "VALIDATION_ERROR",
		"message":    err.Message,
		"validation": err.ValidationMap(),
	})
}
