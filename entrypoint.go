package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorResponse is the uniform error payload the entry point writes. Every
// client-facing authentication or authorization failure goes through it, so
// rejected requests are indistinguishable beyond status and text code.
type ErrorResponse struct {
	Status    int    `json:"status"`
	TextCode  string `json:"text_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// EntryPoint is the single place client-facing auth errors are rendered. The
// token filter and access policy never write responses themselves.
type EntryPoint struct {
	logger Logger
}

// NewEntryPoint will create a new EntryPoint
func NewEntryPoint(logger Logger) *EntryPoint {
	if logger == nil {
		logger = defLogger{}
	}
	return &EntryPoint{logger: logger}
}

// Unauthorized writes the 401 challenge. When the filter recorded a token
// validation failure for this request, the text code reflects it: an expired
// token and a tampered one produce different codes but the same status.
func (e *EntryPoint) Unauthorized(ctx router.Context) error {
	textCode := TextCodeUnauthenticated
	message := "full authentication is required to access this resource"

	if raw := ctx.Locals(ErrorContextKey); raw != nil {
		if err, ok := raw.(error); ok {
			var rich *errors.Error
			if errors.As(err, &rich) && rich.TextCode != "" {
				textCode = rich.TextCode
				message = rich.Message
			}
			e.logger.Debug("unauthorized request",
				"path", ctx.Path(),
				"method", ctx.Method(),
				"error", err,
			)
		}
	}

	ctx.SetHeader("WWW-Authenticate", `Bearer realm="customer-auth"`)

	return ctx.JSON(router.StatusUnauthorized, ErrorResponse{
		Status:   router.StatusUnauthorized,
		TextCode: textCode,
		Message:  message,
	})
}

// Forbidden writes the 403 response for authenticated requests that lack the
// required role.
func (e *EntryPoint) Forbidden(ctx router.Context) error {
	e.logger.Debug("forbidden request", "path", ctx.Path(), "method", ctx.Method())

	return ctx.JSON(router.StatusForbidden, ErrorResponse{
		Status:   router.StatusForbidden,
		TextCode: TextCodeForbidden,
		Message:  "access denied",
	})
}
