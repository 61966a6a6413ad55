package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrPayrollAccessRequired):
		Forbidden(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), map[string]string{"kind": string(payroll.ErrorKindInvalidPeriod)})
	case errors.Is(err, payroll.ErrInvalidRate):
		BadRequest(w, err.Error(), map[string]string{"kind": string(payroll.ErrorKindInvalidRate)})
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(w, "Salary calculation timed out")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
