package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-reconciler/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePayrollAccess requires manager or owner role
func RequirePayrollAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrPayrollAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, auth.ErrPayrollAccessRequired)
			return
		}

		if !auth.Role(roleStr).CanRunPayroll() {
			response.HandleError(w, auth.ErrPayrollAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
