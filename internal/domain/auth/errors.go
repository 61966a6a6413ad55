package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenRevoked          = errors.New("token has been revoked")
	ErrPayrollAccessRequired = errors.New("payroll access requires owner or manager role")
)
