package auth

import (
	"net/http"

	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrMissingToken       = apperror.New(http.StatusUnauthorized, "missing Authorization header")
	ErrMalformedToken     = apperror.New(http.StatusUnauthorized, "invalid Authorization header format")
	ErrInvalidToken       = apperror.New(http.StatusUnauthorized, "invalid or expired token")
)
