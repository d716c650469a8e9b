package http

import "github.com/nekogravitycat/academy-console/internal/auth"

// LoginRequest defines the payload for staff login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type StaffResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewStaffResponse(s *auth.Staff) StaffResponse {
	return StaffResponse{ID: s.ID, Email: s.Email}
}

// LoginResponse returns the token and staff info.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	Staff       StaffResponse `json:"staff"`
}

type MeResponse struct {
	Staff StaffResponse `json:"staff"`
}
