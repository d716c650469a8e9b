package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/academy-console/internal/auth"
	"github.com/nekogravitycat/academy-console/internal/pkg/response"
)

type Handler struct {
	authenticator *auth.StaffAuthenticator
	jwtManager    *auth.JWTManager
}

func NewHandler(authenticator *auth.StaffAuthenticator, jwtManager *auth.JWTManager) *Handler {
	return &Handler{authenticator: authenticator, jwtManager: jwtManager}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	staff, err := h.authenticator.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(staff.ID, staff.Email)
	if err != nil {
		response.Error(c, fmt.Errorf("generate token: %w", err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.jwtManager.TTL().Seconds()),
		Staff:       NewStaffResponse(staff),
	})
}

func (h *Handler) Me(c *gin.Context) {
	staff, err := h.authenticator.Lookup(c.Request.Context(), auth.GetStaffID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, MeResponse{Staff: NewStaffResponse(staff)})
}
