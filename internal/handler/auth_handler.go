package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/service"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/response"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Authenticate inspector
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Roster godoc
// @Summary Active inspector roster
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inspectors [get]
func (h *AuthHandler) Roster(c *gin.Context) {
	roster, err := h.auth.Roster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}
