package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shadowkingaftab/connect-hire/internal/ledger"
	"github.com/shadowkingaftab/connect-hire/internal/utilities"
)

// RoleHandler assigns a role to accounts that were created without one.
type RoleHandler struct {
	Ledger *ledger.Service
}

// NewRoleHandler creates a new instance of RoleHandler.
func NewRoleHandler(svc *ledger.Service) *RoleHandler {
	return &RoleHandler{Ledger: svc}
}

type roleInfo struct {
	Role string `json:"role" binding:"required"`
}

// ChooseRoleHandler fixes the caller's role, exactly once. An account that
// already carries a role conflicts; nothing ever rewrites an assigned role.
// @Summary Choose the caller's role
// @Description Only for accounts without a role; the choice is permanent
// @Tags Auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body roleInfo true "role can be only 'job_seeker' or 'employer'"
// @Success 200 {object} utilities.MessageResponse "Role assigned"
// @Failure 400 {object} utilities.ErrorResponse "Unknown role"
// @Failure 409 {object} utilities.ErrorResponse "Role already assigned"
// @Router /auth/role [post]
func (h *RoleHandler) ChooseRoleHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info roleInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Role (Only 'job_seeker' or 'employer') must be provided",
		})
		return
	}

	role, err := h.Ledger.RegisterRole(user.ID.String(), info.Role)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ledger.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, ledger.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, ledger.ErrNotFound):
			status = http.StatusNotFound
		}
		c.JSON(status, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Role set to " + role})
}
