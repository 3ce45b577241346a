package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/getauthentic/backend/internal/application/usecase/profile"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type ProfileHandler struct {
	updateProfileUC *profileUC.UpdateProfileUseCase
	logger          logger.Logger
}

func NewProfileHandler(uc *profileUC.UpdateProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{updateProfileUC: uc, logger: log}
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	input := profileUC.UpdateProfileInput{
		Email:  *req.ContactEmail,
		Update: req.ToDomain(),
	}

	if err := h.updateProfileUC.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully."})
}
