package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/getauthentic/backend/internal/application/usecase/media"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type MediaHandler struct {
	uploadResultImageUC *mediaUC.UploadResultImageUseCase
	logger              logger.Logger
}

func NewMediaHandler(uc *mediaUC.UploadResultImageUseCase, log logger.Logger) *MediaHandler {
	return &MediaHandler{uploadResultImageUC: uc, logger: log}
}

func (h *MediaHandler) UploadResultImage(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.Error(apperror.NewInvalidInput("'email' is required", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	input := mediaUC.UploadResultImageInput{
		Email: email,
		File:  file,
		Size:  fileHeader.Size,
	}

	output, err := h.uploadResultImageUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": output.URL})
}
