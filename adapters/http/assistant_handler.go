package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getauthentic/backend/internal/application/service"
	assistantUC "github.com/getauthentic/backend/internal/application/usecase/assistant"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type AssistantHandler struct {
	askUseCase *assistantUC.AskUseCase
	logger     logger.Logger
}

func NewAssistantHandler(uc *assistantUC.AskUseCase, log logger.Logger) *AssistantHandler {
	return &AssistantHandler{askUseCase: uc, logger: log}
}

const maxAttachmentSize = 5 << 20 // per image

// AskAI accepts a multipart form (email, profile_type, question, files[])
// and answers with the assistant reply as plain text.
func (h *AssistantHandler) AskAI(c *gin.Context) {
	email := c.PostForm("email")
	profileType := c.PostForm("profile_type")
	question := c.PostForm("question")
	if email == "" || profileType == "" || question == "" {
		c.Error(apperror.NewInvalidInput("'email', 'profile_type' and 'question' are required", nil))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid multipart form", err))
		return
	}

	images, err := readAttachments(form.File["files"])
	if err != nil {
		c.Error(err)
		return
	}

	input := assistantUC.AskInput{
		Email:       email,
		ProfileType: profileType,
		Question:    question,
		Images:      images,
	}

	output, err := h.askUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		// The SPA surfaced provider failures on this route as a plain 500.
		if errors.Is(err, apperror.ErrDependency) {
			c.String(http.StatusInternalServerError, "AI suggestion failed")
			return
		}
		c.Error(err)
		return
	}

	c.String(http.StatusOK, output.Reply)
}

func readAttachments(headers []*multipart.FileHeader) ([]service.ChatImage, error) {
	images := make([]service.ChatImage, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxAttachmentSize {
			return nil, apperror.NewInvalidInput("attached image exceeds the 5 MiB limit", nil)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, apperror.NewInternal("failed to open attachment", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxAttachmentSize))
		f.Close()
		if err != nil {
			return nil, apperror.NewInternal("failed to read attachment", err)
		}

		mime := http.DetectContentType(data)
		if mime != "image/png" && mime != "image/jpeg" && mime != "image/webp" {
			return nil, apperror.NewInvalidInput("only png, jpeg and webp attachments are accepted", nil)
		}

		images = append(images, service.ChatImage{MIME: mime, Data: data})
	}
	return images, nil
}
