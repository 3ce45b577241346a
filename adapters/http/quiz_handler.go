package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	quizUC "github.com/getauthentic/backend/internal/application/usecase/quiz"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type QuizHandler struct {
	quizUseCase *quizUC.QuizUseCase
	logger      logger.Logger
}

func NewQuizHandler(uc *quizUC.QuizUseCase, log logger.Logger) *QuizHandler {
	return &QuizHandler{quizUseCase: uc, logger: log}
}

func (h *QuizHandler) SaveResult(c *gin.Context) {
	var req SaveQuizResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for quiz result", err))
		return
	}

	input := quizUC.SaveResultInput{
		Email:       req.Email,
		Scores:      req.Scores,
		Categories:  req.Categories,
		ProfileType: req.ProfileType,
		ImageURL:    req.ResultImageURL,
	}

	if err := h.quizUseCase.ExecuteSave(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Result saved."})
}

func (h *QuizHandler) GetResult(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.Error(apperror.NewInvalidInput("'email' query parameter is required", nil))
		return
	}

	output, err := h.quizUseCase.ExecuteGet(c.Request.Context(), email)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, QuizResultResponse{
		Exists:      output.Exists,
		Scores:      output.Scores,
		Categories:  output.Categories,
		ProfileType: output.ProfileType,
	})
}
