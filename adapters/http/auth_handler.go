package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/getauthentic/backend/internal/application/usecase/auth"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type AuthHandler struct {
	signupUseCase      *auth.SignupUseCase
	verifyEmailUseCase *auth.VerifyEmailUseCase
	loginUseCase       *auth.LoginUseCase
	frontendURL        string
	logger             logger.Logger
}

func NewAuthHandler(
	signupUC *auth.SignupUseCase,
	verifyUC *auth.VerifyEmailUseCase,
	loginUC *auth.LoginUseCase,
	frontendURL string,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		signupUseCase:      signupUC,
		verifyEmailUseCase: verifyUC,
		loginUseCase:       loginUC,
		frontendURL:        frontendURL,
		logger:             log,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return
	}

	input := auth.SignupInput{
		RestaurantName: req.RestaurantName,
		Email:          req.Email,
		Password:       req.Password,
	}

	err := h.signupUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		// The SPA checks for these exact shapes; duplicate email has always
		// been a 400 and mail failure a 500 on this route.
		if errors.Is(err, apperror.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists."})
			return
		}
		if errors.Is(err, apperror.ErrDependency) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not send verification email. Please try again."})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account created successfully. Please verify your email."})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	input := auth.VerifyEmailInput{
		Token: c.Query("token"),
		Email: c.Query("email"),
	}

	if err := h.verifyEmailUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	redirect := fmt.Sprintf("%s/login?verified=true&email=%s", h.frontendURL, url.QueryEscape(input.Email))
	c.Redirect(http.StatusFound, redirect)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return
	}

	input := auth.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		RestaurantName:   output.RestaurantName,
		Email:            output.Email,
		ProfileCompleted: output.ProfileCompleted,
		AccessToken:      output.AccessToken,
	})
}
