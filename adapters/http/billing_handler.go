package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	billingUC "github.com/getauthentic/backend/internal/application/usecase/billing"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type BillingHandler struct {
	billingUseCase *billingUC.BillingUseCase
	webhookUseCase *billingUC.WebhookUseCase
	logger         logger.Logger
}

func NewBillingHandler(uc *billingUC.BillingUseCase, whUC *billingUC.WebhookUseCase, log logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingUseCase: uc,
		webhookUseCase: whUC,
		logger:         log,
	}
}

func (h *BillingHandler) SubscriptionStatus(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.Error(apperror.NewInvalidInput("'email' query parameter is required", nil))
		return
	}

	subscribed, err := h.billingUseCase.SubscriptionStatus(c.Request.Context(), email)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": subscribed})
}

func (h *BillingHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return
	}

	if err := h.billingUseCase.Activate(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscription activated."})
}

func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return
	}

	output, err := h.billingUseCase.CreateCheckoutSession(c.Request.Context(), req.Email, req.Plan)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": output.CheckoutURL})
}

// Webhook handles signed payment-processor callbacks. The processor retries
// on any non-2xx; a bad signature is answered with 400 and never applied.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.String(http.StatusBadRequest, "cannot read payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	err = h.webhookUseCase.Execute(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			c.String(http.StatusBadRequest, "signature verification failed")
			return
		}
		c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}
