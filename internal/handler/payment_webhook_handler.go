package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"trixtech/config"
	"trixtech/internal/service"
	"trixtech/pkg/stripe"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookHandler struct {
	paymentSvc *service.PaymentService
	cfg        *config.StripeConfig
}

func NewPaymentWebhookHandler(paymentSvc *service.PaymentService, cfg *config.StripeConfig) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{paymentSvc: paymentSvc, cfg: cfg}
}

// Handle is POST /webhooks/stripe. The signature is verified before any
// event is trusted. Processing errors return non-2xx so the gateway
// redelivers; the event application is idempotent, so replays are safe.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	event, err := stripe.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.cfg.WebhookSecret, h.cfg.WebhookTolerance)
	if err != nil {
		if errors.Is(err, stripe.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}
	if err := h.paymentSvc.HandleEvent(event); err != nil {
		log.Printf("[WEBHOOK] %s: %v", event.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
