package handlers

import (
	"errors"
	"net/http"

	"betleague/internal/auth"
	"betleague/internal/models"
	"betleague/internal/paypal"
	"betleague/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// VerifyDiscount checks a discount code before checkout
func (h *PaymentHandler) VerifyDiscount(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	discount, err := h.paymentService.VerifyDiscountCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDiscountCode) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"code":        discount.Code,
		"percent_off": discount.PercentOff,
	})
}

// CreateOrder starts a PayPal checkout for a premium upgrade
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		DiscountCode string `json:"discount_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), profileID,
		models.PaymentTypePremiumUpgrade, req.DiscountCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDiscountCode) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// CaptureOrder captures an approved order after the payer returns
func (h *PaymentHandler) CaptureOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.paymentService.CaptureOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to capture order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// Webhook receives PayPal events. Always acknowledged with 200 unless the
// payload is unreadable, so PayPal does not retry forever on events we
// choose to ignore.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var event paypal.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), &event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
