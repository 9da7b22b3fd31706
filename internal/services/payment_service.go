package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"betleague/internal/models"
	"betleague/internal/paypal"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidDiscountCode = errors.New("discount code is invalid or exhausted")
	ErrUnknownOrder        = errors.New("no payment recorded for this order")
)

// OrdersAPI is the slice of the PayPal client the payment service needs
type OrdersAPI interface {
	CreateOrder(ctx context.Context, amount paypal.Amount, customID string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
}

// CustomPayload is the JSON document carried in PayPal's opaque custom_id
type CustomPayload struct {
	UserID       uint   `json:"user_id"`
	LeagueID     uint   `json:"league_id"`
	PaymentType  string `json:"payment_type"`
	DiscountCode string `json:"discount_code,omitempty"`
}

// PaymentService handles the PayPal order lifecycle and discount codes.
// A captured premium-upgrade payment flips the league to premium.
type PaymentService struct {
	db       *gorm.DB
	orders   OrdersAPI
	price    decimal.Decimal
	currency string
}

func NewPaymentService(db *gorm.DB, orders OrdersAPI, premiumPrice decimal.Decimal, currency string) *PaymentService {
	return &PaymentService{
		db:       db,
		orders:   orders,
		price:    premiumPrice,
		currency: currency,
	}
}

// VerifyDiscountCode returns the code when it is active and not exhausted
func (s *PaymentService) VerifyDiscountCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	err := s.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(&discount).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrInvalidDiscountCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load discount code: %w", err)
	}
	if discount.MaxUses > 0 && discount.Uses >= discount.MaxUses {
		return nil, ErrInvalidDiscountCode
	}
	return &discount, nil
}

// IncrementDiscountUsage consumes one use of a code; the condition keeps an
// exhausted code from going over its cap under concurrent captures.
func (s *PaymentService) IncrementDiscountUsage(ctx context.Context, tx *gorm.DB, code string) error {
	if tx == nil {
		tx = s.db.WithContext(ctx)
	}
	result := tx.Model(&models.DiscountCode{}).
		Where("code = ? AND active = ? AND (max_uses = 0 OR uses < max_uses)", code, true).
		Update("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment discount usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidDiscountCode
	}
	return nil
}

// CreateOrder creates a PayPal order for a premium upgrade, applying a
// verified discount code, and records the pending payment.
func (s *PaymentService) CreateOrder(ctx context.Context, profileID uint, paymentType, discountCode string) (*paypal.Order, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("League").First(&profile, profileID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	amount := s.price
	var codePtr *string
	if discountCode != "" {
		discount, err := s.VerifyDiscountCode(ctx, discountCode)
		if err != nil {
			return nil, err
		}
		off := amount.Mul(decimal.NewFromInt(int64(discount.PercentOff))).Div(decimal.NewFromInt(100))
		amount = amount.Sub(off).Round(2)
		codePtr = &discount.Code
	}

	payload := CustomPayload{
		UserID:       profile.ID,
		LeagueID:     profile.LeagueID,
		PaymentType:  paymentType,
		DiscountCode: discountCode,
	}
	customID, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode custom id: %w", err)
	}

	order, err := s.orders.CreateOrder(ctx, paypal.Amount{
		CurrencyCode: s.currency,
		Value:        amount.StringFixed(2),
	}, string(customID))
	if err != nil {
		return nil, fmt.Errorf("failed to create PayPal order: %w", err)
	}

	payment := models.Payment{
		OrderID:      order.ID,
		Reference:    uuid.NewString(),
		ProfileID:    profile.ID,
		LeagueID:     profile.LeagueID,
		PaymentType:  paymentType,
		Amount:       amount,
		Currency:     s.currency,
		Status:       models.PaymentStatusCreated,
		DiscountCode: codePtr,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return order, nil
}

// CaptureOrder captures an approved order and applies the purchase
func (s *PaymentService) CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	order, err := s.orders.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture order: %w", err)
	}
	if order.Status == "COMPLETED" {
		if err := s.applyCapture(ctx, order.ID, ""); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// HandleWebhook processes a PAYMENT.CAPTURE.COMPLETED event. The capture is
// resolved to a recorded payment through whichever identifier the event
// carries: the related order id directly, or the custom id set at order
// creation. When only the order id is present the order is fetched to
// re-derive the custom id. Other event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, event *paypal.WebhookEvent) error {
	if event.EventType != paypal.EventCaptureCompleted {
		log.Printf("Ignoring PayPal webhook event %s", event.EventType)
		return nil
	}

	orderID := event.Resource.SupplementaryData.RelatedIDs.OrderID
	if event.Resource.CustomID == "" && orderID != "" {
		order, err := s.orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to re-derive custom id: %w", err)
		}
		if len(order.PurchaseUnits) > 0 {
			event.Resource.CustomID = order.PurchaseUnits[0].CustomID
		}
	}

	if orderID == "" {
		var err error
		orderID, err = s.orderIDFromCustomID(ctx, event.Resource.CustomID)
		if err != nil {
			return err
		}
	}
	return s.applyCapture(ctx, orderID, event.Resource.ID)
}

// orderIDFromCustomID resolves the order for an event that carries only the
// custom id. The payload pins the profile, league and payment type; the most
// recent payment matching them is the one being captured.
func (s *PaymentService) orderIDFromCustomID(ctx context.Context, customID string) (string, error) {
	if customID == "" {
		return "", ErrUnknownOrder
	}

	var payload CustomPayload
	if err := json.Unmarshal([]byte(customID), &payload); err != nil {
		return "", fmt.Errorf("failed to decode custom id: %w", err)
	}

	var payment models.Payment
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND league_id = ? AND payment_type = ?",
			payload.UserID, payload.LeagueID, payload.PaymentType).
		Order("id DESC").
		First(&payment).Error
	if err == gorm.ErrRecordNotFound {
		return "", ErrUnknownOrder
	}
	if err != nil {
		return "", fmt.Errorf("failed to locate payment: %w", err)
	}
	return payment.OrderID, nil
}

// applyCapture marks the payment captured and applies its effect. Idempotent
// on already-captured payments so webhook redelivery is harmless.
func (s *PaymentService) applyCapture(ctx context.Context, orderID, captureID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.Where("order_id = ?", orderID).First(&payment).Error
		if err == gorm.ErrRecordNotFound {
			return ErrUnknownOrder
		}
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		if payment.Status == models.PaymentStatusCaptured {
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      models.PaymentStatusCaptured,
			"captured_at": now,
		}
		if captureID != "" {
			updates["capture_id"] = captureID
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark payment captured: %w", err)
		}

		if payment.DiscountCode != nil {
			if err := s.IncrementDiscountUsage(ctx, tx, *payment.DiscountCode); err != nil && !errors.Is(err, ErrInvalidDiscountCode) {
				return err
			}
		}

		if payment.PaymentType == models.PaymentTypePremiumUpgrade {
			if err := tx.Model(&models.League{}).Where("id = ?", payment.LeagueID).
				Update("type", models.LeagueTypePremium).Error; err != nil {
				return fmt.Errorf("failed to upgrade league: %w", err)
			}
		}
		return nil
	})
}
