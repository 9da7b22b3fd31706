package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"betleague/internal/models"
	"betleague/internal/paypal"

	"github.com/shopspring/decimal"
)

// fakeOrdersAPI records the orders created against it
type fakeOrdersAPI struct {
	nextID       int
	lastAmount   paypal.Amount
	lastCustomID string
	orders       map[string]string // order id -> custom id
}

func newFakeOrdersAPI() *fakeOrdersAPI {
	return &fakeOrdersAPI{orders: make(map[string]string)}
}

func (f *fakeOrdersAPI) CreateOrder(ctx context.Context, amount paypal.Amount, customID string) (*paypal.Order, error) {
	f.nextID++
	id := fmt.Sprintf("ORDER-%d", f.nextID)
	f.lastAmount = amount
	f.lastCustomID = customID
	f.orders[id] = customID
	return &paypal.Order{ID: id, Status: "CREATED"}, nil
}

func (f *fakeOrdersAPI) CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	if _, ok := f.orders[orderID]; !ok {
		return nil, fmt.Errorf("unknown order %s", orderID)
	}
	return &paypal.Order{ID: orderID, Status: "COMPLETED"}, nil
}

func (f *fakeOrdersAPI) GetOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	customID, ok := f.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("unknown order %s", orderID)
	}
	return &paypal.Order{
		ID:            orderID,
		Status:        "COMPLETED",
		PurchaseUnits: []paypal.PurchaseUnit{{CustomID: customID}},
	}, nil
}

func setupPaymentTest(t *testing.T) (*PaymentService, *fakeOrdersAPI, *models.Profile, *models.League) {
	t.Helper()
	db := setupTestDB(t)
	league := createTestLeague(t, db, models.LeagueTypeFree)
	profile := createTestProfile(t, db, league, "ana")
	api := newFakeOrdersAPI()
	service := NewPaymentService(db, api, decimal.RequireFromString("29.99"), "EUR")
	return service, api, profile, league
}

func TestCreateOrderRecordsPendingPayment(t *testing.T) {
	service, api, profile, league := setupPaymentTest(t)
	ctx := context.Background()

	order, err := service.CreateOrder(ctx, profile.ID, models.PaymentTypePremiumUpgrade, "")
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if api.lastAmount.Value != "29.99" || api.lastAmount.CurrencyCode != "EUR" {
		t.Fatalf("unexpected amount %+v", api.lastAmount)
	}

	var payload CustomPayload
	if err := json.Unmarshal([]byte(api.lastCustomID), &payload); err != nil {
		t.Fatalf("custom id should be JSON, got %q", api.lastCustomID)
	}
	if payload.UserID != profile.ID || payload.LeagueID != league.ID {
		t.Fatalf("unexpected custom payload %+v", payload)
	}

	var payment models.Payment
	if err := service.db.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.Status != models.PaymentStatusCreated || payment.Reference == "" {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

func TestCreateOrderAppliesDiscount(t *testing.T) {
	service, api, profile, _ := setupPaymentTest(t)
	ctx := context.Background()

	code := models.DiscountCode{Code: "EARLY20", PercentOff: 20, Active: true}
	if err := service.db.Create(&code).Error; err != nil {
		t.Fatalf("failed to create code: %v", err)
	}

	if _, err := service.CreateOrder(ctx, profile.ID, models.PaymentTypePremiumUpgrade, "EARLY20"); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if api.lastAmount.Value != "23.99" { // 29.99 - 20%
		t.Fatalf("expected discounted amount 23.99, got %s", api.lastAmount.Value)
	}

	_, err := service.CreateOrder(ctx, profile.ID, models.PaymentTypePremiumUpgrade, "NOSUCHCODE")
	if !errors.Is(err, ErrInvalidDiscountCode) {
		t.Fatalf("expected ErrInvalidDiscountCode, got %v", err)
	}
}

func TestVerifyDiscountCodeExhausted(t *testing.T) {
	service, _, _, _ := setupPaymentTest(t)
	ctx := context.Background()

	code := models.DiscountCode{Code: "ONCE", PercentOff: 50, MaxUses: 1, Uses: 1, Active: true}
	if err := service.db.Create(&code).Error; err != nil {
		t.Fatalf("failed to create code: %v", err)
	}

	if _, err := service.VerifyDiscountCode(ctx, "ONCE"); !errors.Is(err, ErrInvalidDiscountCode) {
		t.Fatalf("exhausted code should be invalid, got %v", err)
	}

	// Unlimited codes never exhaust
	unlimited := models.DiscountCode{Code: "FOREVER", PercentOff: 10, MaxUses: 0, Uses: 99, Active: true}
	if err := service.db.Create(&unlimited).Error; err != nil {
		t.Fatalf("failed to create code: %v", err)
	}
	if _, err := service.VerifyDiscountCode(ctx, "FOREVER"); err != nil {
		t.Fatalf("unlimited code should verify, got %v", err)
	}
}

func TestCaptureOrderUpgradesLeague(t *testing.T) {
	service, _, profile, league := setupPaymentTestAndOrder(t)
	_ = profile
	ctx := context.Background()

	var payment models.Payment
	service.db.First(&payment)

	if _, err := service.CaptureOrder(ctx, payment.OrderID); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	var upgraded models.League
	service.db.First(&upgraded, league.ID)
	if upgraded.Type != models.LeagueTypePremium {
		t.Fatalf("league should be premium after capture, got %s", upgraded.Type)
	}

	service.db.Where("order_id = ?", payment.OrderID).First(&payment)
	if payment.Status != models.PaymentStatusCaptured {
		t.Fatalf("payment should be captured, got %s", payment.Status)
	}
}

func setupPaymentTestAndOrder(t *testing.T) (*PaymentService, *fakeOrdersAPI, *models.Profile, *models.League) {
	t.Helper()
	service, api, profile, league := setupPaymentTest(t)
	if _, err := service.CreateOrder(context.Background(), profile.ID, models.PaymentTypePremiumUpgrade, ""); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return service, api, profile, league
}

func TestWebhookCaptureIsIdempotent(t *testing.T) {
	service, _, _, league := setupPaymentTestAndOrder(t)
	ctx := context.Background()

	var payment models.Payment
	service.db.First(&payment)

	event := &paypal.WebhookEvent{EventType: paypal.EventCaptureCompleted}
	event.Resource.ID = "CAP-1"
	event.Resource.SupplementaryData.RelatedIDs.OrderID = payment.OrderID

	if err := service.HandleWebhook(ctx, event); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}
	// Redelivery of the same event must not fail or double-apply
	if err := service.HandleWebhook(ctx, event); err != nil {
		t.Fatalf("webhook redelivery failed: %v", err)
	}

	var upgraded models.League
	service.db.First(&upgraded, league.ID)
	if upgraded.Type != models.LeagueTypePremium {
		t.Fatalf("league should be premium, got %s", upgraded.Type)
	}
}

func TestWebhookResolvesPaymentFromCustomIDAlone(t *testing.T) {
	service, api, _, league := setupPaymentTestAndOrder(t)
	ctx := context.Background()

	// Some capture events carry only the custom id, no related order id
	event := &paypal.WebhookEvent{EventType: paypal.EventCaptureCompleted}
	event.Resource.ID = "CAP-2"
	event.Resource.CustomID = api.lastCustomID

	if err := service.HandleWebhook(ctx, event); err != nil {
		t.Fatalf("webhook with custom id only failed: %v", err)
	}

	var payment models.Payment
	service.db.First(&payment)
	if payment.Status != models.PaymentStatusCaptured {
		t.Fatalf("payment should be captured, got %s", payment.Status)
	}
	var upgraded models.League
	service.db.First(&upgraded, league.ID)
	if upgraded.Type != models.LeagueTypePremium {
		t.Fatalf("league should be premium, got %s", upgraded.Type)
	}
}

func TestWebhookCustomIDWithoutRecordedPayment(t *testing.T) {
	service, _, _, _ := setupPaymentTest(t)

	event := &paypal.WebhookEvent{EventType: paypal.EventCaptureCompleted}
	event.Resource.CustomID = `{"user_id":999,"league_id":999,"payment_type":"premium_upgrade"}`

	err := service.HandleWebhook(context.Background(), event)
	if !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	service, _, _, _ := setupPaymentTest(t)

	event := &paypal.WebhookEvent{EventType: "CHECKOUT.ORDER.APPROVED"}
	if err := service.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("non-capture events should be acknowledged, got %v", err)
	}
}

func TestWebhookUnknownOrder(t *testing.T) {
	service, api, _, _ := setupPaymentTest(t)

	api.orders["ORDER-GHOST"] = "{}"
	event := &paypal.WebhookEvent{EventType: paypal.EventCaptureCompleted}
	event.Resource.SupplementaryData.RelatedIDs.OrderID = "ORDER-GHOST"

	err := service.HandleWebhook(context.Background(), event)
	if !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
}
