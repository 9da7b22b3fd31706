package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentStatusCreated  = "created"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

// Payment types
const (
	PaymentTypePremiumUpgrade = "premium_upgrade"
)

// Payment records one PayPal order lifecycle. OrderID is PayPal's order id;
// the capture id arrives with the PAYMENT.CAPTURE.COMPLETED webhook.
type Payment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      string          `gorm:"size:50;uniqueIndex;not null" json:"order_id"`
	Reference    string          `gorm:"size:36;uniqueIndex" json:"reference"`
	ProfileID    uint            `gorm:"index;not null" json:"profile_id"`
	LeagueID     uint            `gorm:"index;not null" json:"league_id"`
	PaymentType  string          `gorm:"size:50;not null" json:"payment_type"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency     string          `gorm:"size:3;default:EUR" json:"currency"`
	Status       string          `gorm:"size:20;default:created;index" json:"status"`
	DiscountCode *string         `gorm:"size:50" json:"discount_code,omitempty"`
	CaptureID    *string         `gorm:"size:50" json:"capture_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CapturedAt   *time.Time      `json:"captured_at,omitempty"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}

// DiscountCode is an admin-created code granting a percentage off a premium
// upgrade. Usage is counted so exhausted codes stop verifying.
type DiscountCode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	PercentOff int       `gorm:"not null" json:"percent_off"`
	MaxUses    int       `gorm:"default:0" json:"max_uses"` // 0 = unlimited
	Uses       int       `gorm:"default:0" json:"uses"`
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for DiscountCode model
func (DiscountCode) TableName() string {
	return "discount_codes"
}
