package models

import (
	"time"
)

// OddsSnapshot is one slot of the two-slot odds cache. Slot IDs are small
// fixed integers: odd slot = current, odd slot + 1 = previous, one pair per
// snapshot group. The payload is the raw provider-shaped JSON
// {"response": [...]}.
type OddsSnapshot struct {
	SlotID      int       `gorm:"primaryKey;autoIncrement:false;column:slot_id" json:"slot_id"`
	Payload     string    `gorm:"type:jsonb;not null" json:"payload"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`
}

// TableName specifies the table name for OddsSnapshot model
func (OddsSnapshot) TableName() string {
	return "match_odds_cache"
}
