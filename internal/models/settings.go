package models

import (
	"time"
)

// BettingSetting is one row of the generic key-value settings table. Call
// sites never read it directly; services.SettingsService parses the
// recognized keys into a typed struct.
type BettingSetting struct {
	Key       string    `gorm:"primaryKey;size:100;column:key" json:"key"`
	Value     string    `gorm:"size:500;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for BettingSetting model
func (BettingSetting) TableName() string {
	return "betting_settings"
}

// News is a league announcement written by an admin.
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LeagueID  uint      `gorm:"index;not null" json:"league_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for News model
func (News) TableName() string {
	return "news"
}
