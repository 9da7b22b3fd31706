package models

import (
	"time"
)

// MatchBlock records that one player has prevented another from betting on a
// fixture for the current league week. The composite unique index is the
// backstop for the one-block-per-pair-per-week rule; quota accounting lives
// on the blocker's profile.
type MatchBlock struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	LeagueID         uint      `gorm:"not null;uniqueIndex:idx_block_pair_week" json:"league_id"`
	Week             int       `gorm:"not null;uniqueIndex:idx_block_pair_week" json:"week"`
	BlockerProfileID uint      `gorm:"not null;uniqueIndex:idx_block_pair_week" json:"blocker_profile_id"`
	BlockedProfileID uint      `gorm:"not null;uniqueIndex:idx_block_pair_week;index" json:"blocked_profile_id"`
	FixtureID        int64     `gorm:"not null;index" json:"fixture_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName specifies the table name for MatchBlock model
func (MatchBlock) TableName() string {
	return "match_blocks"
}
