package odds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"betleague/internal/models"
	"betleague/internal/sportsdata"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Payload is the JSON document stored in one cache slot, provider-shaped
type Payload struct {
	Response []sportsdata.Match `json:"response"`
}

// Snapshot pairs a decoded payload with the time it was written
type Snapshot struct {
	Payload     Payload
	LastUpdated time.Time
}

// Store maintains the two-slot odds cache. Every group keeps exactly one
// step of lookback: previous is always the verbatim prior value of current.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Rotate copies the group's current slot into its previous slot unchanged
// (payload and timestamp), then overwrites current with the new payload and a
// fresh timestamp. An empty payload still overwrites current so stale odds
// never linger.
func (s *Store) Rotate(ctx context.Context, group Group, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.OddsSnapshot
		err := tx.Where("slot_id = ?", group.CurrentSlot).First(&current).Error
		switch {
		case err == nil:
			previous := models.OddsSnapshot{
				SlotID:      group.PreviousSlot,
				Payload:     current.Payload,
				LastUpdated: current.LastUpdated,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&previous).Error; err != nil {
				return fmt.Errorf("failed to write previous slot %d: %w", group.PreviousSlot, err)
			}
		case err == gorm.ErrRecordNotFound:
			// First refresh for this group, nothing to rotate
		default:
			return fmt.Errorf("failed to read current slot %d: %w", group.CurrentSlot, err)
		}

		next := models.OddsSnapshot{
			SlotID:      group.CurrentSlot,
			Payload:     string(raw),
			LastUpdated: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&next).Error; err != nil {
			return fmt.Errorf("failed to write current slot %d: %w", group.CurrentSlot, err)
		}
		return nil
	})
}

// Current returns the group's current snapshot, or nil if never refreshed
func (s *Store) Current(ctx context.Context, group Group) (*Snapshot, error) {
	return s.load(ctx, group.CurrentSlot)
}

// Previous returns the group's previous snapshot, or nil if none exists
func (s *Store) Previous(ctx context.Context, group Group) (*Snapshot, error) {
	return s.load(ctx, group.PreviousSlot)
}

func (s *Store) load(ctx context.Context, slotID int) (*Snapshot, error) {
	var row models.OddsSnapshot
	err := s.db.WithContext(ctx).Where("slot_id = ?", slotID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %d: %w", slotID, err)
	}

	var payload Payload
	if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
		return nil, fmt.Errorf("corrupt payload in slot %d: %w", slotID, err)
	}

	return &Snapshot{Payload: payload, LastUpdated: row.LastUpdated}, nil
}

// UpcomingFixtureCount counts the distinct fixtures currently cached across
// the pre-match groups. The match-block floor check uses it to decide how
// many biddable fixtures a blocked player has left.
func (s *Store) UpcomingFixtureCount(ctx context.Context) (int, error) {
	seen := make(map[int64]bool)
	for _, group := range PrematchGroups {
		snap, err := s.Current(ctx, group)
		if err != nil {
			return 0, err
		}
		if snap == nil {
			continue
		}
		for _, m := range snap.Payload.Response {
			if m.Fixture.ID != 0 {
				seen[m.Fixture.ID] = true
			}
		}
	}
	return len(seen), nil
}
