package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"betleague/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recognized settings keys. Anything else in the betting_settings table is
// ignored on load and never written back.
const (
	KeySelectionsEnabled   = "enable_selecciones"
	KeyLiveMatchesEnabled  = "live_matches_enabled"
	KeyCutoffMinutes       = "betting_cutoff_minutes"
	KeyLiveLeagues         = "live_leagues"
	KeyEnabledTeams        = "enabled_teams"
	KeyMaxBlocksPerWeek    = "max_blocks_per_week"
	KeyMinBiddableFixtures = "min_biddable_fixtures"
)

// BettingSettings is the typed view over the betting_settings key-value
// table. Call sites receive this struct instead of doing stringly-typed
// lookups of their own.
type BettingSettings struct {
	SelectionsEnabled   bool    `json:"selections_enabled"`
	LiveMatchesEnabled  bool    `json:"live_matches_enabled"`
	CutoffMinutes       int     `json:"cutoff_minutes"`
	LiveLeagueIDs       []int64 `json:"live_league_ids"`
	EnabledTeamIDs      []int64 `json:"enabled_team_ids"`
	MaxBlocksPerWeek    int     `json:"max_blocks_per_week"`
	MinBiddableFixtures int     `json:"min_biddable_fixtures"`
}

// SettingsService loads and saves the typed settings
type SettingsService struct {
	db       *gorm.DB
	defaults BettingSettings
}

func NewSettingsService(db *gorm.DB, defaultCutoffMinutes int) *SettingsService {
	return &SettingsService{
		db: db,
		defaults: BettingSettings{
			SelectionsEnabled:   true,
			LiveMatchesEnabled:  false,
			CutoffMinutes:       defaultCutoffMinutes,
			MaxBlocksPerWeek:    3,
			MinBiddableFixtures: 3,
		},
	}
}

// Load reads the settings table and parses the recognized keys over the
// defaults. Unknown keys and unparseable values are ignored.
func (s *SettingsService) Load(ctx context.Context) (*BettingSettings, error) {
	var rows []models.BettingSetting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load betting settings: %w", err)
	}

	settings := s.defaults
	for _, row := range rows {
		switch row.Key {
		case KeySelectionsEnabled:
			parseBoolSetting(row, &settings.SelectionsEnabled)
		case KeyLiveMatchesEnabled:
			parseBoolSetting(row, &settings.LiveMatchesEnabled)
		case KeyCutoffMinutes:
			parseIntSetting(row, &settings.CutoffMinutes)
		case KeyLiveLeagues:
			settings.LiveLeagueIDs = parseIDList(row.Value)
		case KeyEnabledTeams:
			settings.EnabledTeamIDs = parseIDList(row.Value)
		case KeyMaxBlocksPerWeek:
			parseIntSetting(row, &settings.MaxBlocksPerWeek)
		case KeyMinBiddableFixtures:
			parseIntSetting(row, &settings.MinBiddableFixtures)
		}
	}

	return &settings, nil
}

// Save writes every recognized key back in string form
func (s *SettingsService) Save(ctx context.Context, settings *BettingSettings) error {
	rows := []models.BettingSetting{
		{Key: KeySelectionsEnabled, Value: strconv.FormatBool(settings.SelectionsEnabled)},
		{Key: KeyLiveMatchesEnabled, Value: strconv.FormatBool(settings.LiveMatchesEnabled)},
		{Key: KeyCutoffMinutes, Value: strconv.Itoa(settings.CutoffMinutes)},
		{Key: KeyLiveLeagues, Value: formatIDList(settings.LiveLeagueIDs)},
		{Key: KeyEnabledTeams, Value: formatIDList(settings.EnabledTeamIDs)},
		{Key: KeyMaxBlocksPerWeek, Value: strconv.Itoa(settings.MaxBlocksPerWeek)},
		{Key: KeyMinBiddableFixtures, Value: strconv.Itoa(settings.MinBiddableFixtures)},
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save betting settings: %w", err)
	}
	return nil
}

func parseBoolSetting(row models.BettingSetting, dst *bool) {
	v, err := strconv.ParseBool(strings.TrimSpace(row.Value))
	if err != nil {
		log.Printf("Ignoring unparseable setting %s=%q", row.Key, row.Value)
		return
	}
	*dst = v
}

func parseIntSetting(row models.BettingSetting, dst *int) {
	v, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil {
		log.Printf("Ignoring unparseable setting %s=%q", row.Key, row.Value)
		return
	}
	*dst = v
}

func parseIDList(value string) []int64 {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func formatIDList(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
