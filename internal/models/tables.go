package models

// MigrationTables lists every table the migration tools export, in dependency
// order so an import into a fresh database can replay them front to back. The
// names come from the models themselves so the tools cannot drift from the
// schema.
func MigrationTables() []string {
	return []string{
		League{}.TableName(),
		Profile{}.TableName(),
		BettingSetting{}.TableName(),
		Bet{}.TableName(),
		BetSelection{}.TableName(),
		MatchBlock{}.TableName(),
		MatchResult{}.TableName(),
		WeeklyPerformance{}.TableName(),
		News{}.TableName(),
		DiscountCode{}.TableName(),
		Payment{}.TableName(),
	}
}
