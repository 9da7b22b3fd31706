package services

import (
	"strconv"
	"strings"

	"betleague/internal/models"
)

// Market families the grader understands. Market and selection names are
// free text from the odds provider, so each family lists the known
// phrasings, display-language names included.
var (
	matchWinnerMarkets = []string{
		"Match Winner", "1X2", "Full Time Result", "Ganador del Partido",
	}
	doubleChanceMarkets = []string{
		"Double Chance", "Doble Oportunidad",
	}
	overUnderMarkets = []string{
		"Goals Over/Under", "Over/Under", "Total Goals", "Goles Más/Menos",
	}
	bothTeamsScoreMarkets = []string{
		"Both Teams Score", "Both Teams To Score", "Ambos Equipos Marcan",
	}
	resultTotalMarkets = []string{
		"Results/Total Goals", "Result/Total Goals",
		"Match Result and Total Goals", "Resultado + Total Goles",
	}
)

// gradeSelection decides whether one leg won against a final score. The
// second return is false when the market family is unknown, in which case
// the leg stays pending for an administrative verdict.
func gradeSelection(sel models.BetSelection, res *models.MatchResult) (bool, bool) {
	switch {
	case containsString(matchWinnerMarkets, sel.Market):
		return gradeWinner(sel.Selection, res)
	case containsString(doubleChanceMarkets, sel.Market):
		return gradeDoubleChance(sel.Selection, res)
	case containsString(overUnderMarkets, sel.Market):
		return gradeOverUnder(sel.Selection, res)
	case containsString(bothTeamsScoreMarkets, sel.Market):
		return gradeBothTeamsScore(sel.Selection, res)
	case containsString(resultTotalMarkets, sel.Market):
		return gradeResultTotal(sel.Selection, res)
	default:
		return false, false
	}
}

func gradeWinner(selection string, res *models.MatchResult) (bool, bool) {
	switch selection {
	case "Home", "Home Win", "1":
		return res.HomeGoals > res.AwayGoals, true
	case "Away", "Away Win", "2":
		return res.AwayGoals > res.HomeGoals, true
	case "Draw", "X":
		return res.HomeGoals == res.AwayGoals, true
	}
	return false, false
}

func gradeDoubleChance(selection string, res *models.MatchResult) (bool, bool) {
	switch strings.ReplaceAll(selection, " ", "") {
	case "Home/Draw", "1X", "HomeorDraw":
		return res.HomeGoals >= res.AwayGoals, true
	case "Draw/Away", "X2", "DraworAway":
		return res.AwayGoals >= res.HomeGoals, true
	case "Home/Away", "12", "HomeorAway":
		return res.HomeGoals != res.AwayGoals, true
	}
	return false, false
}

func gradeOverUnder(selection string, res *models.MatchResult) (bool, bool) {
	normalized := strings.ReplaceAll(selection, " ", "")
	total := float64(res.HomeGoals + res.AwayGoals)

	switch {
	case strings.HasPrefix(normalized, "Over"):
		line, err := strconv.ParseFloat(strings.TrimPrefix(normalized, "Over"), 64)
		if err != nil {
			return false, false
		}
		return total > line, true
	case strings.HasPrefix(normalized, "Under"):
		line, err := strconv.ParseFloat(strings.TrimPrefix(normalized, "Under"), 64)
		if err != nil {
			return false, false
		}
		return total < line, true
	}
	return false, false
}

func gradeBothTeamsScore(selection string, res *models.MatchResult) (bool, bool) {
	both := res.HomeGoals > 0 && res.AwayGoals > 0
	switch selection {
	case "Yes", "Sí", "Si":
		return both, true
	case "No":
		return !both, true
	}
	return false, false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// gradeResultTotal grades compound "result + total goals" selections like
// "Home/Over 2.5"; both halves must win.
func gradeResultTotal(selection string, res *models.MatchResult) (bool, bool) {
	parts := strings.Split(selection, "/")
	if len(parts) != 2 {
		return false, false
	}

	winnerWon, ok := gradeWinner(strings.TrimSpace(parts[0]), res)
	if !ok {
		return false, false
	}
	totalWon, ok := gradeOverUnder(strings.TrimSpace(parts[1]), res)
	if !ok {
		return false, false
	}
	return winnerWon && totalWon, true
}
