package odds

import (
	"context"
	"strconv"
	"strings"

	"betleague/internal/sportsdata"
)

// marketAliases translates display market names to the candidate names the
// provider actually uses. Upstream naming is inconsistent across providers
// and competitions, so one display name can map to several upstream names.
var marketAliases = map[string][]string{
	"Ganador del Partido":     {"Match Winner", "1X2", "Full Time Result"},
	"Doble Oportunidad":       {"Double Chance"},
	"Ambos Equipos Marcan":    {"Both Teams Score", "Both Teams To Score"},
	"Goles Más/Menos":         {"Goals Over/Under", "Over/Under", "Total Goals"},
	"Resultado Exacto":        {"Exact Score", "Correct Score"},
	"Resultado + Total Goles": {"Results/Total Goals", "Result/Total Goals", "Match Result and Total Goals"},
	"Ganador Primer Tiempo":   {"First Half Winner", "1st Half Winner"},
	"Par/Impar Goles":         {"Odd/Even", "Goals Odd/Even"},
}

// Delta is the result of one diff lookup. Nil means the odd was not found in
// that snapshot; the caller renders direction from the pair.
type Delta struct {
	Current  *float64 `json:"current"`
	Previous *float64 `json:"previous"`
}

// candidateMarkets returns the upstream names to try for a display market
// name. The display name itself is always a candidate.
func candidateMarkets(displayMarket string) []string {
	candidates := []string{displayMarket}
	for _, alias := range marketAliases[displayMarket] {
		if alias != displayMarket {
			candidates = append(candidates, alias)
		}
	}
	return candidates
}

// expandSelections generates the known upstream phrasing variants of a
// selection string: "Home" vs "Home Win", "Over 2.5" vs "Over2.5", and "/"
// vs " / " as compound separator.
func expandSelections(selection string) []string {
	parts := strings.Split(selection, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	variantsPerPart := make([][]string, len(parts))
	for i, part := range parts {
		variantsPerPart[i] = partVariants(part)
	}

	// Cartesian product of the part variants, joined with both separators
	combos := [][]string{{}}
	for _, variants := range variantsPerPart {
		var next [][]string
		for _, combo := range combos {
			for _, v := range variants {
				joined := make([]string, len(combo), len(combo)+1)
				copy(joined, combo)
				next = append(next, append(joined, v))
			}
		}
		combos = next
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(selection)
	for _, combo := range combos {
		if len(combo) == 1 {
			add(combo[0])
			continue
		}
		add(strings.Join(combo, "/"))
		add(strings.Join(combo, " / "))
	}
	return out
}

// partVariants returns the phrasing variants of one selection component
func partVariants(part string) []string {
	variants := []string{part}
	switch part {
	case "Home":
		variants = append(variants, "Home Win", "1")
	case "Away":
		variants = append(variants, "Away Win", "2")
	case "Draw":
		variants = append(variants, "X")
	}
	if strings.HasPrefix(part, "Over ") || strings.HasPrefix(part, "Under ") {
		variants = append(variants, strings.ReplaceAll(part, " ", ""))
	}
	return variants
}

// Lookup resolves the current and previous odds for a fixture, display
// market name and selection. Groups are scanned in LookupPrecedence order
// and the scan stops at the first group where the fixture appears in either
// slot, even when no odd is found there.
func (s *Store) Lookup(ctx context.Context, fixtureID int64, displayMarket, selection string) (Delta, error) {
	return s.LookupInGroups(ctx, LookupPrecedence, fixtureID, displayMarket, selection)
}

// LookupLive resolves odds against the live-matches group only
func (s *Store) LookupLive(ctx context.Context, fixtureID int64, displayMarket, selection string) (Delta, error) {
	return s.LookupInGroups(ctx, []Group{GroupLive}, fixtureID, displayMarket, selection)
}

// LookupInGroups is Lookup with an explicit group precedence
func (s *Store) LookupInGroups(ctx context.Context, groups []Group, fixtureID int64, displayMarket, selection string) (Delta, error) {
	markets := candidateMarkets(displayMarket)
	selections := expandSelections(selection)

	for _, group := range groups {
		current, err := s.Current(ctx, group)
		if err != nil {
			return Delta{}, err
		}
		previous, err := s.Previous(ctx, group)
		if err != nil {
			return Delta{}, err
		}

		curMatch := findMatch(current, fixtureID)
		prevMatch := findMatch(previous, fixtureID)
		if curMatch == nil && prevMatch == nil {
			continue
		}

		return Delta{
			Current:  findOdd(curMatch, markets, selections),
			Previous: findOdd(prevMatch, markets, selections),
		}, nil
	}

	return Delta{}, nil
}

func findMatch(snap *Snapshot, fixtureID int64) *sportsdata.Match {
	if snap == nil {
		return nil
	}
	for i := range snap.Payload.Response {
		if snap.Payload.Response[i].Fixture.ID == fixtureID {
			return &snap.Payload.Response[i]
		}
	}
	return nil
}

// findOdd scans every bookmaker, candidate market name and candidate
// selection string in source order and returns the first numeric odd found.
func findOdd(match *sportsdata.Match, markets, selections []string) *float64 {
	if match == nil {
		return nil
	}
	for _, bookmaker := range match.Bookmakers {
		for _, bet := range bookmaker.Bets {
			if !containsString(markets, bet.Name) {
				continue
			}
			for _, value := range bet.Values {
				if !containsString(selections, value.Value) {
					continue
				}
				odd, err := strconv.ParseFloat(value.Odd, 64)
				if err != nil {
					continue
				}
				return &odd
			}
		}
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
