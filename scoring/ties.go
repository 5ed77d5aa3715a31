package scoring

import (
	"fmt"
	"math"
	"sort"
)

type TieGroup struct {
	Position      int     `json:"position"`
	Score         float64 `json:"score"`
	CompetitorIDs []int   `json:"competitorIds"`
}

// DetectTies walks the top N award positions of a ranking and reports groups
// of competitors whose averages, rounded to the given number of decimals,
// collide. The whole ranking is searched for members of a group, not just the
// top N, so a competitor sitting below the cut still joins a tie at an award
// position. Each competitor lands in at most one group per pass.
func DetectTies(rows []RankingRow, topN, precision int) []TieGroup {
	if topN <= 0 || len(rows) == 0 {
		return nil
	}

	factor := math.Pow(10, float64(precision))
	rounded := make([]float64, len(rows))
	for i, row := range rows {
		rounded[i] = math.Round(row.AverageScore*factor) / factor
	}

	var groups []TieGroup
	consumed := make(map[int]bool, len(rows))

	limit := topN
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if consumed[rows[i].CompetitorID] {
			continue
		}

		var members []int
		for j := i; j < len(rows); j++ {
			if rounded[j] == rounded[i] && !consumed[rows[j].CompetitorID] {
				members = append(members, rows[j].CompetitorID)
			}
		}

		if len(members) > 1 {
			groups = append(groups, TieGroup{
				Position:      rows[i].Rank,
				Score:         rounded[i],
				CompetitorIDs: members,
			})
		}
		for _, id := range members {
			consumed[id] = true
		}
	}
	return groups
}

// BonusSchedule maps a contested award position to the bonus granted to the
// tiebreaker winner at that position.
type BonusSchedule map[int]float64

// Validate rejects schedules where a lower award position grants less than a
// higher one; position 1 must pay at least as much as position 2, and so on.
func (s BonusSchedule) Validate() error {
	positions := make([]int, 0, len(s))
	for p := range s {
		if p < 1 {
			return fmt.Errorf("bonus schedule position %d is not a valid award position", p)
		}
		positions = append(positions, p)
	}
	sort.Ints(positions)

	for i := 1; i < len(positions); i++ {
		if s[positions[i]] > s[positions[i-1]] {
			return fmt.Errorf("bonus schedule must be non-increasing: position %d pays %.2f, position %d pays %.2f",
				positions[i-1], s[positions[i-1]], positions[i], s[positions[i]])
		}
	}
	return nil
}

// ForPosition returns the configured bonus, or zero for positions outside the
// schedule.
func (s BonusSchedule) ForPosition(position int) float64 {
	return s[position]
}
