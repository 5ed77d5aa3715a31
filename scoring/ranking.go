// Package scoring holds the pure aggregation rules: turning the score ledger
// into a ranking and finding near-ties at the award positions. Nothing in
// here touches storage; both entry points work on snapshots handed to them.
package scoring

import (
	"sort"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/storage"
)

const MaxScore = 10.0

type RankingRow struct {
	Rank           int     `json:"rank"`
	CompetitorID   int     `json:"competitorId"`
	CompetitorName string  `json:"competitorName"`
	AverageScore   float64 `json:"averageScore"`
	TotalScore     float64 `json:"totalScore"`
	ScoreCount     int     `json:"scoreCount"`
	JudgeCount     int     `json:"judgeCount"`
	BonusPoints    float64 `json:"bonusPoints,omitempty"`
}

// RankingFilter narrows the ledger snapshot before aggregation. The zero
// value means the full live ranking. A category filter naturally drops bonus
// entries because those carry no category.
type RankingFilter struct {
	CategoryID int
	From       time.Time
	Until      time.Time
}

func (f RankingFilter) matches(e *storage.ScoreEntry) bool {
	if f.CategoryID != 0 && e.CategoryID != f.CategoryID {
		return false
	}
	if !f.From.IsZero() && e.UpdatedAt.Before(f.From) {
		return false
	}
	if !f.Until.IsZero() && e.UpdatedAt.After(f.Until) {
		return false
	}
	return true
}

type aggregate struct {
	total  float64
	count  int
	judges map[int]struct{}
	bonus  float64
}

// ComputeRanking aggregates a ledger snapshot into ordered standings.
// Inactive competitors and competitors without a single judge score are left
// out. Averages are means of judge scores; bonus entries are added on top and
// the result is capped at MaxScore. Rank numbers are sequential (1, 2, 3, …)
// even across equal averages, so callers that care about ties must compare
// averages, not ranks.
func ComputeRanking(entries []*storage.ScoreEntry, competitors []*storage.Competitor, filter RankingFilter) []RankingRow {
	byID := make(map[int]*storage.Competitor, len(competitors))
	for _, c := range competitors {
		if c.Active {
			byID[c.ID] = c
		}
	}

	aggregates := make(map[int]*aggregate)
	for _, e := range entries {
		if _, ok := byID[e.CompetitorID]; !ok {
			continue
		}
		if !filter.matches(e) {
			continue
		}
		agg := aggregates[e.CompetitorID]
		if agg == nil {
			agg = &aggregate{judges: make(map[int]struct{})}
			aggregates[e.CompetitorID] = agg
		}
		switch e.Kind {
		case storage.ScoreKindBonus:
			agg.bonus += e.Value
		default:
			agg.total += e.Value
			agg.count++
			agg.judges[e.JudgeID] = struct{}{}
		}
	}

	rows := make([]RankingRow, 0, len(aggregates))
	for id, agg := range aggregates {
		if agg.count == 0 {
			continue
		}
		average := agg.total/float64(agg.count) + agg.bonus
		if average > MaxScore {
			average = MaxScore
		}
		rows = append(rows, RankingRow{
			CompetitorID:   id,
			CompetitorName: byID[id].Name,
			AverageScore:   average,
			TotalScore:     agg.total,
			ScoreCount:     agg.count,
			JudgeCount:     len(agg.judges),
			BonusPoints:    agg.bonus,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageScore != rows[j].AverageScore {
			return rows[i].AverageScore > rows[j].AverageScore
		}
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].CompetitorID < rows[j].CompetitorID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
