// Package ranking derives the composite opportunity score and keeps the
// dashboard's view of the universe fresh on a polling cadence.
package ranking

import (
	"math"
	"sort"

	"github.com/marketlens/marketlens/internal/models"
)

// Score computes the composite opportunity score for a record:
//
//	|percentFromHigh| + mspr*10
//
// with nil fields treated as zero. A larger score means more beaten-down
// price plus stronger insider buying, i.e. a higher-priority opportunity.
func Score(o models.Opportunity) float64 {
	var score float64
	if o.PercentFromHigh != nil {
		score += math.Abs(*o.PercentFromHigh)
	}
	if o.InsiderSentiment != nil {
		score += o.InsiderSentiment.MSPR * 10
	}
	return score
}

// Best returns the record with the highest score, or nil for an empty
// slice.
func Best(opportunities []models.Opportunity) *models.Opportunity {
	var best *models.Opportunity
	for i := range opportunities {
		if best == nil || Score(opportunities[i]) > Score(*best) {
			best = &opportunities[i]
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

// ByDrawdown returns a copy sorted ascending by percent from high, so the
// biggest drawdowns come first. Records with no percent are treated as 0
// and land at the top of the sort range among gainers.
func ByDrawdown(opportunities []models.Opportunity) []models.Opportunity {
	sorted := make([]models.Opportunity, len(opportunities))
	copy(sorted, opportunities)

	pct := func(o models.Opportunity) float64 {
		if o.PercentFromHigh == nil {
			return 0
		}
		return *o.PercentFromHigh
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return pct(sorted[i]) < pct(sorted[j])
	})

	return sorted
}
