package newsapi

import (
	"strings"
	"time"

	"github.com/marketlens/marketlens/internal/models"
)

// scoreKeywords is the fixed term list used for relevance scoring. Terms
// are matched as-is against the lowercased title and description, so "AI"
// never matches at this stage; it only contributes via the primary
// keyword bonus when it is the lookup keyword. Changing the matching
// would reorder scores for existing consumers.
var scoreKeywords = []string{
	"artificial intelligence",
	"AI",
	"machine learning",
	"deep learning",
	"neural networks",
	"robotics",
	"innovation",
	"technology",
}

// recencyWindowDays is the age at which the freshness bonus decays to zero.
const recencyWindowDays = 5

// RelevanceScore computes the deterministic relevance heuristic for an
// article against a lookup keyword:
//
//   - +5 when the keyword appears (case-insensitively) in the title or
//     description;
//   - +2 / +1 per fixed-list term found in the title / description;
//   - a freshness bonus of max(0, 5 - age in days), linear to zero at
//     five days old.
func RelevanceScore(article models.NewsArticle, keyword string, now time.Time) float64 {
	var score float64

	lowerTitle := strings.ToLower(article.Title)
	lowerDescription := strings.ToLower(article.Description)
	lowerKeyword := strings.ToLower(keyword)

	if strings.Contains(lowerTitle, lowerKeyword) || strings.Contains(lowerDescription, lowerKeyword) {
		score += 5
	}

	for _, term := range scoreKeywords {
		if strings.Contains(lowerTitle, term) {
			score += 2
		}
		if strings.Contains(lowerDescription, term) {
			score += 1
		}
	}

	daysSincePublished := now.Sub(article.PublishedAt).Hours() / 24
	if bonus := recencyWindowDays - daysSincePublished; bonus > 0 {
		score += bonus
	}

	return score
}
