package models

import "time"

// Stock holds the per-symbol quote and 52-week-high snapshot.
// All numeric fields are nil when the upstream fetch failed, so a
// single bad symbol never poisons the rest of the universe.
type Stock struct {
	Symbol          string   `json:"symbol"`
	CurrentPrice    *float64 `json:"currentPrice"`
	AllTimeHigh     *float64 `json:"allTimeHigh"`
	PercentFromHigh *float64 `json:"percentFromHigh"`
}

// InsiderSentiment is one month of reported insider sentiment for a symbol.
// MSPR is the provider's monthly share purchase ratio; positive values
// indicate net insider buying.
type InsiderSentiment struct {
	Symbol string  `json:"symbol"`
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Change float64 `json:"change"`
	MSPR   float64 `json:"mspr"`
}

// NewsSource identifies the publisher of an article.
type NewsSource struct {
	Name string `json:"name"`
}

// NewsArticle is a single news item with its computed relevance score.
// RelevanceScore is derived locally, not provided by the news API.
type NewsArticle struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	URL            string     `json:"url"`
	URLToImage     string     `json:"urlToImage"`
	PublishedAt    time.Time  `json:"publishedAt"`
	Source         NewsSource `json:"source"`
	RelevanceScore float64    `json:"relevanceScore"`
}

// Opportunity is the merged per-symbol view used for ranking: quote data
// joined with the latest relevant news article and the most recent month
// of insider sentiment. News and InsiderSentiment are nil when nothing
// was available.
type Opportunity struct {
	Stock
	News             *NewsArticle      `json:"news"`
	InsiderSentiment *InsiderSentiment `json:"insiderSentiment"`
}

// HistoricalPoint is one day's summed portfolio value.
type HistoricalPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
