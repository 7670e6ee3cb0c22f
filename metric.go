package ledger

// RankedMetric is one row of the engagement leaderboard.
type RankedMetric struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Clicks int    `json:"clicks"`
}
