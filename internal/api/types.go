package api

// Metadata describes the remote sheet's current data generation. The
// server bumps LastUpdated (epoch ms) and/or Version whenever any sheet
// changes.
type Metadata struct {
	LastUpdated int64  `json:"lastUpdated"`
	Version     string `json:"version"`
}

// SummaryData is the home-page payload: team records plus recent matches.
// The sheet backend is loosely typed, so nested values stay untyped.
type SummaryData struct {
	Teams       map[string]any `json:"teams"`
	Matches     []any          `json:"matches"`
	LastUpdated string         `json:"lastUpdated,omitempty"`
}

// PlayersData carries the raw players sheet: row 0 is the header, each
// following row is one player's statistics in fixed column positions.
type PlayersData struct {
	Stats       [][]any `json:"stats"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
}

// PlayerDetailsData carries one player's per-match rows and aggregate stats.
type PlayerDetailsData struct {
	Matches     [][]any        `json:"matches"`
	Stats       map[string]any `json:"stats"`
	LastUpdated string         `json:"lastUpdated,omitempty"`
}

// MatchDataResponse wraps the match sheet rows. The backend names the
// field after the sheet tab, quirky capitalization included.
type MatchDataResponse struct {
	Rows [][]any `json:"Match Data"`
}
