package stats

import (
	"strings"
	"time"
)

// Match result labels. A two-team match has exactly one of each.
const (
	ResultWon  = "Won"
	ResultLost = "Lost"
)

// bothTeamsSentinel is the team-name placeholder meaning the player
// appeared for every team in the match, not for a team of that name.
const bothTeamsSentinel = "Both Teams"

// TeamResult is one team's outcome in a match.
type TeamResult struct {
	TeamName string `json:"teamName"`
	Result   string `json:"result"`
	Score    string `json:"score"`
}

// PlayerTeamInfo records which team(s) a player appeared for.
type PlayerTeamInfo struct {
	PlayerName   string   `json:"playerName"`
	Teams        []string `json:"teams"`
	IsManOfMatch bool     `json:"isManOfMatch"`
}

// LastMatchInfo is the parsed form of the most recent match's sheet rows.
type LastMatchInfo struct {
	Date    string           `json:"date"`
	Teams   []TeamResult     `json:"teams"`
	Players []PlayerTeamInfo `json:"players"`
}

// Match-sheet column positions, written as sheet letters to match how the
// club talks about them.
var (
	matchDateCol   = columnIndex("A")
	matchPlayerCol = columnIndex("B")
	matchMoMCol    = columnIndex("U")
	matchTeamCol   = columnIndex("V")
	matchResultCol = columnIndex("W")
	matchScoreCol  = columnIndex("Y")
)

// columnIndex converts a sheet column letter to a zero-based index
// (A=0, B=1, ..., AA=26).
func columnIndex(column string) int {
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A') + 1
	}
	return index - 1
}

// dateLayouts are the formats the sheet has been seen to emit for the
// match date cell.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// looksLikeDate reports whether a cell parses as a date-time string. Row 0
// of the match sheet is assumed to be a header unless its first cell looks
// like a date; this is a heuristic, not a declared schema, and it would
// misfire on a header whose first cell is itself date-like. The sheet API
// exposes no explicit header flag, so the heuristic stays, isolated here.
func looksLikeDate(cell any) bool {
	s := strings.TrimSpace(cellString([]any{cell}, 0))
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// ParseMatchRows converts raw match-sheet rows into LastMatchInfo.
// Returns nil when there are no data rows, which callers treat as "no
// match available" rather than an error.
func ParseMatchRows(rows [][]any) *LastMatchInfo {
	if len(rows) == 0 {
		return nil
	}

	dataRows := rows
	if !looksLikeDate(cell(rows[0], matchDateCol)) {
		dataRows = rows[1:]
	}
	if len(dataRows) == 0 {
		return nil
	}

	date := cellString(dataRows[0], matchDateCol)
	if date == "" {
		date = "Unknown Date"
	}

	// First pass: collect the real teams so the "Both Teams" sentinel can
	// expand to all of them regardless of row order.
	var teams []TeamResult
	for _, row := range dataRows {
		teamName := cellString(row, matchTeamCol)
		if teamName == "" || teamName == bothTeamsSentinel {
			continue
		}
		if hasTeam(teams, teamName) {
			continue
		}

		result := ResultLost
		if strings.EqualFold(cellString(row, matchResultCol), "won") {
			result = ResultWon
		}
		teams = append(teams, TeamResult{
			TeamName: teamName,
			Result:   result,
			Score:    cellString(row, matchScoreCol),
		})
	}

	// Second pass: players, preserving first-appearance order.
	type playerEntry struct {
		teams map[string]bool
		mom   bool
	}
	playerMap := make(map[string]*playerEntry)
	var playerOrder []string

	for _, row := range dataRows {
		playerName := cellString(row, matchPlayerCol)
		teamName := cellString(row, matchTeamCol)
		if playerName == "" || teamName == "" {
			continue
		}

		entry, ok := playerMap[playerName]
		if !ok {
			entry = &playerEntry{teams: make(map[string]bool)}
			playerMap[playerName] = entry
			playerOrder = append(playerOrder, playerName)
		}

		if isManOfMatch(cellString(row, matchMoMCol)) {
			entry.mom = true
		}

		if teamName == bothTeamsSentinel {
			for _, t := range teams {
				entry.teams[t.TeamName] = true
			}
		} else {
			entry.teams[teamName] = true
		}
	}

	players := make([]PlayerTeamInfo, 0, len(playerOrder))
	for _, name := range playerOrder {
		entry := playerMap[name]
		teamNames := make([]string, 0, len(entry.teams))
		for _, t := range teams {
			if entry.teams[t.TeamName] {
				teamNames = append(teamNames, t.TeamName)
			}
		}
		players = append(players, PlayerTeamInfo{
			PlayerName:   name,
			Teams:        teamNames,
			IsManOfMatch: entry.mom,
		})
	}

	return &LastMatchInfo{
		Date:    date,
		Teams:   teams,
		Players: players,
	}
}

// isManOfMatch recognizes the sheet's man-of-the-match flag spellings.
func isManOfMatch(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "1":
		return true
	default:
		return false
	}
}

func hasTeam(teams []TeamResult, name string) bool {
	for _, t := range teams {
		if t.TeamName == name {
			return true
		}
	}
	return false
}

// cell returns the raw cell value, or nil when the row is too short.
func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
