// Package stats parses raw spreadsheet rows into typed club statistics.
// Rows arrive as loosely-typed JSON arrays; every accessor here tolerates
// missing or wrong-typed cells rather than failing a whole sheet.
package stats

import (
	"log"
	"strconv"
	"strings"
)

// PlayerData is one player's flattened career record, derived positionally
// from a row of the players sheet.
type PlayerData struct {
	Name             string  `json:"name"`
	Rank             int     `json:"rank"`
	BattingRating    float64 `json:"battingRating"`
	BowlingRating    float64 `json:"bowlingRating"`
	AllRounderRating float64 `json:"allRounderRating"`
	OverallRating    string  `json:"overallRating"`
	MoMAwards        int     `json:"momAwards"`
	WinPercentage    float64 `json:"winPercentage"`
	Matches          int     `json:"matches"`
	Innings          int     `json:"innings"`

	RunsScored         float64 `json:"runsScored"`
	BallsFaced         float64 `json:"ballsFaced"`
	Dismissals         float64 `json:"dismissals"`
	HighestScore       string  `json:"highestScore"`
	NotOuts            int     `json:"notOuts"`
	Ducks              int     `json:"ducks"`
	GoldenDucks        int     `json:"goldenDucks"`
	Thirties           int     `json:"thirties"`
	Fifties            int     `json:"fifties"`
	Seventies          int     `json:"seventies"`
	BattingAverage     float64 `json:"battingAverage"`
	StrikeRate         float64 `json:"strikeRate"`
	BoundaryPercentage float64 `json:"boundaryPercentage"`
	DotsTaken          int     `json:"dotsTaken"`
	SinglesTaken       int     `json:"singlesTaken"`
	TwosTaken          int     `json:"twosTaken"`
	FoursTaken         int     `json:"foursTaken"`

	RunsGiven         float64 `json:"runsGiven"`
	BallsBowled       float64 `json:"ballsBowled"`
	WicketsTaken      float64 `json:"wicketsTaken"`
	BestBowling       string  `json:"bestBowling"`
	ThreeWickets      int     `json:"threeWickets"`
	FiveWickets       int     `json:"fiveWickets"`
	Hattricks         int     `json:"hattricks"`
	Maidens           int     `json:"maidens"`
	Economy           float64 `json:"economy"`
	BowlingAverage    float64 `json:"bowlingAverage"`
	BowlingStrikeRate float64 `json:"bowlingStrikeRate"`
	DotsGiven         int     `json:"dotsGiven"`
	TwosGiven         int     `json:"twosGiven"`
	FoursGiven        int     `json:"foursGiven"`
	Extras            int     `json:"extras"`

	Role string `json:"role"`
}

// playerColumn maps one logical field to its position in a raw row. The
// sheet has no declared schema; these positions are the contract, and the
// label is only used to flag drift when a header row is present.
type playerColumn struct {
	label string
	index int
}

// Column layout of the players sheet. Columns 20, 36 and 37 hold the
// sheet's own derived averages; the parser recomputes those locally with
// zero-denominator guards instead of trusting them.
var playerColumns = struct {
	name, rank, battingRating, bowlingRating, allRounderRating playerColumn
	overallRating, momAwards, winPercentage, matches, innings  playerColumn
	runsScored, ballsFaced, dismissals, highestScore, notOuts  playerColumn
	ducks, goldenDucks, thirties, fifties, seventies           playerColumn
	strikeRate, boundaryPercentage, dotsTaken, singlesTaken    playerColumn
	twosTaken, foursTaken, runsGiven, ballsBowled              playerColumn
	wicketsTaken, bestBowling, threeWickets, fiveWickets       playerColumn
	hattricks, maidens, bowlingStrikeRate, dotsGiven           playerColumn
	twosGiven, foursGiven, extras                              playerColumn
}{
	name:               playerColumn{"Name", 0},
	rank:               playerColumn{"Rank", 1},
	battingRating:      playerColumn{"Batting Rating", 2},
	bowlingRating:      playerColumn{"Bowling Rating", 3},
	allRounderRating:   playerColumn{"All Rounder Rating", 4},
	overallRating:      playerColumn{"Overall Rating", 5},
	momAwards:          playerColumn{"MOM Awards", 6},
	winPercentage:      playerColumn{"Win %", 7},
	matches:            playerColumn{"Matches", 8},
	innings:            playerColumn{"Innings", 9},
	runsScored:         playerColumn{"Runs Scored", 10},
	ballsFaced:         playerColumn{"Balls Faced", 11},
	dismissals:         playerColumn{"Dismissals", 12},
	highestScore:       playerColumn{"Highest Score", 13},
	notOuts:            playerColumn{"Not Outs", 14},
	ducks:              playerColumn{"Ducks", 15},
	goldenDucks:        playerColumn{"Golden Ducks", 16},
	thirties:           playerColumn{"30s", 17},
	fifties:            playerColumn{"50s", 18},
	seventies:          playerColumn{"70s", 19},
	strikeRate:         playerColumn{"Strike Rate", 21},
	boundaryPercentage: playerColumn{"Boundary %", 22},
	dotsTaken:          playerColumn{"Dots Taken", 23},
	singlesTaken:       playerColumn{"Singles Taken", 24},
	twosTaken:          playerColumn{"Twos Taken", 25},
	foursTaken:         playerColumn{"Fours Taken", 26},
	runsGiven:          playerColumn{"Runs Given", 28},
	ballsBowled:        playerColumn{"Balls Bowled", 29},
	wicketsTaken:       playerColumn{"Wickets Taken", 30},
	bestBowling:        playerColumn{"Best Bowling", 31},
	threeWickets:       playerColumn{"3 Wickets", 32},
	fiveWickets:        playerColumn{"5 Wickets", 33},
	hattricks:          playerColumn{"Hattricks", 34},
	maidens:            playerColumn{"Maidens", 35},
	bowlingStrikeRate:  playerColumn{"Bowling Strike Rate", 38},
	dotsGiven:          playerColumn{"Dots Given", 39},
	twosGiven:          playerColumn{"Twos Given", 40},
	foursGiven:         playerColumn{"Fours Given", 41},
	extras:             playerColumn{"Extras", 42},
}

// allPlayerColumns flattens the layout for header validation.
func allPlayerColumns() []playerColumn {
	c := playerColumns
	return []playerColumn{
		c.name, c.rank, c.battingRating, c.bowlingRating, c.allRounderRating,
		c.overallRating, c.momAwards, c.winPercentage, c.matches, c.innings,
		c.runsScored, c.ballsFaced, c.dismissals, c.highestScore, c.notOuts,
		c.ducks, c.goldenDucks, c.thirties, c.fifties, c.seventies,
		c.strikeRate, c.boundaryPercentage, c.dotsTaken, c.singlesTaken,
		c.twosTaken, c.foursTaken, c.runsGiven, c.ballsBowled,
		c.wicketsTaken, c.bestBowling, c.threeWickets, c.fiveWickets,
		c.hattricks, c.maidens, c.bowlingStrikeRate, c.dotsGiven,
		c.twosGiven, c.foursGiven, c.extras,
	}
}

// ValidatePlayerHeader compares a header row against the declared column
// layout and returns one message per mismatched label. Parsing always uses
// the declared positions; mismatches only flag schema drift.
func ValidatePlayerHeader(header []any) []string {
	var mismatches []string
	for _, col := range allPlayerColumns() {
		if col.index >= len(header) {
			mismatches = append(mismatches, "column "+strconv.Itoa(col.index)+" ("+col.label+"): header row too short")
			continue
		}
		got := strings.TrimSpace(cellString(header, col.index))
		if got == "" {
			continue // blank header cells are common, not drift
		}
		if !strings.EqualFold(got, col.label) {
			mismatches = append(mismatches, "column "+strconv.Itoa(col.index)+": expected "+col.label+", header says "+got)
		}
	}
	return mismatches
}

// ParsePlayerRows converts raw players-sheet rows into PlayerData records.
// Row 0 is the header and is skipped; rows without a name are skipped.
func ParsePlayerRows(rows [][]any) []PlayerData {
	if len(rows) < 2 {
		return nil
	}

	if mismatches := ValidatePlayerHeader(rows[0]); len(mismatches) > 0 {
		log.Printf("[Stats] players sheet header drift (%d columns): %s",
			len(mismatches), strings.Join(mismatches, "; "))
	}

	c := playerColumns
	players := make([]PlayerData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cellString(row, c.name.index)
		if name == "" {
			continue
		}

		battingRating := cellFloat(row, c.battingRating.index)
		bowlingRating := cellFloat(row, c.bowlingRating.index)

		runsScored := cellFloat(row, c.runsScored.index)
		dismissals := cellFloat(row, c.dismissals.index)
		runsGiven := cellFloat(row, c.runsGiven.index)
		ballsBowled := cellFloat(row, c.ballsBowled.index)
		wicketsTaken := cellFloat(row, c.wicketsTaken.index)

		// The sheet's own average columns divide by zero for players who
		// were never dismissed or never bowled; recompute with guards.
		battingAverage := 0.0
		if dismissals > 0 {
			battingAverage = runsScored / dismissals
		} else if runsScored > 0 {
			battingAverage = runsScored
		}

		bowlingAverage := 0.0
		if wicketsTaken > 0 {
			bowlingAverage = runsGiven / wicketsTaken
		}

		economy := 0.0
		if ballsBowled > 0 {
			economy = runsGiven / (ballsBowled / 6)
		}

		players = append(players, PlayerData{
			Name:             name,
			Rank:             cellInt(row, c.rank.index),
			BattingRating:    battingRating,
			BowlingRating:    bowlingRating,
			AllRounderRating: cellFloat(row, c.allRounderRating.index),
			OverallRating:    cellString(row, c.overallRating.index),
			MoMAwards:        cellInt(row, c.momAwards.index),
			WinPercentage:    cellFloat(row, c.winPercentage.index),
			Matches:          cellInt(row, c.matches.index),
			Innings:          cellInt(row, c.innings.index),

			RunsScored:         runsScored,
			BallsFaced:         cellFloat(row, c.ballsFaced.index),
			Dismissals:         dismissals,
			HighestScore:       cellString(row, c.highestScore.index),
			NotOuts:            cellInt(row, c.notOuts.index),
			Ducks:              cellInt(row, c.ducks.index),
			GoldenDucks:        cellInt(row, c.goldenDucks.index),
			Thirties:           cellInt(row, c.thirties.index),
			Fifties:            cellInt(row, c.fifties.index),
			Seventies:          cellInt(row, c.seventies.index),
			BattingAverage:     battingAverage,
			StrikeRate:         cellFloat(row, c.strikeRate.index),
			BoundaryPercentage: cellFloat(row, c.boundaryPercentage.index),
			DotsTaken:          cellInt(row, c.dotsTaken.index),
			SinglesTaken:       cellInt(row, c.singlesTaken.index),
			TwosTaken:          cellInt(row, c.twosTaken.index),
			FoursTaken:         cellInt(row, c.foursTaken.index),

			RunsGiven:         runsGiven,
			BallsBowled:       ballsBowled,
			WicketsTaken:      wicketsTaken,
			BestBowling:       cellString(row, c.bestBowling.index),
			ThreeWickets:      cellInt(row, c.threeWickets.index),
			FiveWickets:       cellInt(row, c.fiveWickets.index),
			Hattricks:         cellInt(row, c.hattricks.index),
			Maidens:           cellInt(row, c.maidens.index),
			Economy:           economy,
			BowlingAverage:    bowlingAverage,
			BowlingStrikeRate: cellFloat(row, c.bowlingStrikeRate.index),
			DotsGiven:         cellInt(row, c.dotsGiven.index),
			TwosGiven:         cellInt(row, c.twosGiven.index),
			FoursGiven:        cellInt(row, c.foursGiven.index),
			Extras:            cellInt(row, c.extras.index),

			Role: DefaultThresholds.Classify(battingRating, bowlingRating),
		})
	}

	return players
}

// cellString reads a cell as a string; missing or nil cells yield "".
func cellString(row []any, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// cellFloat reads a cell as a number; missing or unparseable cells yield 0.
func cellFloat(row []any, idx int) float64 {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return 0
	}
	switch v := row[idx].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// cellInt reads a cell as an integer, truncating fractional values.
func cellInt(row []any, idx int) int {
	return int(cellFloat(row, idx))
}
