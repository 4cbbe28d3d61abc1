package stats

// Player role labels.
const (
	RoleAllRounder = "All-Rounder"
	RoleBatsman    = "Batsman"
	RoleBowler     = "Bowler"
	RoleNone       = "N/A"
)

// RoleThresholds are the rating cutoffs for classifying a player's role.
// The club has floated 400/300 and 150/50 at different times; 150/50 with
// an N/A fallback is the pair the published pages settled on, so it is the
// default here. The pair stays configurable until someone owns the rule.
type RoleThresholds struct {
	Batting float64
	Bowling float64
}

// DefaultThresholds is the canonical threshold pair.
var DefaultThresholds = RoleThresholds{Batting: 150, Bowling: 50}

// Classify returns the role for a player with the given ratings.
func (t RoleThresholds) Classify(battingRating, bowlingRating float64) string {
	batting := battingRating >= t.Batting
	bowling := bowlingRating >= t.Bowling

	switch {
	case batting && bowling:
		return RoleAllRounder
	case batting:
		return RoleBatsman
	case bowling:
		return RoleBowler
	default:
		return RoleNone
	}
}
