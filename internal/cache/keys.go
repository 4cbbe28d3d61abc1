package cache

import "strings"

// Store key namespace. Each cached resource occupies two keys: the payload
// under its cache key and the write time under "<key>_timestamp".
const (
	metadataKey    = "cricket_data_metadata"
	summaryKey     = "cricket_data_summary"
	playersKey     = "cricket_data_players"
	playerPrefix   = "cricket_player_"
	matchKey       = "last_match_data"
	updateCheckKey = "cricket_update_check"

	timestampSuffix = "_timestamp"
)

// timestampKey returns the companion timestamp key for a cache key.
func timestampKey(key string) string {
	return key + timestampSuffix
}

// playerKey returns the cache key for one player's details.
func playerKey(name string) string {
	return playerPrefix + name
}

// playerNameFromKey recovers the player name from a payload cache key.
// Returns false for timestamp companions and foreign keys.
func playerNameFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, playerPrefix) || strings.HasSuffix(key, timestampSuffix) {
		return "", false
	}
	return strings.TrimPrefix(key, playerPrefix), true
}
