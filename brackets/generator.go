package brackets

import "errors"

var ErrNotEnoughTeams = errors.New("at least two distinct teams are required")

// Pairing is a fixture to be created by a generator.
type Pairing struct {
	Matchday   int    `json:"matchday"`
	RoundName  string `json:"round_name,omitempty"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

func distinct(teamIDs []string) bool {
	seen := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if id == "" {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
