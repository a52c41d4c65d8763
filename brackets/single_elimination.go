package brackets

import (
	"fmt"
	"math/bits"

	"github.com/Dosada05/league-system/models"
)

type KnockoutPlan struct {
	Rounds   []models.KnockoutRound `json:"rounds"`
	Pairings []Pairing              `json:"pairings"`
}

// RoundName names a round by the number of teams that start it.
func RoundName(teams int) string {
	switch teams {
	case 2:
		return "Final"
	case 4:
		return "Semi-finals"
	case 8:
		return "Quarter-finals"
	default:
		return fmt.Sprintf("Round of %d", teams)
	}
}

// GenerateRounds builds a single elimination bracket for teams given in seed
// order. When the count is not a power of two the top seeds receive byes and
// start in the second round.
func GenerateRounds(teamIDs []string) (*KnockoutPlan, error) {
	n := len(teamIDs)
	if n < 2 || !distinct(teamIDs) {
		return nil, ErrNotEnoughTeams
	}

	numRounds := bits.Len(uint(n - 1))
	size := 1 << numRounds
	byes := size - n

	plan := &KnockoutPlan{Rounds: make([]models.KnockoutRound, 0, numRounds)}
	for teams := size; teams >= 2; teams /= 2 {
		plan.Rounds = append(plan.Rounds, models.KnockoutRound{
			Name:               RoundName(teams),
			FixtureFormat:      models.FixtureFormatSingleLeg,
			FixtureIDs:         []string{},
			TeamIDs:            []string{},
			ResolvedFixtureIDs: []string{},
		})
	}

	if byes > 0 {
		plan.Rounds[1].TeamIDs = append(plan.Rounds[1].TeamIDs, teamIDs[:byes]...)
	}

	// остальные играют первый раунд: сильнейший с самым слабым
	playing := teamIDs[byes:]
	first := &plan.Rounds[0]
	first.TeamIDs = append(first.TeamIDs, playing...)
	for i, j := 0, len(playing)-1; i < j; i, j = i+1, j-1 {
		plan.Pairings = append(plan.Pairings, Pairing{
			Matchday:   1,
			RoundName:  first.Name,
			HomeTeamID: playing[i],
			AwayTeamID: playing[j],
		})
	}

	return plan, nil
}
