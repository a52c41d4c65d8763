package brackets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/standings"
)

var (
	ErrRoundNameRequired      = errors.New("round name is required")
	ErrRoundExists            = errors.New("round with this name already exists")
	ErrRoundNotFound          = errors.New("round not found")
	ErrTeamsNotInRound        = errors.New("fixture teams are not members of the round")
	ErrFixtureAlreadyAssigned = errors.New("fixture is already assigned to a round")
	ErrSeedOnlyFirstRound     = errors.New("teams can only be seeded into the first round")
	ErrDrawNotAllowed         = errors.New("knockout fixture needs a winner")
	ErrFixtureNotInRound      = errors.New("fixture is not assigned to the round")
	ErrFixtureResolved        = errors.New("fixture is already resolved in the bracket")
)

// Заметки для частично успешного завершения матча.
const (
	NoteFixtureNotInBracket = "fixture is not assigned to any knockout round"
	NoteTerminalRound       = "final round reached, no further round exists"
	NoteAlreadyResolved     = "fixture was already resolved in the bracket"
)

type Advancement struct {
	Advanced      bool   `json:"advanced"`
	RoundName     string `json:"round_name,omitempty"`
	NextRoundName string `json:"next_round_name,omitempty"`
	WinnerTeamID  string `json:"winner_team_id,omitempty"`
	Note          string `json:"note,omitempty"`
}

func FindRoundByName(rounds []models.KnockoutRound, name string) (int, bool) {
	key := standings.NameKey(name)
	for i, r := range rounds {
		if standings.NameKey(r.Name) == key {
			return i, true
		}
	}
	return -1, false
}

// FindRound returns the index of the round holding fixtureID.
func FindRound(rounds []models.KnockoutRound, fixtureID string) (int, bool) {
	for i, r := range rounds {
		if contains(r.FixtureIDs, fixtureID) {
			return i, true
		}
	}
	return -1, false
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cloneRounds(rounds []models.KnockoutRound) []models.KnockoutRound {
	out := make([]models.KnockoutRound, len(rounds))
	for i, r := range rounds {
		c := r
		c.FixtureIDs = append([]string{}, r.FixtureIDs...)
		c.TeamIDs = append([]string{}, r.TeamIDs...)
		c.ResolvedFixtureIDs = append([]string{}, r.ResolvedFixtureIDs...)
		out[i] = c
	}
	return out
}

// AddRound appends an empty round. Rounds are played in insertion order.
func AddRound(rounds []models.KnockoutRound, name, fixtureFormat string) ([]models.KnockoutRound, error) {
	name = strings.TrimSpace(name)
	if name == "" || standings.NameKey(name) == "" {
		return nil, ErrRoundNameRequired
	}
	if _, exists := FindRoundByName(rounds, name); exists {
		return nil, fmt.Errorf("%w: %s", ErrRoundExists, name)
	}
	if fixtureFormat == "" {
		fixtureFormat = models.FixtureFormatSingleLeg
	}

	out := cloneRounds(rounds)
	out = append(out, models.KnockoutRound{
		Name:               name,
		FixtureFormat:      fixtureFormat,
		FixtureIDs:         []string{},
		TeamIDs:            []string{},
		ResolvedFixtureIDs: []string{},
	})
	return out, nil
}

// SeedRound adds teams to the first round. Later rounds are filled by winners only.
func SeedRound(rounds []models.KnockoutRound, name string, teamIDs []string) ([]models.KnockoutRound, error) {
	ri, ok := FindRoundByName(rounds, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, name)
	}
	if ri != 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeedOnlyFirstRound, rounds[ri].Name)
	}
	out := cloneRounds(rounds)
	for _, id := range teamIDs {
		if !contains(out[ri].TeamIDs, id) {
			out[ri].TeamIDs = append(out[ri].TeamIDs, id)
		}
	}
	return out, nil
}

// AssignFixture places fixtureID into the named round. Both teams must
// already belong to the round.
func AssignFixture(rounds []models.KnockoutRound, roundName, fixtureID, homeTeamID, awayTeamID string) ([]models.KnockoutRound, error) {
	ri, ok := FindRoundByName(rounds, roundName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, roundName)
	}
	if _, taken := FindRound(rounds, fixtureID); taken {
		return nil, fmt.Errorf("%w: %s", ErrFixtureAlreadyAssigned, fixtureID)
	}
	if homeTeamID == awayTeamID || !contains(rounds[ri].TeamIDs, homeTeamID) || !contains(rounds[ri].TeamIDs, awayTeamID) {
		return nil, fmt.Errorf("%w: %s", ErrTeamsNotInRound, rounds[ri].Name)
	}

	out := cloneRounds(rounds)
	out[ri].FixtureIDs = append(out[ri].FixtureIDs, fixtureID)
	out[ri].Completed = false
	return out, nil
}

// RemoveFixture takes an unresolved fixture out of the named round. Teams stay
// in the round so the pairing can be scheduled again.
func RemoveFixture(rounds []models.KnockoutRound, roundName, fixtureID string) ([]models.KnockoutRound, error) {
	ri, ok := FindRoundByName(rounds, roundName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, roundName)
	}
	if !contains(rounds[ri].FixtureIDs, fixtureID) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotInRound, rounds[ri].Name)
	}
	if contains(rounds[ri].ResolvedFixtureIDs, fixtureID) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureResolved, fixtureID)
	}

	out := cloneRounds(rounds)
	round := &out[ri]
	kept := round.FixtureIDs[:0]
	for _, id := range round.FixtureIDs {
		if id != fixtureID {
			kept = append(kept, id)
		}
	}
	round.FixtureIDs = kept
	round.Completed = len(round.FixtureIDs) > 0 && len(round.ResolvedFixtureIDs) == len(round.FixtureIDs)
	return out, nil
}

// CheckResult reports whether the outcome can be applied to the bracket.
// A fixture outside the bracket is not an error.
func CheckResult(rounds []models.KnockoutRound, fixtureID string, outcome standings.Outcome) error {
	if _, ok := FindRound(rounds, fixtureID); ok && outcome == standings.OutcomeDraw {
		return ErrDrawNotAllowed
	}
	return nil
}

// AdvanceOnResult moves the winner of fixtureID into the next round.
// A fixture outside the bracket, an already resolved fixture and the final
// round produce a note instead of an error.
func AdvanceOnResult(rounds []models.KnockoutRound, fixtureID, homeTeamID, awayTeamID string, outcome standings.Outcome) ([]models.KnockoutRound, Advancement, error) {
	ri, ok := FindRound(rounds, fixtureID)
	if !ok {
		return rounds, Advancement{Note: NoteFixtureNotInBracket}, nil
	}
	if outcome == standings.OutcomeDraw {
		return nil, Advancement{}, ErrDrawNotAllowed
	}
	if contains(rounds[ri].ResolvedFixtureIDs, fixtureID) {
		return rounds, Advancement{RoundName: rounds[ri].Name, Note: NoteAlreadyResolved}, nil
	}

	winner := outcome.Winner(homeTeamID, awayTeamID)
	out := cloneRounds(rounds)
	round := &out[ri]
	round.ResolvedFixtureIDs = append(round.ResolvedFixtureIDs, fixtureID)
	round.Completed = len(round.ResolvedFixtureIDs) == len(round.FixtureIDs)

	adv := Advancement{RoundName: round.Name, WinnerTeamID: winner}
	if ri == len(out)-1 {
		adv.Note = NoteTerminalRound
		return out, adv, nil
	}

	next := &out[ri+1]
	if !contains(next.TeamIDs, winner) {
		next.TeamIDs = append(next.TeamIDs, winner)
	}
	adv.Advanced = true
	adv.NextRoundName = next.Name
	return out, adv, nil
}
