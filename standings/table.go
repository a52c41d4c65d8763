package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrAlreadyInitialized = errors.New("standings table is already initialized")
	ErrNoTeams            = errors.New("at least one team is required")
	ErrDuplicateTeam      = errors.New("team appears more than once in the table")
	ErrTeamNotInTable     = errors.New("team is not part of the standings table")
	ErrSameTeam           = errors.New("home and away team must differ")
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// Initialize builds a zeroed table in the given team order. It refuses to
// overwrite a table that already has entries.
func Initialize(existing []models.StandingsEntry, teamIDs []string) ([]models.StandingsEntry, error) {
	if len(existing) > 0 {
		return nil, ErrAlreadyInitialized
	}
	if len(teamIDs) == 0 {
		return nil, ErrNoTeams
	}

	seen := make(map[string]struct{}, len(teamIDs))
	table := make([]models.StandingsEntry, 0, len(teamIDs))
	for i, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
		table = append(table, models.StandingsEntry{
			TeamID:   id,
			Form:     []models.FormCode{},
			Position: i + 1,
		})
	}
	return table, nil
}

func index(table []models.StandingsEntry) (map[string]int, error) {
	idx := make(map[string]int, len(table))
	for i, e := range table {
		if _, dup := idx[e.TeamID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, e.TeamID)
		}
		idx[e.TeamID] = i
	}
	return idx, nil
}

func cloneTable(table []models.StandingsEntry) []models.StandingsEntry {
	out := make([]models.StandingsEntry, len(table))
	for i, e := range table {
		out[i] = e.Clone()
	}
	return out
}

// ApplyResult updates both teams' entries from one fixture and returns the
// re-ranked table. The input table is left untouched.
func ApplyResult(table []models.StandingsEntry, homeTeamID, awayTeamID string, result models.FixtureResult) ([]models.StandingsEntry, error) {
	if homeTeamID == awayTeamID {
		return nil, ErrSameTeam
	}
	idx, err := index(table)
	if err != nil {
		return nil, err
	}
	hi, ok := idx[homeTeamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotInTable, homeTeamID)
	}
	ai, ok := idx[awayTeamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotInTable, awayTeamID)
	}

	out := cloneTable(table)
	homeCode, awayCode := DetermineOutcome(result).FormCodes()
	applySide(&out[hi], result.HomeScore, result.AwayScore, homeCode)
	applySide(&out[ai], result.AwayScore, result.HomeScore, awayCode)

	return SortAndRank(out), nil
}

func applySide(e *models.StandingsEntry, scored, conceded int, code models.FormCode) {
	e.Played++
	e.GoalsFor += scored
	e.GoalsAgainst += conceded
	e.GoalDifference = e.GoalsFor - e.GoalsAgainst
	switch code {
	case models.FormWin:
		e.Wins++
		e.Points += pointsForWin
	case models.FormDraw:
		e.Draws++
		e.Points += pointsForDraw
	default:
		e.Losses++
	}
	e.Form = PushForm(e.Form, code)
}

// SortAndRank orders by points, goal difference and goals scored (all
// descending) and assigns positions. Ties keep their current order.
func SortAndRank(table []models.StandingsEntry) []models.StandingsEntry {
	sort.SliceStable(table, func(i, j int) bool {
		return ranksBefore(table[i], table[j])
	})
	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

// Lookup returns the entry for teamID.
func Lookup(table []models.StandingsEntry, teamID string) (models.StandingsEntry, bool) {
	for _, e := range table {
		if e.TeamID == teamID {
			return e, true
		}
	}
	return models.StandingsEntry{}, false
}
