package standings

import (
	"testing"

	"github.com/Dosada05/league-system/models"
)

func TestVerifyReportsBrokenEntries(t *testing.T) {
	table := []models.StandingsEntry{
		{TeamID: "a", Played: 2, Wins: 1, Draws: 1, Points: 5, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Position: 1},
		{TeamID: "b", Played: 1, Losses: 1, GoalsFor: 0, GoalsAgainst: 2, GoalDifference: 0, Position: 2},
	}

	rules := map[string]bool{}
	for _, v := range Verify(table) {
		rules[v.TeamID+"/"+v.Rule] = true
	}
	for _, want := range []string{"a/points", "b/goal_difference"} {
		if !rules[want] {
			t.Errorf("missing violation %s in %v", want, rules)
		}
	}
	if len(rules) != 2 {
		t.Errorf("unexpected violations: %v", rules)
	}
}

func TestVerifyCleanTable(t *testing.T) {
	table := mustInit(t, "a", "b", "c")
	if v := Verify(table); len(v) != 0 {
		t.Errorf("fresh table violations: %v", v)
	}
}
