package brackets

import (
	"reflect"
	"testing"
)

func TestGenerateRounds(t *testing.T) {
	tests := []struct {
		name         string
		teams        []string
		wantRounds   []string
		wantPairings int
		wantByes     []string
	}{
		{"two teams", []string{"a", "b"}, []string{"Final"}, 1, nil},
		{"four teams", []string{"a", "b", "c", "d"}, []string{"Semi-finals", "Final"}, 2, nil},
		{"three teams", []string{"a", "b", "c"}, []string{"Semi-finals", "Final"}, 1, []string{"a"}},
		{"six teams", []string{"a", "b", "c", "d", "e", "f"}, []string{"Quarter-finals", "Semi-finals", "Final"}, 2, []string{"a", "b"}},
		{"sixteen teams", make16(), []string{"Round of 16", "Quarter-finals", "Semi-finals", "Final"}, 8, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := GenerateRounds(tt.teams)
			if err != nil {
				t.Fatalf("GenerateRounds: %v", err)
			}
			names := make([]string, len(plan.Rounds))
			for i, r := range plan.Rounds {
				names[i] = r.Name
			}
			if !reflect.DeepEqual(names, tt.wantRounds) {
				t.Errorf("rounds = %v, want %v", names, tt.wantRounds)
			}
			if len(plan.Pairings) != tt.wantPairings {
				t.Errorf("pairings = %d, want %d", len(plan.Pairings), tt.wantPairings)
			}
			if len(tt.wantByes) > 0 && !reflect.DeepEqual(plan.Rounds[1].TeamIDs, tt.wantByes) {
				t.Errorf("bye teams = %v, want %v", plan.Rounds[1].TeamIDs, tt.wantByes)
			}
			for _, p := range plan.Pairings {
				if p.RoundName != plan.Rounds[0].Name {
					t.Errorf("pairing in round %q", p.RoundName)
				}
			}
		})
	}
}

func TestGenerateRoundsPairsTopWithBottom(t *testing.T) {
	plan, err := GenerateRounds([]string{"s1", "s2", "s3", "s4"})
	if err != nil {
		t.Fatalf("GenerateRounds: %v", err)
	}
	if plan.Pairings[0].HomeTeamID != "s1" || plan.Pairings[0].AwayTeamID != "s4" {
		t.Errorf("first pairing = %+v", plan.Pairings[0])
	}
}

func TestGenerateRoundsRejectsBadInput(t *testing.T) {
	for _, teams := range [][]string{nil, {"a"}, {"a", "a"}, {"a", ""}} {
		if _, err := GenerateRounds(teams); err != ErrNotEnoughTeams {
			t.Errorf("GenerateRounds(%v) error = %v", teams, err)
		}
	}
}

func make16() []string {
	out := make([]string, 16)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}
