package standings

import (
	"fmt"

	"github.com/Dosada05/league-system/models"
)

type Violation struct {
	TeamID string `json:"team_id"`
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.TeamID, v.Rule, v.Detail)
}

// Verify checks every entry against the table laws and the ranking order.
func Verify(table []models.StandingsEntry) []Violation {
	var out []Violation
	seen := make(map[string]bool, len(table))
	for i, e := range table {
		if seen[e.TeamID] {
			out = append(out, Violation{TeamID: e.TeamID, Rule: "unique_team", Detail: "duplicate entry"})
		}
		seen[e.TeamID] = true

		if e.GoalDifference != e.GoalsFor-e.GoalsAgainst {
			out = append(out, Violation{e.TeamID, "goal_difference",
				fmt.Sprintf("gd=%d gf=%d ga=%d", e.GoalDifference, e.GoalsFor, e.GoalsAgainst)})
		}
		if e.Played != e.Wins+e.Draws+e.Losses {
			out = append(out, Violation{e.TeamID, "played",
				fmt.Sprintf("played=%d w=%d d=%d l=%d", e.Played, e.Wins, e.Draws, e.Losses)})
		}
		if e.Points != pointsForWin*e.Wins+pointsForDraw*e.Draws {
			out = append(out, Violation{e.TeamID, "points",
				fmt.Sprintf("points=%d w=%d d=%d", e.Points, e.Wins, e.Draws)})
		}
		if len(e.Form) > FormWindow {
			out = append(out, Violation{e.TeamID, "form", fmt.Sprintf("%d codes", len(e.Form))})
		}
		if e.Position != i+1 {
			out = append(out, Violation{e.TeamID, "position", fmt.Sprintf("position=%d index=%d", e.Position, i)})
		}
		if i > 0 && ranksBefore(e, table[i-1]) {
			out = append(out, Violation{e.TeamID, "order", fmt.Sprintf("ranks above %s", table[i-1].TeamID)})
		}
	}
	return out
}

func ranksBefore(a, b models.StandingsEntry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	return a.GoalsFor > b.GoalsFor
}
