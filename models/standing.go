package models

type FormCode string

const (
	FormWin  FormCode = "W"
	FormDraw FormCode = "D"
	FormLoss FormCode = "L"
)

type StandingsEntry struct {
	TeamID         string     `json:"team_id"`
	Played         int        `json:"played"`
	Wins           int        `json:"wins"`
	Draws          int        `json:"draws"`
	Losses         int        `json:"losses"`
	Points         int        `json:"points"`
	GoalsFor       int        `json:"goals_for"`
	GoalsAgainst   int        `json:"goals_against"`
	GoalDifference int        `json:"goal_difference"`
	Form           []FormCode `json:"form"` // последние матчи, самый свежий первым
	Position       int        `json:"position"`
}

// Clone returns a copy that shares no slices with the receiver.
func (e StandingsEntry) Clone() StandingsEntry {
	c := e
	if e.Form != nil {
		c.Form = make([]FormCode, len(e.Form))
		copy(c.Form, e.Form)
	}
	return c
}

type LeagueTable struct {
	Standings []StandingsEntry `json:"standings"`
}
