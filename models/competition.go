package models

import "time"

type CompetitionFormat string

const (
	FormatLeague   CompetitionFormat = "league"
	FormatKnockout CompetitionFormat = "knockout"
	FormatHybrid   CompetitionFormat = "hybrid" // группы + плей-офф
)

func (f CompetitionFormat) IsValid() bool {
	switch f {
	case FormatLeague, FormatKnockout, FormatHybrid:
		return true
	}
	return false
}

const FixtureFormatSingleLeg = "single_leg"

type KnockoutRound struct {
	Name               string   `json:"name"`
	FixtureFormat      string   `json:"fixture_format"`
	FixtureIDs         []string `json:"fixture_ids"`
	TeamIDs            []string `json:"team_ids"`
	ResolvedFixtureIDs []string `json:"resolved_fixture_ids"`
	Completed          bool     `json:"completed"`
}

type QualificationRule struct {
	Position    int    `json:"position"`
	Destination string `json:"destination"` // название раунда плей-офф
}

type Group struct {
	Name          string              `json:"name"`
	Standings     []StandingsEntry    `json:"standings"`
	FixtureIDs    []string            `json:"fixture_ids"`
	Qualification []QualificationRule `json:"qualification,omitempty"`
}

// CompetitionAggregateStats keeps raw counts; the fractions are derived from them.
type CompetitionAggregateStats struct {
	Games       int `json:"games"`
	HomeWins    int `json:"home_wins"`
	AwayWins    int `json:"away_wins"`
	Draws       int `json:"draws"`
	TotalGoals  int `json:"total_goals"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`

	HomeWinsPercentage float64 `json:"home_wins_percentage"`
	AwayWinsPercentage float64 `json:"away_wins_percentage"`
	DrawsPercentage    float64 `json:"draws_percentage"`
	GoalsAvg           float64 `json:"goals_avg"`
	YellowCardsAvg     float64 `json:"yellow_cards_avg"`
	RedCardsAvg        float64 `json:"red_cards_avg"`
}

type Competition struct {
	ID        string                    `json:"id" db:"id"`
	Name      string                    `json:"name" db:"name"`
	Season    string                    `json:"season" db:"season"`
	Format    CompetitionFormat         `json:"format" db:"format"`
	League    *LeagueTable              `json:"league,omitempty" db:"league"`
	Groups    []Group                   `json:"groups,omitempty" db:"groups"`
	Knockout  []KnockoutRound           `json:"knockout,omitempty" db:"knockout"`
	Stats     CompetitionAggregateStats `json:"stats" db:"stats"`
	CreatedAt time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at" db:"updated_at"`
}

// StatsView is the rounded, presentation form of the aggregate stats.
type StatsView struct {
	Games              int     `json:"games"`
	HomeWinsPercentage float64 `json:"home_wins_percentage"`
	AwayWinsPercentage float64 `json:"away_wins_percentage"`
	DrawsPercentage    float64 `json:"draws_percentage"`
	GoalsAvg           float64 `json:"goals_avg"`
	YellowCardsAvg     float64 `json:"yellow_cards_avg"`
	RedCardsAvg        float64 `json:"red_cards_avg"`
}

type CompetitionSnapshot struct {
	Competition *Competition `json:"competition"`
	Stats       StatsView    `json:"stats"`
	Fixtures    []*Fixture   `json:"fixtures"`
}
