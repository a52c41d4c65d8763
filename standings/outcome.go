package standings

import "github.com/Dosada05/league-system/models"

type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeAwayWin Outcome = "away_win"
	OutcomeDraw    Outcome = "draw"
)

// DetermineOutcome classifies a result. Penalties decide only when both
// penalty scores are present and the regulation score is level.
func DetermineOutcome(r models.FixtureResult) Outcome {
	switch {
	case r.HomeScore > r.AwayScore:
		return OutcomeHomeWin
	case r.AwayScore > r.HomeScore:
		return OutcomeAwayWin
	}
	if r.HasPenalties() {
		switch {
		case *r.HomePenalty > *r.AwayPenalty:
			return OutcomeHomeWin
		case *r.AwayPenalty > *r.HomePenalty:
			return OutcomeAwayWin
		}
	}
	return OutcomeDraw
}

// FormCodes returns the form codes for the home and away side.
func (o Outcome) FormCodes() (home, away models.FormCode) {
	switch o {
	case OutcomeHomeWin:
		return models.FormWin, models.FormLoss
	case OutcomeAwayWin:
		return models.FormLoss, models.FormWin
	default:
		return models.FormDraw, models.FormDraw
	}
}

// Winner returns the winning team id, or "" for a draw.
func (o Outcome) Winner(homeTeamID, awayTeamID string) string {
	switch o {
	case OutcomeHomeWin:
		return homeTeamID
	case OutcomeAwayWin:
		return awayTeamID
	}
	return ""
}
