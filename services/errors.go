package services

import (
	"errors"
	"fmt"
)

// Категории ошибок. Конкретные ошибки ниже оборачивают одну из них,
// поэтому errors.Is работает на обоих уровнях.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyCompleted   = errors.New("fixture result has already been recorded")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrDuplicateName      = errors.New("already exists")
	ErrValidationFailed   = errors.New("validation failed")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)

var (
	ErrFixtureNotFound     = fmt.Errorf("fixture %w", ErrNotFound)
	ErrCompetitionNotFound = fmt.Errorf("competition %w", ErrNotFound)
	ErrTeamNotFound        = fmt.Errorf("team %w", ErrNotFound)
	ErrRoundNotFound       = fmt.Errorf("knockout round %w", ErrNotFound)
	ErrGroupNotFound       = fmt.Errorf("group %w", ErrNotFound)
	ErrLeagueNotFound      = fmt.Errorf("league table %w", ErrNotFound)
	ErrFixtureNotPlaced    = fmt.Errorf("fixture assignment %w", ErrNotFound)

	ErrRoundNameConflict       = fmt.Errorf("knockout round name %w", ErrDuplicateName)
	ErrGroupNameConflict       = fmt.Errorf("group name %w", ErrDuplicateName)
	ErrCompetitionNameConflict = fmt.Errorf("competition name %w", ErrDuplicateName)

	ErrKnockoutDraw            = fmt.Errorf("%w: knockout fixture cannot end level without a penalty shootout", ErrInvalidTransition)
	ErrFixturePostponed        = fmt.Errorf("%w: fixture is postponed", ErrInvalidTransition)
	ErrWrongFormat             = fmt.Errorf("%w: operation does not match the competition format", ErrInvalidTransition)
	ErrLeagueAlreadyStarted    = fmt.Errorf("%w: league table is already initialized", ErrInvalidTransition)
	ErrFixtureAlreadyPlaced    = fmt.Errorf("%w: fixture is already assigned", ErrInvalidTransition)
	ErrTeamsNotEligible        = fmt.Errorf("%w: fixture teams are not eligible for this stage", ErrInvalidTransition)
	ErrSeedOnlyFirstRound      = fmt.Errorf("%w: only the first knockout round can be seeded", ErrInvalidTransition)
	ErrFixtureOtherCompetition = fmt.Errorf("%w: fixture belongs to another competition", ErrInvalidTransition)
	ErrStructureMissing        = fmt.Errorf("%w: competition structure is not set up for this fixture", ErrInvalidTransition)

	ErrNegativeScore       = fmt.Errorf("%w: scores must not be negative", ErrValidationFailed)
	ErrPenaltiesIncomplete = fmt.Errorf("%w: both penalty scores are required", ErrValidationFailed)
	ErrShootoutNotLevel    = fmt.Errorf("%w: penalty shootout requires a level score", ErrValidationFailed)
	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrValidationFailed)
	ErrTeamsRequired       = fmt.Errorf("%w: at least two distinct teams are required", ErrValidationFailed)
	ErrSameTeams           = fmt.Errorf("%w: home and away team must differ", ErrValidationFailed)
	ErrInvalidFormat       = fmt.Errorf("%w: unknown competition format", ErrValidationFailed)
	ErrInvalidRules        = fmt.Errorf("%w: invalid qualification rule", ErrValidationFailed)
	ErrPlacementAmbiguous  = fmt.Errorf("%w: fixture can go to a group or a round, not both", ErrValidationFailed)
)
