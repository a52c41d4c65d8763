package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// domainErrors переводит ошибки движка и репозиториев в ошибки сервисного слоя.
var domainErrors = []struct {
	from error
	to   error
}{
	{repositories.ErrFixtureNotFound, ErrFixtureNotFound},
	{repositories.ErrCompetitionNotFound, ErrCompetitionNotFound},
	{repositories.ErrCompetitionNameConflict, ErrCompetitionNameConflict},
	{repositories.ErrFixtureTeamInvalid, ErrTeamNotFound},
	{repositories.ErrFixtureCompetitionInvalid, ErrCompetitionNotFound},
	{repositories.ErrFixtureTeamsEqual, ErrSameTeams},

	{standings.ErrAlreadyInitialized, ErrLeagueAlreadyStarted},
	{standings.ErrNoTeams, ErrTeamsRequired},
	{standings.ErrDuplicateTeam, ErrValidationFailed},
	{standings.ErrTeamNotInTable, ErrTeamsNotEligible},
	{standings.ErrSameTeam, ErrSameTeams},
	{standings.ErrGroupNameRequired, ErrNameRequired},
	{standings.ErrGroupExists, ErrGroupNameConflict},
	{standings.ErrGroupNotFound, ErrGroupNotFound},
	{standings.ErrTeamInAnotherGroup, ErrTeamsNotEligible},
	{standings.ErrTeamsNotInGroup, ErrTeamsNotEligible},
	{standings.ErrFixtureAlreadyGrouped, ErrFixtureAlreadyPlaced},
	{standings.ErrInvalidQualification, ErrInvalidRules},
	{standings.ErrFixtureNotInGroup, ErrFixtureNotPlaced},

	{brackets.ErrRoundNameRequired, ErrNameRequired},
	{brackets.ErrRoundExists, ErrRoundNameConflict},
	{brackets.ErrRoundNotFound, ErrRoundNotFound},
	{brackets.ErrTeamsNotInRound, ErrTeamsNotEligible},
	{brackets.ErrFixtureAlreadyAssigned, ErrFixtureAlreadyPlaced},
	{brackets.ErrSeedOnlyFirstRound, ErrSeedOnlyFirstRound},
	{brackets.ErrDrawNotAllowed, ErrKnockoutDraw},
	{brackets.ErrNotEnoughTeams, ErrTeamsRequired},
	{brackets.ErrFixtureNotInRound, ErrFixtureNotPlaced},
	{brackets.ErrFixtureResolved, ErrAlreadyCompleted},
}

func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.from) {
			if err == m.from {
				return m.to
			}
			return fmt.Errorf("%w: %v", m.to, err)
		}
	}
	return err
}

func requireManager(actor models.Actor) error {
	if !actor.CanManageCompetitions() {
		return ErrForbiddenOperation
	}
	return nil
}

func requireFormat(c *models.Competition, allowed ...models.CompetitionFormat) error {
	for _, f := range allowed {
		if c.Format == f {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, f := range allowed {
		names[i] = string(f)
	}
	return fmt.Errorf("%w: competition %s is %s, expected %s", ErrWrongFormat, c.ID, c.Format, strings.Join(names, " or "))
}

func competitionLockKey(id string) string { return "competition:" + id }

func fixtureLockKey(id string) string { return "fixture:" + id }
