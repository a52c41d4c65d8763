package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultMatchdayInterval = 7 * 24 * time.Hour

type CreateCompetitionInput struct {
	Name   string                   `json:"name"`
	Season string                   `json:"season"`
	Format models.CompetitionFormat `json:"format"`
}

type AddGroupInput struct {
	Name          string                     `json:"name"`
	TeamIDs       []string                   `json:"team_ids"`
	Qualification []models.QualificationRule `json:"qualification,omitempty"`
}

type AddRoundInput struct {
	Name          string `json:"name"`
	FixtureFormat string `json:"fixture_format,omitempty"`
}

type GenerateKnockoutInput struct {
	TeamIDs   []string  `json:"team_ids"`
	KickoffAt time.Time `json:"kickoff_at"`
}

type ScheduleLeagueInput struct {
	Legs         int           `json:"legs"`
	FirstKickoff time.Time     `json:"first_kickoff"`
	Interval     time.Duration `json:"interval,omitempty"`
}

// ScheduleFixtureInput describes a single fixture. GroupName or RoundName
// places it into the competition structure in the same transaction.
type ScheduleFixtureInput struct {
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	KickoffAt  time.Time `json:"kickoff_at"`
	GroupName  string    `json:"group_name,omitempty"`
	RoundName  string    `json:"round_name,omitempty"`
}

type CompetitionService interface {
	CreateCompetition(ctx context.Context, actor models.Actor, input CreateCompetitionInput) (*models.Competition, error)

	InitializeLeague(ctx context.Context, actor models.Actor, competitionID string, teamIDs []string) (*models.Competition, error)
	ScheduleLeague(ctx context.Context, actor models.Actor, competitionID string, input ScheduleLeagueInput) ([]*models.Fixture, error)
	ScheduleFixture(ctx context.Context, actor models.Actor, competitionID *string, input ScheduleFixtureInput) (*models.Fixture, error)

	AddGroup(ctx context.Context, actor models.Actor, competitionID string, input AddGroupInput) (*models.Competition, error)
	AssignGroupFixture(ctx context.Context, actor models.Actor, competitionID, groupName, fixtureID string) (*models.Competition, error)
	RemoveGroupFixture(ctx context.Context, actor models.Actor, competitionID, groupName, fixtureID string) (*models.Competition, error)
	QualifyFromGroup(ctx context.Context, actor models.Actor, competitionID, groupName string) ([]standings.Qualifier, error)

	AddRound(ctx context.Context, actor models.Actor, competitionID string, input AddRoundInput) (*models.Competition, error)
	SeedRound(ctx context.Context, actor models.Actor, competitionID, roundName string, teamIDs []string) (*models.Competition, error)
	AssignRoundFixture(ctx context.Context, actor models.Actor, competitionID, roundName, fixtureID string) (*models.Competition, error)
	RemoveRoundFixture(ctx context.Context, actor models.Actor, competitionID, roundName, fixtureID string) (*models.Competition, error)
	GenerateKnockout(ctx context.Context, actor models.Actor, competitionID string, input GenerateKnockoutInput) (*models.Competition, []*models.Fixture, error)

	GetStandings(ctx context.Context, competitionID string) ([]models.StandingsEntry, error)
	GetGroup(ctx context.Context, competitionID, groupName string) (*models.Group, error)
	GetKnockoutRounds(ctx context.Context, competitionID string) ([]models.KnockoutRound, error)
	GetStats(ctx context.Context, competitionID string) (*models.StatsView, error)
	GetSnapshot(ctx context.Context, competitionID string) (*models.CompetitionSnapshot, error)
}

type competitionService struct {
	tx              repositories.TxRunner
	competitionRepo repositories.CompetitionRepository
	fixtureRepo     repositories.FixtureRepository
	teamRepo        repositories.TeamRepository
	audit           *auditLog
	publisher       events.Publisher
	locks           *CompetitionLocks
	logger          *slog.Logger
}

func NewCompetitionService(
	tx repositories.TxRunner,
	competitionRepo repositories.CompetitionRepository,
	fixtureRepo repositories.FixtureRepository,
	teamRepo repositories.TeamRepository,
	auditRepo repositories.AuditRepository,
	publisher events.Publisher,
	locks *CompetitionLocks,
	logger *slog.Logger,
) CompetitionService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &competitionService{
		tx:              tx,
		competitionRepo: competitionRepo,
		fixtureRepo:     fixtureRepo,
		teamRepo:        teamRepo,
		audit:           &auditLog{repo: auditRepo, logger: logger},
		publisher:       publisher,
		locks:           locks,
		logger:          logger,
	}
}

func (s *competitionService) CreateCompetition(ctx context.Context, actor models.Actor, input CreateCompetitionInput) (*models.Competition, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !input.Format.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, input.Format)
	}

	c := &models.Competition{
		ID:     uuid.NewString(),
		Name:   name,
		Season: strings.TrimSpace(input.Season),
		Format: input.Format,
	}
	if err := s.competitionRepo.Create(ctx, nil, c); err != nil {
		return nil, mapDomainError(err)
	}
	_ = s.audit.Record(ctx, actor, models.AuditCompetitionCreated, "competition", c.ID, nil, c)
	return c, nil
}

// mutate выполняет изменение соревнования под блокировкой и в транзакции,
// затем пишет аудит и публикует событие.
func (s *competitionService) mutate(
	ctx context.Context,
	actor models.Actor,
	competitionID string,
	action models.AuditAction,
	fn func(exec repositories.SQLExecutor, c *models.Competition) error,
) (*models.Competition, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(competitionLockKey(competitionID))
	defer unlock()

	var before json.RawMessage
	var after *models.Competition
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		c, err := s.competitionRepo.GetForUpdate(ctx, exec, competitionID)
		if err != nil {
			return mapDomainError(err)
		}
		before = toRawJSON(c)
		if err := fn(exec, c); err != nil {
			return err
		}
		if err := s.competitionRepo.Save(ctx, exec, c); err != nil {
			return mapDomainError(err)
		}
		after = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("competition updated",
		slog.String("competition_id", competitionID),
		slog.String("action", string(action)))

	sideCtx := context.WithoutCancel(ctx)
	_ = s.audit.Record(sideCtx, actor, action, "competition", competitionID, before, after)
	if err := s.publisher.Publish(sideCtx, events.New(events.CompetitionUpdated, competitionID, "", map[string]interface{}{
		"action":      action,
		"competition": after,
	})); err != nil {
		s.logger.Warn("failed to publish competition update",
			slog.String("competition_id", competitionID),
			slog.Any("error", err))
	}
	return after, nil
}

func (s *competitionService) ensureTeams(ctx context.Context, exec repositories.SQLExecutor, teamIDs []string) error {
	if len(teamIDs) == 0 {
		return ErrTeamsRequired
	}
	missing, err := s.teamRepo.MissingIDs(ctx, exec, teamIDs)
	if err != nil {
		return fmt.Errorf("check teams: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrTeamNotFound, strings.Join(missing, ", "))
	}
	return nil
}

// placeableFixture проверяет, что матч принадлежит соревнованию и ещё не сыгран.
func (s *competitionService) placeableFixture(ctx context.Context, exec repositories.SQLExecutor, c *models.Competition, fixtureID string) (*models.Fixture, error) {
	f, err := s.fixtureRepo.GetByID(ctx, exec, fixtureID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if derefString(f.CompetitionID) != c.ID {
		return nil, fmt.Errorf("%w: fixture %s", ErrFixtureOtherCompetition, f.ID)
	}
	if f.IsCompleted() {
		return nil, fmt.Errorf("%w: fixture %s", ErrAlreadyCompleted, f.ID)
	}
	return f, nil
}

func (s *competitionService) InitializeLeague(ctx context.Context, actor models.Actor, competitionID string, teamIDs []string) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditLeagueInitialized, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatLeague); err != nil {
			return err
		}
		if err := s.ensureTeams(ctx, exec, teamIDs); err != nil {
			return err
		}
		var existing []models.StandingsEntry
		if c.League != nil {
			existing = c.League.Standings
		}
		table, err := standings.Initialize(existing, teamIDs)
		if err != nil {
			return mapDomainError(err)
		}
		c.League = &models.LeagueTable{Standings: table}
		return nil
	})
}

func (s *competitionService) ScheduleLeague(ctx context.Context, actor models.Actor, competitionID string, input ScheduleLeagueInput) ([]*models.Fixture, error) {
	if input.Legs <= 0 {
		input.Legs = 1
	}
	if input.Interval <= 0 {
		input.Interval = defaultMatchdayInterval
	}

	var created []*models.Fixture
	_, err := s.mutate(ctx, actor, competitionID, models.AuditLeagueScheduled, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatLeague); err != nil {
			return err
		}
		if c.League == nil || len(c.League.Standings) == 0 {
			return fmt.Errorf("%w: league table is not initialized", ErrStructureMissing)
		}
		existing, err := s.fixtureRepo.ListByCompetition(ctx, exec, c.ID)
		if err != nil {
			return fmt.Errorf("list fixtures: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: competition already has %d fixtures", ErrLeagueAlreadyStarted, len(existing))
		}

		teamIDs := make([]string, len(c.League.Standings))
		for i, e := range c.League.Standings {
			teamIDs[i] = e.TeamID
		}
		pairings, err := brackets.GenerateLeagueSchedule(teamIDs, input.Legs)
		if err != nil {
			return mapDomainError(err)
		}
		for _, p := range pairings {
			kickoff := input.FirstKickoff.Add(time.Duration(p.Matchday-1) * input.Interval)
			f, err := s.createFixture(ctx, exec, c.ID, p.HomeTeamID, p.AwayTeamID, kickoff)
			if err != nil {
				return err
			}
			created = append(created, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// newFixture собирает запланированный матч. Пустой competitionID означает товарищеский матч.
func newFixture(competitionID, homeTeamID, awayTeamID string, kickoff time.Time) *models.Fixture {
	var compID *string
	if competitionID != "" {
		compID = &competitionID
	}
	return &models.Fixture{
		ID:            uuid.NewString(),
		CompetitionID: compID,
		HomeTeamID:    homeTeamID,
		AwayTeamID:    awayTeamID,
		Status:        models.FixtureStatusScheduled,
		KickoffAt:     kickoff.UTC(),
		Events:        []models.MatchEvent{},
	}
}

func (s *competitionService) createFixture(ctx context.Context, exec repositories.SQLExecutor, competitionID, homeTeamID, awayTeamID string, kickoff time.Time) (*models.Fixture, error) {
	f := newFixture(competitionID, homeTeamID, awayTeamID, kickoff)
	if err := s.fixtureRepo.Create(ctx, exec, f); err != nil {
		return nil, mapDomainError(err)
	}
	return f, nil
}

// ScheduleFixture создаёт один матч. Без соревнования это товарищеский матч,
// иначе команды проверяются по структуре соревнования.
func (s *competitionService) ScheduleFixture(ctx context.Context, actor models.Actor, competitionID *string, input ScheduleFixtureInput) (*models.Fixture, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	home := strings.TrimSpace(input.HomeTeamID)
	away := strings.TrimSpace(input.AwayTeamID)
	if home == "" || away == "" {
		return nil, ErrTeamsRequired
	}
	if home == away {
		return nil, ErrSameTeams
	}
	if input.GroupName != "" && input.RoundName != "" {
		return nil, ErrPlacementAmbiguous
	}

	if competitionID == nil {
		return s.scheduleFriendly(ctx, actor, home, away, input)
	}

	var created *models.Fixture
	_, err := s.mutate(ctx, actor, *competitionID, models.AuditFixtureScheduled, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := s.ensureTeams(ctx, exec, []string{home, away}); err != nil {
			return err
		}
		if err := checkPlacement(c, home, away, input); err != nil {
			return err
		}
		// структура проверяется до вставки матча
		f := newFixture(c.ID, home, away, input.KickoffAt)
		switch {
		case input.GroupName != "":
			groups, err := standings.AssignGroupFixture(c.Groups, input.GroupName, f.ID, home, away)
			if err != nil {
				return mapDomainError(err)
			}
			c.Groups = groups
		case input.RoundName != "":
			rounds, err := brackets.AssignFixture(c.Knockout, input.RoundName, f.ID, home, away)
			if err != nil {
				return mapDomainError(err)
			}
			c.Knockout = rounds
		}
		if err := s.fixtureRepo.Create(ctx, exec, f); err != nil {
			return mapDomainError(err)
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// checkPlacement отклоняет матч, который соревнование не сможет принять при завершении.
func checkPlacement(c *models.Competition, home, away string, input ScheduleFixtureInput) error {
	switch c.Format {
	case models.FormatLeague:
		if input.GroupName != "" || input.RoundName != "" {
			return fmt.Errorf("%w: league fixtures have no group or round", ErrWrongFormat)
		}
		if c.League == nil || len(c.League.Standings) == 0 {
			return fmt.Errorf("%w: league table is not initialized", ErrStructureMissing)
		}
		_, homeOK := standings.Lookup(c.League.Standings, home)
		_, awayOK := standings.Lookup(c.League.Standings, away)
		if !homeOK || !awayOK {
			return fmt.Errorf("%w: teams are not in the league table", ErrTeamsNotEligible)
		}
	case models.FormatKnockout:
		if input.GroupName != "" {
			return fmt.Errorf("%w: knockout competitions have no groups", ErrWrongFormat)
		}
		if input.RoundName == "" {
			return fmt.Errorf("%w: knockout fixture needs a round", ErrStructureMissing)
		}
	case models.FormatHybrid:
		if input.GroupName == "" && input.RoundName == "" {
			return fmt.Errorf("%w: fixture needs a group or a round", ErrStructureMissing)
		}
	}
	return nil
}

func (s *competitionService) scheduleFriendly(ctx context.Context, actor models.Actor, home, away string, input ScheduleFixtureInput) (*models.Fixture, error) {
	if input.GroupName != "" || input.RoundName != "" {
		return nil, fmt.Errorf("%w: friendly fixtures have no group or round", ErrStructureMissing)
	}
	var created *models.Fixture
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.ensureTeams(ctx, exec, []string{home, away}); err != nil {
			return err
		}
		f, err := s.createFixture(ctx, exec, "", home, away, input.KickoffAt)
		if err != nil {
			return err
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("friendly fixture scheduled", slog.String("fixture_id", created.ID))
	_ = s.audit.Record(context.WithoutCancel(ctx), actor, models.AuditFixtureScheduled, "fixture", created.ID, nil, created)
	return created, nil
}

func (s *competitionService) AddGroup(ctx context.Context, actor models.Actor, competitionID string, input AddGroupInput) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditGroupAdded, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatHybrid); err != nil {
			return err
		}
		if err := s.ensureTeams(ctx, exec, input.TeamIDs); err != nil {
			return err
		}
		groups, err := standings.AddGroup(c.Groups, input.Name, input.TeamIDs, input.Qualification)
		if err != nil {
			return mapDomainError(err)
		}
		c.Groups = groups
		return nil
	})
}

func (s *competitionService) AssignGroupFixture(ctx context.Context, actor models.Actor, competitionID, groupName, fixtureID string) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditGroupFixture, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatHybrid); err != nil {
			return err
		}
		f, err := s.placeableFixture(ctx, exec, c, fixtureID)
		if err != nil {
			return err
		}
		if _, ok := brackets.FindRound(c.Knockout, f.ID); ok {
			return fmt.Errorf("%w: fixture %s is in the knockout bracket", ErrFixtureAlreadyPlaced, f.ID)
		}
		groups, err := standings.AssignGroupFixture(c.Groups, groupName, f.ID, f.HomeTeamID, f.AwayTeamID)
		if err != nil {
			return mapDomainError(err)
		}
		c.Groups = groups
		return nil
	})
}

// RemoveGroupFixture убирает несыгранный матч из группы. Сам матч остаётся в базе.
func (s *competitionService) RemoveGroupFixture(ctx context.Context, actor models.Actor, competitionID, groupName, fixtureID string) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditGroupFixtureRemove, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatHybrid); err != nil {
			return err
		}
		if _, err := s.placeableFixture(ctx, exec, c, fixtureID); err != nil {
			return err
		}
		groups, err := standings.RemoveGroupFixture(c.Groups, groupName, fixtureID)
		if err != nil {
			return mapDomainError(err)
		}
		c.Groups = groups
		return nil
	})
}

// QualifyFromGroup переносит команды из завершённой группы в раунды плей-офф
// согласно правилам квалификации группы.
func (s *competitionService) QualifyFromGroup(ctx context.Context, actor models.Actor, competitionID, groupName string) ([]standings.Qualifier, error) {
	var qualifiers []standings.Qualifier
	_, err := s.mutate(ctx, actor, competitionID, models.AuditGroupQualified, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatHybrid); err != nil {
			return err
		}
		gi, ok := standings.FindGroupByName(c.Groups, groupName)
		if !ok {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
		}
		group := c.Groups[gi]
		if len(group.Qualification) == 0 {
			return fmt.Errorf("%w: group %s has no qualification rules", ErrInvalidRules, group.Name)
		}

		fixtures, err := s.fixtureRepo.ListByCompetition(ctx, exec, c.ID)
		if err != nil {
			return fmt.Errorf("list fixtures: %w", err)
		}
		status := make(map[string]models.FixtureStatus, len(fixtures))
		for _, f := range fixtures {
			status[f.ID] = f.Status
		}
		for _, id := range group.FixtureIDs {
			if status[id] != models.FixtureStatusCompleted {
				return fmt.Errorf("%w: group %s still has unplayed fixtures", ErrInvalidTransition, group.Name)
			}
		}

		qualifiers = standings.Qualifiers(group)
		byRound := make(map[string][]string)
		var order []string
		for _, q := range qualifiers {
			if _, ok := byRound[q.Destination]; !ok {
				order = append(order, q.Destination)
			}
			byRound[q.Destination] = append(byRound[q.Destination], q.TeamID)
		}
		rounds := c.Knockout
		for _, name := range order {
			if _, ok := brackets.FindRoundByName(rounds, name); !ok {
				return fmt.Errorf("%w: %s", ErrRoundNotFound, name)
			}
			rounds, err = brackets.SeedRound(rounds, name, byRound[name])
			if err != nil {
				return mapDomainError(err)
			}
		}
		c.Knockout = rounds
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qualifiers, nil
}

func (s *competitionService) AddRound(ctx context.Context, actor models.Actor, competitionID string, input AddRoundInput) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditRoundAdded, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatKnockout, models.FormatHybrid); err != nil {
			return err
		}
		rounds, err := brackets.AddRound(c.Knockout, input.Name, input.FixtureFormat)
		if err != nil {
			return mapDomainError(err)
		}
		c.Knockout = rounds
		return nil
	})
}

func (s *competitionService) SeedRound(ctx context.Context, actor models.Actor, competitionID, roundName string, teamIDs []string) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditRoundSeeded, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatKnockout, models.FormatHybrid); err != nil {
			return err
		}
		if err := s.ensureTeams(ctx, exec, teamIDs); err != nil {
			return err
		}
		rounds, err := brackets.SeedRound(c.Knockout, roundName, teamIDs)
		if err != nil {
			return mapDomainError(err)
		}
		c.Knockout = rounds
		return nil
	})
}

func (s *competitionService) AssignRoundFixture(ctx context.Context, actor models.Actor, competitionID, roundName, fixtureID string) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditRoundFixture, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatKnockout, models.FormatHybrid); err != nil {
			return err
		}
		f, err := s.placeableFixture(ctx, exec, c, fixtureID)
		if err != nil {
			return err
		}
		if _, ok := standings.FindGroup(c.Groups, f.ID); ok {
			return fmt.Errorf("%w: fixture %s belongs to a group", ErrFixtureAlreadyPlaced, f.ID)
		}
		rounds, err := brackets.AssignFixture(c.Knockout, roundName, f.ID, f.HomeTeamID, f.AwayTeamID)
		if err != nil {
			return mapDomainError(err)
		}
		c.Knockout = rounds
		return nil
	})
}

// RemoveRoundFixture убирает несыгранный матч из раунда; команды остаются в раунде.
func (s *competitionService) RemoveRoundFixture(ctx context.Context, actor models.Actor, competitionID, roundName, fixtureID string) (*models.Competition, error) {
	return s.mutate(ctx, actor, competitionID, models.AuditRoundFixtureRemove, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatKnockout, models.FormatHybrid); err != nil {
			return err
		}
		if _, err := s.placeableFixture(ctx, exec, c, fixtureID); err != nil {
			return err
		}
		rounds, err := brackets.RemoveFixture(c.Knockout, roundName, fixtureID)
		if err != nil {
			return mapDomainError(err)
		}
		c.Knockout = rounds
		return nil
	})
}

// GenerateKnockout строит сетку на выбывание с нуля: раунды, посев и матчи первого раунда.
func (s *competitionService) GenerateKnockout(ctx context.Context, actor models.Actor, competitionID string, input GenerateKnockoutInput) (*models.Competition, []*models.Fixture, error) {
	var created []*models.Fixture
	c, err := s.mutate(ctx, actor, competitionID, models.AuditKnockoutGenerated, func(exec repositories.SQLExecutor, c *models.Competition) error {
		if err := requireFormat(c, models.FormatKnockout); err != nil {
			return err
		}
		if len(c.Knockout) > 0 {
			return fmt.Errorf("%w: bracket already has %d rounds", ErrInvalidTransition, len(c.Knockout))
		}
		if err := s.ensureTeams(ctx, exec, input.TeamIDs); err != nil {
			return err
		}
		plan, err := brackets.GenerateRounds(input.TeamIDs)
		if err != nil {
			return mapDomainError(err)
		}
		rounds := plan.Rounds
		for _, p := range plan.Pairings {
			f, err := s.createFixture(ctx, exec, c.ID, p.HomeTeamID, p.AwayTeamID, input.KickoffAt)
			if err != nil {
				return err
			}
			rounds, err = brackets.AssignFixture(rounds, p.RoundName, f.ID, f.HomeTeamID, f.AwayTeamID)
			if err != nil {
				return mapDomainError(err)
			}
			created = append(created, f)
		}
		c.Knockout = rounds
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return c, created, nil
}

func (s *competitionService) load(ctx context.Context, competitionID string) (*models.Competition, error) {
	c, err := s.competitionRepo.GetByID(ctx, nil, competitionID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return c, nil
}

func (s *competitionService) GetStandings(ctx context.Context, competitionID string) ([]models.StandingsEntry, error) {
	c, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if c.League == nil {
		return nil, fmt.Errorf("%w: competition %s", ErrLeagueNotFound, competitionID)
	}
	return c.League.Standings, nil
}

func (s *competitionService) GetGroup(ctx context.Context, competitionID, groupName string) (*models.Group, error) {
	c, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	gi, ok := standings.FindGroupByName(c.Groups, groupName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
	}
	g := c.Groups[gi]
	return &g, nil
}

func (s *competitionService) GetKnockoutRounds(ctx context.Context, competitionID string) ([]models.KnockoutRound, error) {
	c, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if c.Knockout == nil {
		return []models.KnockoutRound{}, nil
	}
	return c.Knockout, nil
}

func (s *competitionService) GetStats(ctx context.Context, competitionID string) (*models.StatsView, error) {
	c, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	v := standings.View(c.Stats)
	return &v, nil
}

func (s *competitionService) GetSnapshot(ctx context.Context, competitionID string) (*models.CompetitionSnapshot, error) {
	return loadSnapshot(ctx, s.competitionRepo, s.fixtureRepo, competitionID)
}

// loadSnapshot читает соревнование и его матчи параллельно.
func loadSnapshot(ctx context.Context, competitionRepo repositories.CompetitionRepository, fixtureRepo repositories.FixtureRepository, competitionID string) (*models.CompetitionSnapshot, error) {
	var (
		competition *models.Competition
		fixtures    []*models.Fixture
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := competitionRepo.GetByID(gCtx, nil, competitionID)
		if err != nil {
			return mapDomainError(err)
		}
		competition = c
		return nil
	})
	g.Go(func() error {
		list, err := fixtureRepo.ListByCompetition(gCtx, nil, competitionID)
		if err != nil {
			return fmt.Errorf("list fixtures: %w", err)
		}
		fixtures = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if fixtures == nil {
		fixtures = []*models.Fixture{}
	}
	return &models.CompetitionSnapshot{
		Competition: competition,
		Stats:       standings.View(competition.Stats),
		Fixtures:    fixtures,
	}, nil
}
