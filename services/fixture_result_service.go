package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
	"golang.org/x/sync/errgroup"
)

const playerStatsWorkers = 4

type CompleteFixtureInput struct {
	CompetitionID *string                   `json:"competition_id,omitempty"`
	FixtureID     string                    `json:"fixture_id"`
	Result        models.FixtureResult      `json:"result"`
	Statistics    *models.FixtureStatistics `json:"statistics,omitempty"`
	Events        []models.MatchEvent       `json:"events,omitempty"`
	HomeLineup    *models.Lineup            `json:"home_lineup,omitempty"`
	AwayLineup    *models.Lineup            `json:"away_lineup,omitempty"`
}

// CompletionResult описывает, что изменилось после завершения матча.
// Notes содержит некритичные замечания: матч вне сетки, финал, сбой побочных действий.
type CompletionResult struct {
	Fixture     *models.Fixture       `json:"fixture"`
	Competition *models.Competition   `json:"competition,omitempty"`
	Outcome     standings.Outcome     `json:"outcome"`
	Structure   string                `json:"structure,omitempty"`
	Advancement *brackets.Advancement `json:"advancement,omitempty"`
	Notes       []string              `json:"notes,omitempty"`
}

type FixtureResultService interface {
	CompleteFixture(ctx context.Context, actor models.Actor, input CompleteFixtureInput) (*CompletionResult, error)
}

type fixtureResultService struct {
	tx              repositories.TxRunner
	fixtureRepo     repositories.FixtureRepository
	competitionRepo repositories.CompetitionRepository
	playerStatsRepo repositories.PlayerStatsRepository
	audit           *auditLog
	publisher       events.Publisher
	locks           *CompetitionLocks
	logger          *slog.Logger
}

func NewFixtureResultService(
	tx repositories.TxRunner,
	fixtureRepo repositories.FixtureRepository,
	competitionRepo repositories.CompetitionRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	auditRepo repositories.AuditRepository,
	publisher events.Publisher,
	locks *CompetitionLocks,
	logger *slog.Logger,
) FixtureResultService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &fixtureResultService{
		tx:              tx,
		fixtureRepo:     fixtureRepo,
		competitionRepo: competitionRepo,
		playerStatsRepo: playerStatsRepo,
		audit:           &auditLog{repo: auditRepo, logger: logger},
		publisher:       publisher,
		locks:           locks,
		logger:          logger,
	}
}

func validateResult(r *models.FixtureResult) error {
	if r.HomeScore < 0 || r.AwayScore < 0 {
		return ErrNegativeScore
	}
	if (r.HomePenalty == nil) != (r.AwayPenalty == nil) {
		return ErrPenaltiesIncomplete
	}
	if r.HasPenalties() {
		if *r.HomePenalty < 0 || *r.AwayPenalty < 0 {
			return ErrNegativeScore
		}
		if r.HomeScore != r.AwayScore {
			return ErrShootoutNotLevel
		}
		r.IsPenaltyShootout = true
	} else if r.IsPenaltyShootout {
		return ErrPenaltiesIncomplete
	}
	return nil
}

// lockKey определяет ключ блокировки до начала транзакции.
// Все матчи одного соревнования обрабатываются строго по очереди.
func (s *fixtureResultService) lockKey(ctx context.Context, input CompleteFixtureInput) (string, error) {
	if id := derefString(input.CompetitionID); id != "" {
		return competitionLockKey(id), nil
	}
	f, err := s.fixtureRepo.GetByID(ctx, nil, input.FixtureID)
	if err != nil {
		return "", mapDomainError(err)
	}
	if f.IsFriendly() {
		return fixtureLockKey(f.ID), nil
	}
	return competitionLockKey(*f.CompetitionID), nil
}

type completionState struct {
	fixture     *models.Fixture
	previous    json.RawMessage
	competition *models.Competition
	outcome     standings.Outcome
	structure   string
	advancement *brackets.Advancement
	notes       []string
}

func (s *fixtureResultService) CompleteFixture(ctx context.Context, actor models.Actor, input CompleteFixtureInput) (*CompletionResult, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if input.FixtureID == "" {
		return nil, fmt.Errorf("%w: fixture id is required", ErrValidationFailed)
	}
	if err := validateResult(&input.Result); err != nil {
		return nil, err
	}

	key, err := s.lockKey(ctx, input)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	var st completionState
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		st, txErr = s.completeInTx(ctx, exec, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixture completed",
		slog.String("fixture_id", st.fixture.ID),
		slog.String("competition_id", derefString(st.fixture.CompetitionID)),
		slog.String("outcome", string(st.outcome)),
		slog.String("structure", st.structure))

	// Побочные действия выполняются после фиксации и не откатывают результат.
	sideCtx := context.WithoutCancel(ctx)
	st.notes = append(st.notes, s.applyPlayerStats(sideCtx, st.fixture)...)
	if err := s.audit.Record(sideCtx, actor, models.AuditFixtureCompleted, "fixture", st.fixture.ID, st.previous, st.fixture); err != nil {
		st.notes = append(st.notes, "audit entry was not written")
	}
	st.notes = append(st.notes, s.publish(sideCtx, st)...)

	return &CompletionResult{
		Fixture:     st.fixture,
		Competition: st.competition,
		Outcome:     st.outcome,
		Structure:   st.structure,
		Advancement: st.advancement,
		Notes:       st.notes,
	}, nil
}

func (s *fixtureResultService) completeInTx(ctx context.Context, exec repositories.SQLExecutor, input CompleteFixtureInput) (completionState, error) {
	var st completionState

	fixture, err := s.fixtureRepo.GetForUpdate(ctx, exec, input.FixtureID)
	if err != nil {
		return st, mapDomainError(err)
	}
	if id := derefString(input.CompetitionID); id != "" && derefString(fixture.CompetitionID) != id {
		return st, fmt.Errorf("%w: %s is not part of competition %s", ErrFixtureNotFound, fixture.ID, id)
	}
	switch fixture.Status {
	case models.FixtureStatusCompleted:
		return st, ErrAlreadyCompleted
	case models.FixtureStatusPostponed:
		return st, ErrFixturePostponed
	}

	st.previous = toRawJSON(fixture)
	st.outcome = standings.DetermineOutcome(input.Result)

	if !fixture.IsFriendly() {
		competition, err := s.competitionRepo.GetForUpdate(ctx, exec, *fixture.CompetitionID)
		if err != nil {
			return st, mapDomainError(err)
		}
		if err := applyToStructure(&st, competition, fixture, input.Result); err != nil {
			return st, err
		}
	}

	now := time.Now().UTC()
	result := input.Result
	fixture.Result = &result
	fixture.Status = models.FixtureStatusCompleted
	fixture.CompletedAt = &now
	fixture.Statistics = mergeStatistics(fixture.Statistics, input.Statistics)
	if input.Events != nil {
		fixture.Events = input.Events
	}
	if input.HomeLineup != nil {
		fixture.HomeLineup = *input.HomeLineup
	}
	if input.AwayLineup != nil {
		fixture.AwayLineup = *input.AwayLineup
	}
	if err := s.fixtureRepo.Update(ctx, exec, fixture); err != nil {
		return st, mapDomainError(err)
	}
	st.fixture = fixture

	if st.competition == nil {
		return st, nil
	}

	completed, err := s.fixtureRepo.CountCompleted(ctx, exec, st.competition.ID)
	if err != nil {
		return st, fmt.Errorf("count completed fixtures: %w", err)
	}
	yellow, red := cardCounts(fixture)
	st.competition.Stats = standings.RecordStats(st.competition.Stats, completed-1, standings.Sample{
		Outcome:     st.outcome,
		Goals:       result.HomeScore + result.AwayScore,
		YellowCards: yellow,
		RedCards:    red,
	})
	if err := s.competitionRepo.Save(ctx, exec, st.competition); err != nil {
		return st, mapDomainError(err)
	}
	return st, nil
}

// applyToStructure применяет результат к таблице, группе или сетке соревнования.
// Исходный объект не меняется; новое состояние кладётся в st.competition.
func applyToStructure(st *completionState, competition *models.Competition, fixture *models.Fixture, result models.FixtureResult) error {
	c := *competition
	home, away := fixture.HomeTeamID, fixture.AwayTeamID

	switch c.Format {
	case models.FormatLeague:
		if c.League == nil || len(c.League.Standings) == 0 {
			return fmt.Errorf("%w: league table of %s is not initialized", ErrStructureMissing, c.ID)
		}
		table, err := standings.ApplyResult(c.League.Standings, home, away, result)
		if err != nil {
			return mapDomainError(err)
		}
		c.League = &models.LeagueTable{Standings: table}
		st.structure = "league"

	case models.FormatHybrid:
		groups, groupName, found, err := standings.ApplyGroupResult(c.Groups, fixture.ID, home, away, result)
		if err != nil {
			return mapDomainError(err)
		}
		if found {
			c.Groups = groups
			st.structure = "group:" + groupName
			break
		}
		if err := advanceBracket(st, &c, fixture); err != nil {
			return err
		}

	case models.FormatKnockout:
		if err := advanceBracket(st, &c, fixture); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	st.competition = &c
	return nil
}

func advanceBracket(st *completionState, c *models.Competition, fixture *models.Fixture) error {
	if err := brackets.CheckResult(c.Knockout, fixture.ID, st.outcome); err != nil {
		return mapDomainError(err)
	}
	rounds, adv, err := brackets.AdvanceOnResult(c.Knockout, fixture.ID, fixture.HomeTeamID, fixture.AwayTeamID, st.outcome)
	if err != nil {
		return mapDomainError(err)
	}
	c.Knockout = rounds
	if adv.Note != "" {
		st.notes = append(st.notes, adv.Note)
	}
	if adv.RoundName != "" {
		st.structure = "knockout:" + adv.RoundName
		st.advancement = &adv
	}
	return nil
}

func (s *fixtureResultService) applyPlayerStats(ctx context.Context, fixture *models.Fixture) []string {
	if s.playerStatsRepo == nil {
		return nil
	}
	deltas := playerDeltas(fixture, derefString(fixture.CompetitionID))
	if len(deltas) == 0 {
		return nil
	}

	// Ошибка одного игрока не отменяет обновления остальных.
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(playerStatsWorkers)
	for _, d := range deltas {
		g.Go(func() error {
			if err := s.playerStatsRepo.ApplyStatDelta(ctx, nil, d); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("player %s: %w", d.PlayerID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	err := errors.Join(errs...)
	s.logger.Error("failed to update player statistics",
		slog.String("fixture_id", fixture.ID),
		slog.Int("failed", len(errs)),
		slog.Int("total", len(deltas)),
		slog.Any("error", err))
	return []string{fmt.Sprintf("player statistics update failed for %d of %d players: %s",
		len(errs), len(deltas), strings.ReplaceAll(err.Error(), "\n", "; "))}
}

func (s *fixtureResultService) publish(ctx context.Context, st completionState) []string {
	competitionID := derefString(st.fixture.CompetitionID)
	list := []events.Event{
		events.New(events.FixtureCompleted, competitionID, st.fixture.ID, map[string]interface{}{
			"fixture":   st.fixture,
			"outcome":   st.outcome,
			"structure": st.structure,
		}),
	}
	if st.competition != nil {
		switch {
		case st.advancement != nil:
			list = append(list, events.New(events.KnockoutAdvanced, competitionID, st.fixture.ID, st.advancement))
		case st.competition.League != nil && st.structure == "league":
			list = append(list, events.New(events.StandingsUpdated, competitionID, st.fixture.ID, st.competition.League.Standings))
		default:
			if gi, ok := standings.FindGroup(st.competition.Groups, st.fixture.ID); ok {
				list = append(list, events.New(events.StandingsUpdated, competitionID, st.fixture.ID, st.competition.Groups[gi]))
			}
		}
	}

	var errs []error
	for _, e := range list {
		if err := s.publisher.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("failed to publish fixture events",
			slog.String("fixture_id", st.fixture.ID),
			slog.Any("error", err))
		return []string{"event delivery failed"}
	}
	return nil
}
