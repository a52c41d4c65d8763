package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
)

type IntegrityReport struct {
	CompetitionID string   `json:"competition_id"`
	Violations    []string `json:"violations"`
}

func (r IntegrityReport) OK() bool { return len(r.Violations) == 0 }

// IntegrityService сверяет сохранённые таблицы и агрегаты с их инвариантами.
type IntegrityService interface {
	Verify(ctx context.Context, competitionID string) (*IntegrityReport, error)
	VerifyAll(ctx context.Context) ([]IntegrityReport, error)
}

type integrityService struct {
	competitionRepo repositories.CompetitionRepository
	fixtureRepo     repositories.FixtureRepository
	logger          *slog.Logger
}

func NewIntegrityService(competitionRepo repositories.CompetitionRepository, fixtureRepo repositories.FixtureRepository, logger *slog.Logger) IntegrityService {
	return &integrityService{competitionRepo: competitionRepo, fixtureRepo: fixtureRepo, logger: logger}
}

func (s *integrityService) Verify(ctx context.Context, competitionID string) (*IntegrityReport, error) {
	c, err := s.competitionRepo.GetByID(ctx, nil, competitionID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	completed, err := s.fixtureRepo.CountCompleted(ctx, nil, competitionID)
	if err != nil {
		return nil, fmt.Errorf("count completed fixtures: %w", err)
	}
	report := &IntegrityReport{CompetitionID: c.ID, Violations: checkCompetition(c, completed)}
	if !report.OK() {
		s.logger.Warn("competition integrity violations",
			slog.String("competition_id", c.ID),
			slog.Int("violations", len(report.Violations)))
	}
	return report, nil
}

func (s *integrityService) VerifyAll(ctx context.Context) ([]IntegrityReport, error) {
	ids, err := s.competitionRepo.ListIDs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	reports := make([]IntegrityReport, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := s.Verify(ctx, id)
		if err != nil {
			return reports, fmt.Errorf("verify competition %s: %w", id, err)
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

func checkCompetition(c *models.Competition, completedFixtures int) []string {
	violations := []string{}

	if c.League != nil {
		for _, v := range standings.Verify(c.League.Standings) {
			violations = append(violations, "league: "+v.String())
		}
	}
	for _, g := range c.Groups {
		for _, v := range standings.Verify(g.Standings) {
			violations = append(violations, "group "+g.Name+": "+v.String())
		}
	}

	st := c.Stats
	if st.Games != completedFixtures {
		violations = append(violations, fmt.Sprintf("stats: %d games recorded, %d fixtures completed", st.Games, completedFixtures))
	}
	if st.HomeWins+st.AwayWins+st.Draws != st.Games {
		violations = append(violations, fmt.Sprintf("stats: outcomes sum to %d, games %d", st.HomeWins+st.AwayWins+st.Draws, st.Games))
	}

	for _, r := range c.Knockout {
		known := make(map[string]bool, len(r.FixtureIDs))
		for _, id := range r.FixtureIDs {
			known[id] = true
		}
		for _, id := range r.ResolvedFixtureIDs {
			if !known[id] {
				violations = append(violations, fmt.Sprintf("knockout %s: resolved fixture %s is not in the round", r.Name, id))
			}
		}
		if r.Completed != (len(r.FixtureIDs) > 0 && len(r.ResolvedFixtureIDs) == len(r.FixtureIDs)) {
			violations = append(violations, fmt.Sprintf("knockout %s: completed flag does not match resolved fixtures", r.Name))
		}
	}
	return violations
}
