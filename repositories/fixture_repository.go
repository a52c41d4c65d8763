package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrFixtureNotFound           = errors.New("fixture not found")
	ErrFixtureTeamInvalid        = errors.New("fixture team does not exist")
	ErrFixtureCompetitionInvalid = errors.New("fixture competition does not exist")
	ErrFixtureTeamsEqual         = errors.New("fixture home and away team must differ")
)

type FixtureRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Fixture, error)
	// GetForUpdate locks the fixture row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Fixture, error)
	Update(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error
	CountCompleted(ctx context.Context, exec SQLExecutor, competitionID string) (int, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID string) ([]*models.Fixture, error)
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const fixtureColumns = `id, competition_id, home_team_id, away_team_id, status, kickoff_at, result, events,
	home_lineup, away_lineup, statistics, completed_at, created_at, updated_at`

var fixtureConstraints = map[string]error{
	"fixtures_home_team_id_fkey":    ErrFixtureTeamInvalid,
	"fixtures_away_team_id_fkey":    ErrFixtureTeamInvalid,
	"fixtures_competition_id_fkey":  ErrFixtureCompetitionInvalid,
	"fixtures_distinct_teams_check": ErrFixtureTeamsEqual,
}

func (r *postgresFixtureRepository) handleFixtureError(err error) error {
	if err == nil {
		return nil
	}
	mapped := constraintError(err, pqForeignKeyViolation, fixtureConstraints)
	if mapped != err {
		return mapped
	}
	return constraintError(err, pqCheckViolation, fixtureConstraints)
}

func (r *postgresFixtureRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Fixture) error {
	cols, err := encodeFixtureDocuments(f)
	if err != nil {
		return err
	}
	if f.Status == "" {
		f.Status = models.FixtureStatusScheduled
	}
	query := `
		INSERT INTO fixtures
			(id, competition_id, home_team_id, away_team_id, status, kickoff_at, result, events, home_lineup, away_lineup, statistics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		f.ID, f.CompetitionID, f.HomeTeamID, f.AwayTeamID, f.Status, f.KickoffAt,
		cols.result, cols.events, cols.homeLineup, cols.awayLineup, cols.statistics,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	return r.handleFixtureError(err)
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1`
	return scanFixture(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresFixtureRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1 FOR UPDATE`
	return scanFixture(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresFixtureRepository) Update(ctx context.Context, exec SQLExecutor, f *models.Fixture) error {
	cols, err := encodeFixtureDocuments(f)
	if err != nil {
		return err
	}
	f.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE fixtures SET
			status = $1, result = $2, events = $3, home_lineup = $4, away_lineup = $5,
			statistics = $6, completed_at = $7, updated_at = $8
		WHERE id = $9`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		f.Status, cols.result, cols.events, cols.homeLineup, cols.awayLineup,
		cols.statistics, f.CompletedAt, f.UpdatedAt, f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fixture %s: %w", f.ID, r.handleFixtureError(err))
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) CountCompleted(ctx context.Context, exec SQLExecutor, competitionID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM fixtures WHERE competition_id = $1 AND status = $2`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, competitionID, models.FixtureStatusCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed fixtures for competition %s: %w", competitionID, err)
	}
	return count, nil
}

func (r *postgresFixtureRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID string) ([]*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE competition_id = $1 ORDER BY kickoff_at ASC, id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixtures := make([]*models.Fixture, 0)
	for rows.Next() {
		f, errScan := scanFixture(rows)
		if errScan != nil {
			return nil, errScan
		}
		fixtures = append(fixtures, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

type fixtureDocuments struct {
	result, events, homeLineup, awayLineup, statistics interface{}
}

func encodeFixtureDocuments(f *models.Fixture) (fixtureDocuments, error) {
	var d fixtureDocuments
	if f.Result != nil {
		v, err := marshalJSONB(f.Result)
		if err != nil {
			return d, err
		}
		d.result = v
	}
	if f.Statistics != nil {
		v, err := marshalJSONB(f.Statistics)
		if err != nil {
			return d, err
		}
		d.statistics = v
	}
	events := f.Events
	if events == nil {
		events = []models.MatchEvent{}
	}
	var err error
	if d.events, err = marshalJSONB(events); err != nil {
		return d, err
	}
	if d.homeLineup, err = marshalJSONB(f.HomeLineup); err != nil {
		return d, err
	}
	d.awayLineup, err = marshalJSONB(f.AwayLineup)
	return d, err
}

func scanFixture(row interface{ Scan(...interface{}) error }) (*models.Fixture, error) {
	var (
		f                                                  models.Fixture
		competitionID                                      sql.NullString
		completedAt                                        sql.NullTime
		result, events, homeLineup, awayLineup, statistics []byte
	)
	err := row.Scan(
		&f.ID, &competitionID, &f.HomeTeamID, &f.AwayTeamID, &f.Status, &f.KickoffAt,
		&result, &events, &homeLineup, &awayLineup, &statistics,
		&completedAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	if competitionID.Valid {
		f.CompetitionID = &competitionID.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		f.CompletedAt = &t
	}
	for _, doc := range []struct {
		raw []byte
		dst interface{}
	}{
		{result, &f.Result},
		{events, &f.Events},
		{homeLineup, &f.HomeLineup},
		{awayLineup, &f.AwayLineup},
		{statistics, &f.Statistics},
	} {
		if err := unmarshalJSONB(doc.raw, doc.dst); err != nil {
			return nil, err
		}
	}
	return &f, nil
}
