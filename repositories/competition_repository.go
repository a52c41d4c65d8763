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
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameConflict = errors.New("competition with this name already exists for the season")
)

type CompetitionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, competition *models.Competition) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Competition, error)
	// GetForUpdate locks the competition row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Competition, error)
	Save(ctx context.Context, exec SQLExecutor, competition *models.Competition) error
	ListIDs(ctx context.Context, exec SQLExecutor) ([]string, error)
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const competitionColumns = `id, name, season, format, league, groups, knockout, stats, created_at, updated_at`

func (r *postgresCompetitionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	league, groups, knockout, stats, err := encodeCompetitionState(c)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO competitions (id, name, season, format, league, groups, knockout, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err = r.getExecutor(exec).QueryRowContext(ctx, query,
		c.ID, c.Name, c.Season, c.Format, league, groups, knockout, stats,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return constraintError(err, pqUniqueViolation, map[string]error{
			"competitions_name_season_key": ErrCompetitionNameConflict,
		})
	}
	return nil
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`
	return scanCompetition(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1 FOR UPDATE`
	return scanCompetition(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresCompetitionRepository) Save(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	league, groups, knockout, stats, err := encodeCompetitionState(c)
	if err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE competitions
		SET league = $1, groups = $2, knockout = $3, stats = $4, updated_at = $5
		WHERE id = $6`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, league, groups, knockout, stats, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to save competition %s: %w", c.ID, err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) ListIDs(ctx context.Context, exec SQLExecutor) ([]string, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, `SELECT id FROM competitions ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func encodeCompetitionState(c *models.Competition) (league, groups, knockout, stats string, err error) {
	if league, err = marshalJSONB(c.League); err != nil {
		return
	}
	if groups, err = marshalJSONB(c.Groups); err != nil {
		return
	}
	if knockout, err = marshalJSONB(c.Knockout); err != nil {
		return
	}
	stats, err = marshalJSONB(c.Stats)
	return
}

func scanCompetition(row interface{ Scan(...interface{}) error }) (*models.Competition, error) {
	var (
		c                                 models.Competition
		league, groups, knockout, rawStat []byte
	)
	err := row.Scan(&c.ID, &c.Name, &c.Season, &c.Format, &league, &groups, &knockout, &rawStat, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(league, &c.League); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(groups, &c.Groups); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(knockout, &c.Knockout); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(rawStat, &c.Stats); err != nil {
		return nil, err
	}
	return &c, nil
}
