package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/league-system/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerStatsRepository interface {
	ApplyStatDelta(ctx context.Context, exec SQLExecutor, delta models.PlayerStatDelta) error
}

type postgresPlayerStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatsRepository(db *sql.DB) PlayerStatsRepository {
	return &postgresPlayerStatsRepository{db: db}
}

func (r *postgresPlayerStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerStatsRepository) ApplyStatDelta(ctx context.Context, exec SQLExecutor, delta models.PlayerStatDelta) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_competition_stats (player_id, competition_id, stat, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, competition_id, stat)
		DO UPDATE SET value = player_competition_stats.value + EXCLUDED.value`

	stats := make([]string, 0, len(delta.Deltas))
	for stat := range delta.Deltas {
		stats = append(stats, string(stat))
	}
	sort.Strings(stats) // фиксированный порядок строк, чтобы не ловить взаимные блокировки

	for _, stat := range stats {
		value := delta.Deltas[models.PlayerStat(stat)]
		if value == 0 {
			continue
		}
		if _, err := executor.ExecContext(ctx, query, delta.PlayerID, delta.CompetitionID, stat, value); err != nil {
			err = constraintError(err, pqForeignKeyViolation, map[string]error{
				"player_competition_stats_player_id_fkey": ErrPlayerNotFound,
			})
			return fmt.Errorf("failed to apply %s for player %s: %w", stat, delta.PlayerID, err)
		}
	}
	return nil
}
