package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dosada05/league-system/models"
)

type AuditRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.AuditEntry) error
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAuditRepository) Create(ctx context.Context, exec SQLExecutor, e *models.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, previous_values, new_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.getExecutor(exec).ExecContext(ctx, query,
		e.ID, e.ActorID, e.Action, e.Entity, e.EntityID,
		jsonbOrNull(e.PreviousValues), jsonbOrNull(e.NewValues), e.CreatedAt,
	)
	return err
}

func jsonbOrNull(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
