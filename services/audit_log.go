package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/google/uuid"
)

// auditLog пишет записи аудита после фиксации транзакции.
// Ошибка записи логируется и не откатывает основное изменение.
type auditLog struct {
	repo   repositories.AuditRepository
	logger *slog.Logger
}

func (a *auditLog) Record(ctx context.Context, actor models.Actor, action models.AuditAction, entity, entityID string, previous, next interface{}) error {
	if a == nil || a.repo == nil {
		return nil
	}
	entry := &models.AuditEntry{
		ID:             uuid.NewString(),
		ActorID:        actor.UserID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		PreviousValues: toRawJSON(previous),
		NewValues:      toRawJSON(next),
	}
	if err := a.repo.Create(ctx, nil, entry); err != nil {
		a.logger.Error("failed to write audit entry",
			slog.String("action", string(action)),
			slog.String("entity_id", entityID),
			slog.Any("error", err))
		return err
	}
	return nil
}

func toRawJSON(v interface{}) json.RawMessage {
	switch val := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return val
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
