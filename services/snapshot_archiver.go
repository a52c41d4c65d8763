package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

// SnapshotArchiver выгружает снимок соревнования в объектное хранилище
// после каждого изменения. Подключается как events.Publisher.
type SnapshotArchiver struct {
	uploader        storage.FileUploader
	competitionRepo repositories.CompetitionRepository
	fixtureRepo     repositories.FixtureRepository
	logger          *slog.Logger
}

func NewSnapshotArchiver(uploader storage.FileUploader, competitionRepo repositories.CompetitionRepository, fixtureRepo repositories.FixtureRepository, logger *slog.Logger) *SnapshotArchiver {
	return &SnapshotArchiver{
		uploader:        uploader,
		competitionRepo: competitionRepo,
		fixtureRepo:     fixtureRepo,
		logger:          logger,
	}
}

func SnapshotKey(competitionID string) string {
	return fmt.Sprintf("competitions/%s/snapshot.json", competitionID)
}

func (a *SnapshotArchiver) Publish(ctx context.Context, e events.Event) error {
	if e.CompetitionID == "" {
		return nil
	}
	if e.Type != events.FixtureCompleted && e.Type != events.CompetitionUpdated {
		return nil
	}

	snapshot, err := loadSnapshot(ctx, a.competitionRepo, a.fixtureRepo, e.CompetitionID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	res, err := a.uploader.Upload(ctx, SnapshotKey(e.CompetitionID), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	a.logger.Debug("competition snapshot archived",
		slog.String("competition_id", e.CompetitionID),
		slog.String("location", res.Location))
	return nil
}
