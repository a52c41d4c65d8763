package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
)

func TestSnapshotArchiver(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")
	env.complete(t, "F1", 1, 0)

	uploader := &memUploader{}
	archiver := NewSnapshotArchiver(uploader, fakeCompetitionRepo{env.store}, fakeFixtureRepo{env.store}, discardLogger())
	ctx := context.Background()

	if err := archiver.Publish(ctx, events.New(events.StandingsUpdated, c.ID, "F1", nil)); err != nil {
		t.Fatal(err)
	}
	if err := archiver.Publish(ctx, events.New(events.FixtureCompleted, "", "friendly", nil)); err != nil {
		t.Fatal(err)
	}
	if len(uploader.objects) != 0 {
		t.Fatalf("unexpected uploads: %d", len(uploader.objects))
	}

	if err := archiver.Publish(ctx, events.New(events.FixtureCompleted, c.ID, "F1", nil)); err != nil {
		t.Fatal(err)
	}
	body, ok := uploader.objects[SnapshotKey(c.ID)]
	if !ok {
		t.Fatalf("snapshot not uploaded, objects = %v", uploader.objects)
	}
	var snap models.CompetitionSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Competition.ID != c.ID || len(snap.Fixtures) != 1 || snap.Stats.Games != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	uploader.err = errors.New("bucket unavailable")
	if err := archiver.Publish(ctx, events.New(events.CompetitionUpdated, c.ID, "", nil)); err == nil {
		t.Error("upload failure must be reported")
	}
	if err := archiver.Publish(ctx, events.New(events.CompetitionUpdated, "missing", "", nil)); !errors.Is(err, ErrCompetitionNotFound) {
		t.Errorf("missing competition: err = %v", err)
	}
}
