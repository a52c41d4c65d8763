package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type stubPublisher struct {
	got []Event
	err error
}

func (s *stubPublisher) Publish(_ context.Context, e Event) error {
	s.got = append(s.got, e)
	return s.err
}

func TestNew(t *testing.T) {
	e := New(FixtureCompleted, "c1", "f1", map[string]int{"home": 1})
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Fatalf("event not stamped: %+v", e)
	}
	if e.Type != FixtureCompleted || e.CompetitionID != "c1" || e.FixtureID != "f1" {
		t.Errorf("event = %+v", e)
	}
	if other := New(FixtureCompleted, "c1", "f1", nil); other.ID == e.ID {
		t.Error("event ids must be unique")
	}
}

func TestFanout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := &stubPublisher{}
	failing := &stubPublisher{err: errors.New("broker down")}
	f := NewFanout(logger, ok, nil, failing)

	err := f.Publish(context.Background(), New(StandingsUpdated, "c1", "", nil))
	if !errors.Is(err, failing.err) {
		t.Errorf("err = %v, want broker error", err)
	}
	if len(ok.got) != 1 || len(failing.got) != 1 {
		t.Errorf("deliveries = %d/%d, want 1/1", len(ok.got), len(failing.got))
	}

	if err := NewFanout(logger).Publish(context.Background(), New(StandingsUpdated, "c1", "", nil)); err != nil {
		t.Errorf("empty fanout: %v", err)
	}
	if err := (Discard{}).Publish(context.Background(), Event{}); err != nil {
		t.Errorf("discard: %v", err)
	}
}
