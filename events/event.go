package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	FixtureCompleted   Type = "fixture.completed"
	StandingsUpdated   Type = "standings.updated"
	KnockoutAdvanced   Type = "knockout.advanced"
	CompetitionUpdated Type = "competition.updated"
)

type Event struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	CompetitionID string    `json:"competition_id,omitempty"`
	FixtureID     string    `json:"fixture_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload,omitempty"`
}

func New(t Type, competitionID, fixtureID string, payload any) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          t,
		CompetitionID: competitionID,
		FixtureID:     fixtureID,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// Publisher delivers domain events. Delivery is best effort: callers log
// failures and never undo the change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Fanout sends every event to all publishers and joins their errors.
type Fanout struct {
	publishers []Publisher
	logger     *slog.Logger
}

func NewFanout(logger *slog.Logger, publishers ...Publisher) *Fanout {
	f := &Fanout{logger: logger}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, e); err != nil {
			f.logger.Warn("event delivery failed",
				slog.String("event_type", string(e.Type)),
				slog.String("event_id", e.ID),
				slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
