package models

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditCompetitionCreated AuditAction = "competition.created"
	AuditFixtureCompleted   AuditAction = "fixture.completed"
	AuditLeagueInitialized  AuditAction = "league.initialized"
	AuditGroupAdded         AuditAction = "group.added"
	AuditGroupFixture       AuditAction = "group.fixture_assigned"
	AuditGroupQualified     AuditAction = "group.qualified"
	AuditRoundAdded         AuditAction = "knockout.round_added"
	AuditRoundSeeded        AuditAction = "knockout.round_seeded"
	AuditRoundFixture       AuditAction = "knockout.fixture_assigned"
	AuditKnockoutGenerated  AuditAction = "knockout.generated"
	AuditLeagueScheduled    AuditAction = "league.scheduled"
	AuditFixtureScheduled   AuditAction = "fixture.scheduled"
	AuditGroupFixtureRemove AuditAction = "group.fixture_removed"
	AuditRoundFixtureRemove AuditAction = "knockout.fixture_removed"
)

type AuditEntry struct {
	ID             string          `json:"id" db:"id"`
	ActorID        string          `json:"actor_id" db:"actor_id"`
	Action         AuditAction     `json:"action" db:"action"`
	Entity         string          `json:"entity" db:"entity"`
	EntityID       string          `json:"entity_id" db:"entity_id"`
	PreviousValues json.RawMessage `json:"previous_values,omitempty" db:"previous_values"`
	NewValues      json.RawMessage `json:"new_values,omitempty" db:"new_values"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
