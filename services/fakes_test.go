package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

var (
	admin  = models.Actor{UserID: "u-admin", Role: models.RoleAdmin}
	player = models.Actor{UserID: "u-player", Role: models.RolePlayer}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore - общее хранилище фейковых репозиториев. Объекты копируются через JSON,
// чтобы сервис не мог изменить сохранённое состояние в обход Save/Update.
type memStore struct {
	mu           sync.Mutex
	competitions map[string][]byte
	fixtures     map[string][]byte
	teams        map[string]bool
	deltas       []models.PlayerStatDelta
	audits       []models.AuditEntry

	playerStatsErr error
	failingPlayers map[string]bool
	auditErr       error
}

func newMemStore() *memStore {
	return &memStore{
		competitions: make(map[string][]byte),
		fixtures:     make(map[string][]byte),
		teams:        make(map[string]bool),
	}
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

type fakeTx struct{}

func (fakeTx) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeCompetitionRepo struct{ s *memStore }

func (r fakeCompetitionRepo) Create(_ context.Context, _ repositories.SQLExecutor, c *models.Competition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, raw := range r.s.competitions {
		var other models.Competition
		_ = json.Unmarshal(raw, &other)
		if other.Name == c.Name && other.Season == c.Season {
			return repositories.ErrCompetitionNameConflict
		}
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.competitions[c.ID] = mustJSON(c)
	return nil
}

func (r fakeCompetitionRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Competition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	raw, ok := r.s.competitions[id]
	if !ok {
		return nil, repositories.ErrCompetitionNotFound
	}
	var c models.Competition
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r fakeCompetitionRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Competition, error) {
	return r.GetByID(ctx, exec, id)
}

func (r fakeCompetitionRepo) Save(_ context.Context, _ repositories.SQLExecutor, c *models.Competition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.competitions[c.ID]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	r.s.competitions[c.ID] = mustJSON(c)
	return nil
}

func (r fakeCompetitionRepo) ListIDs(_ context.Context, _ repositories.SQLExecutor) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.competitions))
	for id := range r.s.competitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeFixtureRepo struct{ s *memStore }

func (r fakeFixtureRepo) Create(_ context.Context, _ repositories.SQLExecutor, f *models.Fixture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f.HomeTeamID == f.AwayTeamID {
		return repositories.ErrFixtureTeamsEqual
	}
	if !r.s.teams[f.HomeTeamID] || !r.s.teams[f.AwayTeamID] {
		return repositories.ErrFixtureTeamInvalid
	}
	if f.CompetitionID != nil {
		if _, ok := r.s.competitions[*f.CompetitionID]; !ok {
			return repositories.ErrFixtureCompetitionInvalid
		}
	}
	now := time.Now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now
	r.s.fixtures[f.ID] = mustJSON(f)
	return nil
}

func (r fakeFixtureRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Fixture, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	raw, ok := r.s.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	var f models.Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r fakeFixtureRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Fixture, error) {
	return r.GetByID(ctx, exec, id)
}

func (r fakeFixtureRepo) Update(_ context.Context, _ repositories.SQLExecutor, f *models.Fixture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fixtures[f.ID]; !ok {
		return repositories.ErrFixtureNotFound
	}
	f.UpdatedAt = time.Now().UTC()
	r.s.fixtures[f.ID] = mustJSON(f)
	return nil
}

func (r fakeFixtureRepo) list(competitionID string) []*models.Fixture {
	var out []*models.Fixture
	for _, raw := range r.s.fixtures {
		var f models.Fixture
		_ = json.Unmarshal(raw, &f)
		if f.CompetitionID != nil && *f.CompetitionID == competitionID {
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r fakeFixtureRepo) CountCompleted(_ context.Context, _ repositories.SQLExecutor, competitionID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, f := range r.list(competitionID) {
		if f.Status == models.FixtureStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (r fakeFixtureRepo) ListByCompetition(_ context.Context, _ repositories.SQLExecutor, competitionID string) ([]*models.Fixture, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(competitionID), nil
}

type fakeTeamRepo struct{ s *memStore }

func (r fakeTeamRepo) MissingIDs(_ context.Context, _ repositories.SQLExecutor, ids []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var missing []string
	for _, id := range ids {
		if !r.s.teams[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type fakePlayerStatsRepo struct{ s *memStore }

func (r fakePlayerStatsRepo) ApplyStatDelta(ctx context.Context, _ repositories.SQLExecutor, d models.PlayerStatDelta) error {
	// как ExecContext: отменённый контекст не доходит до базы
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.playerStatsErr != nil {
		return r.s.playerStatsErr
	}
	if r.s.failingPlayers[d.PlayerID] {
		return errors.New("unknown player")
	}
	r.s.deltas = append(r.s.deltas, d)
	return nil
}

type fakeAuditRepo struct{ s *memStore }

func (r fakeAuditRepo) Create(_ context.Context, _ repositories.SQLExecutor, e *models.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	r.s.audits = append(r.s.audits, *e)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (u *memUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) GetPublicURL(key string) string { return "mem://" + key }

// testEnv собирает сервисы поверх общего in-memory хранилища.
type testEnv struct {
	store       *memStore
	publisher   *recordingPublisher
	results     FixtureResultService
	competition CompetitionService
	integrity   IntegrityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	pub := &recordingPublisher{}
	locks := NewCompetitionLocks()
	logger := discardLogger()

	compRepo := fakeCompetitionRepo{store}
	fixtureRepo := fakeFixtureRepo{store}

	return &testEnv{
		store:     store,
		publisher: pub,
		results: NewFixtureResultService(fakeTx{}, fixtureRepo, compRepo,
			fakePlayerStatsRepo{store}, fakeAuditRepo{store}, pub, locks, logger),
		competition: NewCompetitionService(fakeTx{}, compRepo, fixtureRepo,
			fakeTeamRepo{store}, fakeAuditRepo{store}, pub, locks, logger),
		integrity: NewIntegrityService(compRepo, fixtureRepo, logger),
	}
}

func (e *testEnv) addTeams(ids ...string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	for _, id := range ids {
		e.store.teams[id] = true
	}
}

func (e *testEnv) createCompetition(t *testing.T, name string, format models.CompetitionFormat) *models.Competition {
	t.Helper()
	c, err := e.competition.CreateCompetition(context.Background(), admin, CreateCompetitionInput{Name: name, Season: "2026", Format: format})
	if err != nil {
		t.Fatalf("CreateCompetition: %v", err)
	}
	return c
}

func (e *testEnv) createFixture(t *testing.T, id, competitionID, home, away string) *models.Fixture {
	t.Helper()
	f := &models.Fixture{
		ID:         id,
		HomeTeamID: home,
		AwayTeamID: away,
		Status:     models.FixtureStatusScheduled,
		KickoffAt:  time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC),
	}
	if competitionID != "" {
		f.CompetitionID = &competitionID
	}
	if err := (fakeFixtureRepo{e.store}).Create(context.Background(), nil, f); err != nil {
		t.Fatalf("create fixture %s: %v", id, err)
	}
	return f
}

func (e *testEnv) getCompetition(t *testing.T, id string) *models.Competition {
	t.Helper()
	c, err := (fakeCompetitionRepo{e.store}).GetByID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("get competition: %v", err)
	}
	return c
}

func (e *testEnv) getFixture(t *testing.T, id string) *models.Fixture {
	t.Helper()
	f, err := (fakeFixtureRepo{e.store}).GetByID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	return f
}

func (e *testEnv) complete(t *testing.T, fixtureID string, home, away int) *CompletionResult {
	t.Helper()
	res, err := e.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID: fixtureID,
		Result:    models.FixtureResult{HomeScore: home, AwayScore: away},
	})
	if err != nil {
		t.Fatalf("CompleteFixture(%s, %d-%d): %v", fixtureID, home, away, err)
	}
	return res
}

func intPtr(v int) *int { return &v }

func errorsIs(err error, targets ...error) bool {
	for _, t := range targets {
		if !errors.Is(err, t) {
			return false
		}
	}
	return true
}
