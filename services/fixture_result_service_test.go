package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/standings"
)

func setupLeague(t *testing.T, env *testEnv, teams ...string) *models.Competition {
	t.Helper()
	env.addTeams(teams...)
	c := env.createCompetition(t, "Premier", models.FormatLeague)
	if _, err := env.competition.InitializeLeague(context.Background(), admin, c.ID, teams); err != nil {
		t.Fatalf("InitializeLeague: %v", err)
	}
	return c
}

func TestCompleteFixture_LeagueScenario(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")

	res := env.complete(t, "F1", 2, 1)
	if res.Outcome != standings.OutcomeHomeWin {
		t.Errorf("outcome = %s, want home_win", res.Outcome)
	}
	if res.Structure != "league" {
		t.Errorf("structure = %q, want league", res.Structure)
	}

	stored := env.getCompetition(t, c.ID)
	table := stored.League.Standings
	a, _ := standings.Lookup(table, "A")
	b, _ := standings.Lookup(table, "B")

	if a.Played != 1 || a.Wins != 1 || a.Points != 3 || a.GoalDifference != 1 || len(a.Form) != 1 || a.Form[0] != models.FormWin {
		t.Errorf("A = %+v", a)
	}
	if b.Played != 1 || b.Losses != 1 || b.Points != 0 || b.GoalDifference != -1 || len(b.Form) != 1 || b.Form[0] != models.FormLoss {
		t.Errorf("B = %+v", b)
	}
	if a.Position != 1 || table[0].TeamID != "A" {
		t.Errorf("A must be first, table = %+v", table)
	}

	f := env.getFixture(t, "F1")
	if f.Status != models.FixtureStatusCompleted || f.Result == nil || f.CompletedAt == nil {
		t.Errorf("fixture not completed: %+v", f)
	}
	if stored.Stats.Games != 1 || stored.Stats.HomeWins != 1 || stored.Stats.TotalGoals != 3 {
		t.Errorf("stats = %+v", stored.Stats)
	}
}

func TestCompleteFixture_Draw(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")

	res := env.complete(t, "F1", 1, 1)
	if res.Outcome != standings.OutcomeDraw {
		t.Fatalf("outcome = %s, want draw", res.Outcome)
	}
	for _, e := range env.getCompetition(t, c.ID).League.Standings {
		if e.Draws != 1 || e.Points != 1 || e.Wins != 0 || e.Losses != 0 {
			t.Errorf("%s = %+v, want one draw", e.TeamID, e)
		}
	}
	if got := env.getCompetition(t, c.ID).Stats.Draws; got != 1 {
		t.Errorf("stats draws = %d", got)
	}
}

func TestCompleteFixture_SecondCallRejectedWithoutChanges(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")
	env.complete(t, "F1", 2, 0)

	compBefore := mustJSON(env.getCompetition(t, c.ID))
	fixtureBefore := mustJSON(env.getFixture(t, "F1"))
	eventsBefore := len(env.publisher.types())

	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID: "F1",
		Result:    models.FixtureResult{HomeScore: 0, AwayScore: 5},
	})
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrAlreadyCompleted", err)
	}
	if !bytes.Equal(compBefore, mustJSON(env.getCompetition(t, c.ID))) {
		t.Error("competition changed after rejected completion")
	}
	if !bytes.Equal(fixtureBefore, mustJSON(env.getFixture(t, "F1"))) {
		t.Error("fixture changed after rejected completion")
	}
	if got := len(env.publisher.types()); got != eventsBefore {
		t.Errorf("events published on rejection: %d -> %d", eventsBefore, got)
	}
}

func TestCompleteFixture_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{FixtureID: "missing"})
	if !errorsIs(err, ErrFixtureNotFound, ErrNotFound) {
		t.Fatalf("err = %v, want fixture not found", err)
	}
}

func TestCompleteFixture_CompetitionMismatch(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")

	other := "other-competition"
	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		CompetitionID: &other,
		FixtureID:     "F1",
		Result:        models.FixtureResult{HomeScore: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if env.getFixture(t, "F1").IsCompleted() {
		t.Error("fixture must stay scheduled")
	}
}

func TestCompleteFixture_Validation(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")

	tests := []struct {
		name   string
		result models.FixtureResult
		want   error
	}{
		{"negative score", models.FixtureResult{HomeScore: -1}, ErrNegativeScore},
		{"one penalty", models.FixtureResult{HomeScore: 1, AwayScore: 1, HomePenalty: intPtr(4)}, ErrPenaltiesIncomplete},
		{"shootout flag without penalties", models.FixtureResult{IsPenaltyShootout: true}, ErrPenaltiesIncomplete},
		{"penalties after a decided game", models.FixtureResult{HomeScore: 2, AwayScore: 1, HomePenalty: intPtr(4), AwayPenalty: intPtr(3)}, ErrShootoutNotLevel},
		{"negative penalty", models.FixtureResult{HomePenalty: intPtr(-1), AwayPenalty: intPtr(3)}, ErrNegativeScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{FixtureID: "F1", Result: tt.result})
			if !errorsIs(err, tt.want, ErrValidationFailed) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if env.getFixture(t, "F1").IsCompleted() {
		t.Error("invalid results must not complete the fixture")
	}
}

func TestCompleteFixture_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.results.CompleteFixture(context.Background(), player, CompleteFixtureInput{FixtureID: "F1"})
	if !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("err = %v, want ErrForbiddenOperation", err)
	}
}

func TestCompleteFixture_Postponed(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	f := env.createFixture(t, "F1", c.ID, "A", "B")
	f.Status = models.FixtureStatusPostponed
	if err := (fakeFixtureRepo{env.store}).Update(context.Background(), nil, f); err != nil {
		t.Fatal(err)
	}

	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{FixtureID: "F1", Result: models.FixtureResult{HomeScore: 1}})
	if !errorsIs(err, ErrFixturePostponed, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrFixturePostponed", err)
	}
}

func TestCompleteFixture_LeagueTableMissing(t *testing.T) {
	env := newTestEnv(t)
	env.addTeams("A", "B")
	c := env.createCompetition(t, "Empty", models.FormatLeague)
	env.createFixture(t, "F1", c.ID, "A", "B")

	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{FixtureID: "F1", Result: models.FixtureResult{HomeScore: 1}})
	if !errorsIs(err, ErrStructureMissing, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrStructureMissing", err)
	}
	if env.getFixture(t, "F1").IsCompleted() {
		t.Error("fixture must stay scheduled")
	}
}

func TestCompleteFixture_Friendly(t *testing.T) {
	env := newTestEnv(t)
	env.addTeams("A", "B")
	env.createFixture(t, "FR", "", "A", "B")

	res := env.complete(t, "FR", 3, 3)
	if res.Competition != nil || res.Structure != "" {
		t.Errorf("friendly touched a competition: %+v", res)
	}
	if !env.getFixture(t, "FR").IsCompleted() {
		t.Error("friendly must be completed")
	}
	types := env.publisher.types()
	if len(types) != 1 || types[0] != events.FixtureCompleted {
		t.Errorf("events = %v, want only fixture.completed", types)
	}
}

func setupKnockout(t *testing.T, env *testEnv, rounds ...string) *models.Competition {
	t.Helper()
	c := env.createCompetition(t, "Cup", models.FormatKnockout)
	for _, r := range rounds {
		if _, err := env.competition.AddRound(context.Background(), admin, c.ID, AddRoundInput{Name: r}); err != nil {
			t.Fatalf("AddRound(%s): %v", r, err)
		}
	}
	return c
}

func TestCompleteFixture_KnockoutAdvancement(t *testing.T) {
	env := newTestEnv(t)
	env.addTeams("teamA", "teamB")
	c := setupKnockout(t, env, "QF", "SF")
	if _, err := env.competition.SeedRound(context.Background(), admin, c.ID, "QF", []string{"teamA", "teamB"}); err != nil {
		t.Fatal(err)
	}
	env.createFixture(t, "F1", c.ID, "teamA", "teamB")
	if _, err := env.competition.AssignRoundFixture(context.Background(), admin, c.ID, "QF", "F1"); err != nil {
		t.Fatal(err)
	}

	res := env.complete(t, "F1", 2, 0)
	if res.Advancement == nil || !res.Advancement.Advanced || res.Advancement.NextRoundName != "SF" {
		t.Fatalf("advancement = %+v", res.Advancement)
	}

	rounds := env.getCompetition(t, c.ID).Knockout
	sf := rounds[1]
	if !containsID(sf.TeamIDs, "teamA") || containsID(sf.TeamIDs, "teamB") {
		t.Errorf("SF teams = %v, want teamA only", sf.TeamIDs)
	}
	if !rounds[0].Completed {
		t.Error("QF must be completed after its only fixture")
	}
	if got := env.publisher.types(); !containsType(got, events.KnockoutAdvanced) {
		t.Errorf("events = %v, want knockout.advanced", got)
	}
}

func TestCompleteFixture_KnockoutTerminalRound(t *testing.T) {
	env := newTestEnv(t)
	env.addTeams("A", "B")
	c := setupKnockout(t, env, "Final")
	if _, err := env.competition.SeedRound(context.Background(), admin, c.ID, "Final", []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	env.createFixture(t, "F2", c.ID, "A", "B")
	if _, err := env.competition.AssignRoundFixture(context.Background(), admin, c.ID, "Final", "F2"); err != nil {
		t.Fatal(err)
	}

	res := env.complete(t, "F2", 0, 1)
	if res.Advancement == nil || res.Advancement.Advanced || res.Advancement.WinnerTeamID != "B" {
		t.Fatalf("advancement = %+v", res.Advancement)
	}
	if !containsID(res.Notes, brackets.NoteTerminalRound) {
		t.Errorf("notes = %v, want terminal round note", res.Notes)
	}
}

func TestCompleteFixture_KnockoutDraw(t *testing.T) {
	env := newTestEnv(t)
	env.addTeams("A", "B")
	c := setupKnockout(t, env, "Final")
	if _, err := env.competition.SeedRound(context.Background(), admin, c.ID, "Final", []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	env.createFixture(t, "F1", c.ID, "A", "B")
	if _, err := env.competition.AssignRoundFixture(context.Background(), admin, c.ID, "Final", "F1"); err != nil {
		t.Fatal(err)
	}

	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{FixtureID: "F1", Result: models.FixtureResult{HomeScore: 1, AwayScore: 1}})
	if !errorsIs(err, ErrKnockoutDraw, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrKnockoutDraw", err)
	}
	if env.getFixture(t, "F1").IsCompleted() {
		t.Fatal("drawn knockout fixture must not be completed")
	}

	res, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID: "F1",
		Result:    models.FixtureResult{HomeScore: 1, AwayScore: 1, HomePenalty: intPtr(5), AwayPenalty: intPtr(4)},
	})
	if err != nil {
		t.Fatalf("shootout: %v", err)
	}
	if res.Outcome != standings.OutcomeHomeWin || !res.Fixture.Result.IsPenaltyShootout {
		t.Errorf("shootout result = %+v", res)
	}
}

func TestCompleteFixture_KnockoutFixtureOutsideBracket(t *testing.T) {
	env := newTestEnv(t)
	env.addTeams("A", "B")
	c := setupKnockout(t, env, "Final")
	env.createFixture(t, "F9", c.ID, "A", "B")

	res := env.complete(t, "F9", 1, 0)
	if !containsID(res.Notes, brackets.NoteFixtureNotInBracket) {
		t.Errorf("notes = %v", res.Notes)
	}
	if res.Advancement != nil {
		t.Errorf("advancement = %+v, want nil", res.Advancement)
	}
	if got := env.getCompetition(t, c.ID).Stats.Games; got != 1 {
		t.Errorf("stats games = %d, want 1", got)
	}
}

func TestCompleteFixture_HybridGroupAndBracket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addTeams("A", "B", "C", "D")
	c := env.createCompetition(t, "World Cup", models.FormatHybrid)

	if _, err := env.competition.AddRound(ctx, admin, c.ID, AddRoundInput{Name: "Final"}); err != nil {
		t.Fatal(err)
	}
	rules := []models.QualificationRule{{Position: 1, Destination: "Final"}}
	if _, err := env.competition.AddGroup(ctx, admin, c.ID, AddGroupInput{Name: "Group A", TeamIDs: []string{"A", "B"}, Qualification: rules}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.competition.AddGroup(ctx, admin, c.ID, AddGroupInput{Name: "Group B", TeamIDs: []string{"C", "D"}, Qualification: rules}); err != nil {
		t.Fatal(err)
	}
	env.createFixture(t, "GA", c.ID, "A", "B")
	env.createFixture(t, "GB", c.ID, "C", "D")
	if _, err := env.competition.AssignGroupFixture(ctx, admin, c.ID, "Group A", "GA"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.competition.AssignGroupFixture(ctx, admin, c.ID, "group-b", "GB"); err != nil {
		t.Fatalf("group lookup by slug: %v", err)
	}

	res := env.complete(t, "GA", 0, 2)
	if res.Structure != "group:Group A" {
		t.Errorf("structure = %q", res.Structure)
	}
	env.complete(t, "GB", 1, 1)

	groupA, err := env.competition.GetGroup(ctx, c.ID, "Group A")
	if err != nil {
		t.Fatal(err)
	}
	if groupA.Standings[0].TeamID != "B" {
		t.Errorf("Group A leader = %s, want B", groupA.Standings[0].TeamID)
	}
	groupB, _ := env.competition.GetGroup(ctx, c.ID, "Group B")
	for _, e := range groupB.Standings {
		if e.Points != 1 {
			t.Errorf("Group B %s points = %d", e.TeamID, e.Points)
		}
	}

	for _, g := range []string{"Group A", "Group B"} {
		if _, err := env.competition.QualifyFromGroup(ctx, admin, c.ID, g); err != nil {
			t.Fatalf("QualifyFromGroup(%s): %v", g, err)
		}
	}
	rounds, _ := env.competition.GetKnockoutRounds(ctx, c.ID)
	if len(rounds[0].TeamIDs) != 2 || rounds[0].TeamIDs[0] != "B" || rounds[0].TeamIDs[1] != "C" {
		t.Fatalf("Final teams = %v, want [B C]", rounds[0].TeamIDs)
	}

	env.createFixture(t, "FIN", c.ID, "B", "C")
	if _, err := env.competition.AssignRoundFixture(ctx, admin, c.ID, "Final", "FIN"); err != nil {
		t.Fatal(err)
	}
	fin := env.complete(t, "FIN", 3, 1)
	if fin.Structure != "knockout:Final" {
		t.Errorf("structure = %q", fin.Structure)
	}

	stats := env.getCompetition(t, c.ID).Stats
	if stats.Games != 3 || stats.HomeWins != 1 || stats.AwayWins != 1 || stats.Draws != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCompleteFixture_SideEffects(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")

	res, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID: "F1",
		Result:    models.FixtureResult{HomeScore: 1, AwayScore: 0},
		Events: []models.MatchEvent{
			{Type: models.MatchEventGoal, PlayerID: "p-a9", TeamID: "A", Minute: 10},
			{Type: models.MatchEventAssist, PlayerID: "p-a10", TeamID: "A", Minute: 10},
			{Type: models.MatchEventYellowCard, PlayerID: "p-b4", TeamID: "B", Minute: 30},
		},
		HomeLineup: &models.Lineup{Starting: []models.LineupPlayer{{PlayerID: "p-a1", Position: models.PositionGoalkeeper}, {PlayerID: "p-a9", Position: "FW"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notes) != 0 {
		t.Errorf("notes = %v, want none", res.Notes)
	}

	env.store.mu.Lock()
	deltas := make(map[string]map[models.PlayerStat]int)
	for _, d := range env.store.deltas {
		deltas[d.PlayerID] = d.Deltas
	}
	audits := len(env.store.audits)
	env.store.mu.Unlock()

	if deltas["p-a9"][models.PlayerStatGoals] != 1 || deltas["p-a9"][models.PlayerStatAppearances] != 1 {
		t.Errorf("p-a9 deltas = %v", deltas["p-a9"])
	}
	if deltas["p-a1"][models.PlayerStatCleanSheets] != 1 {
		t.Errorf("goalkeeper deltas = %v", deltas["p-a1"])
	}
	if env.getCompetition(t, c.ID).Stats.YellowCards != 1 {
		t.Error("yellow card from events must reach the aggregate stats")
	}
	// одна запись на создание, одна на инициализацию, одна на матч
	if audits != 3 {
		t.Errorf("audit entries = %d, want 3", audits)
	}
	if got := env.publisher.types(); !containsType(got, events.FixtureCompleted) || !containsType(got, events.StandingsUpdated) {
		t.Errorf("events = %v", got)
	}
}

func TestCompleteFixture_SideEffectFailuresAreNotes(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")
	env.store.playerStatsErr = errors.New("db down")
	env.store.auditErr = errors.New("db down")
	env.publisher.err = errors.New("broker down")

	res, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID:  "F1",
		Result:     models.FixtureResult{HomeScore: 1},
		HomeLineup: &models.Lineup{Starting: []models.LineupPlayer{{PlayerID: "p1"}}},
	})
	if err != nil {
		t.Fatalf("side effect failure must not fail completion: %v", err)
	}
	if len(res.Notes) != 3 {
		t.Errorf("notes = %v, want 3", res.Notes)
	}
	if !env.getFixture(t, "F1").IsCompleted() {
		t.Error("fixture must be completed")
	}
}

func TestCompleteFixture_PlayerStatFailureIsIsolated(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")
	env.store.failingPlayers = map[string]bool{"p0": true}

	starters := make([]models.LineupPlayer, 10)
	for i := range starters {
		starters[i] = models.LineupPlayer{PlayerID: fmt.Sprintf("p%d", i), Position: "MF"}
	}
	res, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID:  "F1",
		Result:     models.FixtureResult{HomeScore: 1},
		HomeLineup: &models.Lineup{Starting: starters},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Notes) != 1 || !strings.Contains(res.Notes[0], "1 of 10") || !strings.Contains(res.Notes[0], "player p0") {
		t.Errorf("notes = %v", res.Notes)
	}
	env.store.mu.Lock()
	applied := make(map[string]bool)
	for _, d := range env.store.deltas {
		applied[d.PlayerID] = true
	}
	env.store.mu.Unlock()
	if len(applied) != 9 || applied["p0"] {
		t.Errorf("applied = %v, want p1..p9", applied)
	}
}

func TestCompleteFixture_StatisticsMergeAndCards(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	f := env.createFixture(t, "F1", c.ID, "A", "B")
	f.Statistics = &models.FixtureStatistics{Home: map[string]int{"shots": 7}, Away: map[string]int{"shots": 3}}
	if err := (fakeFixtureRepo{env.store}).Update(context.Background(), nil, f); err != nil {
		t.Fatal(err)
	}

	_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
		FixtureID: "F1",
		Result:    models.FixtureResult{HomeScore: 0, AwayScore: 0},
		Statistics: &models.FixtureStatistics{
			Home: map[string]int{models.StatYellowCards: 2},
			Away: map[string]int{models.StatYellowCards: 1, models.StatRedCards: 1, "shots": 5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := env.getFixture(t, "F1").Statistics
	if got.Home["shots"] != 7 || got.Away["shots"] != 5 || got.Home[models.StatYellowCards] != 2 {
		t.Errorf("statistics = %+v", got)
	}
	stats := env.getCompetition(t, c.ID).Stats
	if stats.YellowCards != 3 || stats.RedCards != 1 {
		t.Errorf("cards = %d/%d, want 3/1", stats.YellowCards, stats.RedCards)
	}
}

func TestCompleteFixture_ConcurrentCompletions(t *testing.T) {
	env := newTestEnv(t)
	teams := make([]string, 16)
	for i := range teams {
		teams[i] = fmt.Sprintf("T%02d", i)
	}
	c := setupLeague(t, env, teams...)
	for i := 0; i < 8; i++ {
		env.createFixture(t, fmt.Sprintf("F%d", i), c.ID, teams[2*i], teams[2*i+1])
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.results.CompleteFixture(context.Background(), admin, CompleteFixtureInput{
				FixtureID: fmt.Sprintf("F%d", i),
				Result:    models.FixtureResult{HomeScore: i % 3, AwayScore: 1},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent completion: %v", err)
		}
	}

	stored := env.getCompetition(t, c.ID)
	for _, e := range stored.League.Standings {
		if e.Played != 1 {
			t.Errorf("%s played = %d, want 1 (lost update)", e.TeamID, e.Played)
		}
	}
	if stored.Stats.Games != 8 {
		t.Errorf("stats games = %d, want 8", stored.Stats.Games)
	}
	if v := standings.Verify(stored.League.Standings); len(v) != 0 {
		t.Errorf("violations: %v", v)
	}
}

func TestCompletionResultJSON(t *testing.T) {
	env := newTestEnv(t)
	c := setupLeague(t, env, "A", "B")
	env.createFixture(t, "F1", c.ID, "A", "B")
	res := env.complete(t, "F1", 1, 0)

	var decoded map[string]interface{}
	if err := json.Unmarshal(mustJSON(res), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"fixture", "competition", "outcome", "structure"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func containsType(list []events.Type, t events.Type) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
