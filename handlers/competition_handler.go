package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type CompetitionHandler struct {
	competitionService services.CompetitionService
	integrityService   services.IntegrityService
}

func NewCompetitionHandler(competitionService services.CompetitionService, integrityService services.IntegrityService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
		integrityService:   integrityService,
	}
}

type teamIDsRequest struct {
	TeamIDs []string `json:"team_ids"`
}

type fixtureIDRequest struct {
	FixtureID string `json:"fixture_id"`
}

func (h *CompetitionHandler) respond(w http.ResponseWriter, r *http.Request, status int, key string, value interface{}, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, status, jsonResponse{key: value}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateCompetition godoc
// @Summary  Create a competition
// @Tags     competitions
// @Accept   json
// @Produce  json
// @Param    body  body  services.CreateCompetitionInput  true  "Competition"
// @Success  201  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions [post]
func (h *CompetitionHandler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var input services.CreateCompetitionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.CreateCompetition(r.Context(), actor, input)
	h.respond(w, r, http.StatusCreated, "competition", c, err)
}

// GetStandings godoc
// @Summary  League table of a competition
// @Tags     competitions
// @Produce  json
// @Param    competitionID  path  string  true  "Competition ID"
// @Success  200  {array}  models.StandingsEntry
// @Failure  404  {object}  map[string]string
// @Router   /competitions/{competitionID}/standings [get]
func (h *CompetitionHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	table, err := h.competitionService.GetStandings(r.Context(), id)
	h.respond(w, r, http.StatusOK, "standings", table, err)
}

// GetGroup godoc
// @Summary  One group of a hybrid competition
// @Tags     competitions
// @Produce  json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    groupName      path  string  true  "Group name or slug"
// @Success  200  {object}  models.Group
// @Router   /competitions/{competitionID}/groups/{groupName} [get]
func (h *CompetitionHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	name, err := urlParam(r, "groupName")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	group, err := h.competitionService.GetGroup(r.Context(), id, name)
	h.respond(w, r, http.StatusOK, "group", group, err)
}

// GetKnockoutRounds godoc
// @Summary  Knockout bracket
// @Tags     competitions
// @Produce  json
// @Param    competitionID  path  string  true  "Competition ID"
// @Success  200  {array}  models.KnockoutRound
// @Router   /competitions/{competitionID}/knockout [get]
func (h *CompetitionHandler) GetKnockoutRounds(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	rounds, err := h.competitionService.GetKnockoutRounds(r.Context(), id)
	h.respond(w, r, http.StatusOK, "rounds", rounds, err)
}

// GetStats godoc
// @Summary  Aggregate competition statistics
// @Tags     competitions
// @Produce  json
// @Param    competitionID  path  string  true  "Competition ID"
// @Success  200  {object}  models.StatsView
// @Router   /competitions/{competitionID}/stats [get]
func (h *CompetitionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stats, err := h.competitionService.GetStats(r.Context(), id)
	h.respond(w, r, http.StatusOK, "stats", stats, err)
}

// GetSnapshot godoc
// @Summary  Competition with stats and all fixtures
// @Tags     competitions
// @Produce  json
// @Param    competitionID  path  string  true  "Competition ID"
// @Success  200  {object}  models.CompetitionSnapshot
// @Router   /competitions/{competitionID}/snapshot [get]
func (h *CompetitionHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	snap, err := h.competitionService.GetSnapshot(r.Context(), id)
	h.respond(w, r, http.StatusOK, "snapshot", snap, err)
}

// VerifyIntegrity godoc
// @Summary  Check stored tables and stats against their invariants
// @Tags     competitions
// @Produce  json
// @Param    competitionID  path  string  true  "Competition ID"
// @Success  200  {object}  services.IntegrityReport
// @Security BearerAuth
// @Router   /competitions/{competitionID}/integrity [get]
func (h *CompetitionHandler) VerifyIntegrity(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	report, err := h.integrityService.Verify(r.Context(), id)
	h.respond(w, r, http.StatusOK, "report", report, err)
}

// InitializeLeague godoc
// @Summary  Create the league table
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    body  body  teamIDsRequest  true  "Teams in initial order"
// @Success  200  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/league [post]
func (h *CompetitionHandler) InitializeLeague(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req teamIDsRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.InitializeLeague(r.Context(), actor, id, req.TeamIDs)
	h.respond(w, r, http.StatusOK, "competition", c, err)
}

// ScheduleLeague godoc
// @Summary  Generate round-robin fixtures for the league
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    body  body  services.ScheduleLeagueInput  true  "Schedule"
// @Success  201  {array}  models.Fixture
// @Security BearerAuth
// @Router   /competitions/{competitionID}/league/schedule [post]
func (h *CompetitionHandler) ScheduleLeague(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.ScheduleLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fixtures, err := h.competitionService.ScheduleLeague(r.Context(), actor, id, input)
	h.respond(w, r, http.StatusCreated, "fixtures", fixtures, err)
}

// ScheduleFixture godoc
// @Summary  Schedule one fixture, optionally placing it into a group or round
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    body  body  services.ScheduleFixtureInput  true  "Fixture"
// @Success  201  {object}  models.Fixture
// @Failure  422  {object}  map[string]string
// @Security BearerAuth
// @Router   /competitions/{competitionID}/fixtures [post]
func (h *CompetitionHandler) ScheduleFixture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.ScheduleFixtureInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	f, err := h.competitionService.ScheduleFixture(r.Context(), actor, &id, input)
	h.respond(w, r, http.StatusCreated, "fixture", f, err)
}

// ScheduleFriendly godoc
// @Summary  Schedule a friendly fixture outside any competition
// @Tags     admin
// @Accept   json
// @Param    body  body  services.ScheduleFixtureInput  true  "Fixture"
// @Success  201  {object}  models.Fixture
// @Security BearerAuth
// @Router   /fixtures [post]
func (h *CompetitionHandler) ScheduleFriendly(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var input services.ScheduleFixtureInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	f, err := h.competitionService.ScheduleFixture(r.Context(), actor, nil, input)
	h.respond(w, r, http.StatusCreated, "fixture", f, err)
}

// AddGroup godoc
// @Summary  Add a group to a hybrid competition
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    body  body  services.AddGroupInput  true  "Group"
// @Success  201  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/groups [post]
func (h *CompetitionHandler) AddGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.AddGroupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.AddGroup(r.Context(), actor, id, input)
	h.respond(w, r, http.StatusCreated, "competition", c, err)
}

// AssignGroupFixture godoc
// @Summary  Attach a fixture to a group
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    groupName      path  string  true  "Group name or slug"
// @Param    body  body  fixtureIDRequest  true  "Fixture"
// @Success  200  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/groups/{groupName}/fixtures [post]
func (h *CompetitionHandler) AssignGroupFixture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, name, ok := h.pathPair(w, r, "groupName")
	if !ok {
		return
	}
	var req fixtureIDRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.AssignGroupFixture(r.Context(), actor, id, name, req.FixtureID)
	h.respond(w, r, http.StatusOK, "competition", c, err)
}

// RemoveGroupFixture godoc
// @Summary  Detach an unplayed fixture from a group
// @Tags     admin
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    groupName      path  string  true  "Group name or slug"
// @Param    fixtureID      path  string  true  "Fixture ID"
// @Success  200  {object}  models.Competition
// @Failure  409  {object}  map[string]string
// @Security BearerAuth
// @Router   /competitions/{competitionID}/groups/{groupName}/fixtures/{fixtureID} [delete]
func (h *CompetitionHandler) RemoveGroupFixture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, name, ok := h.pathPair(w, r, "groupName")
	if !ok {
		return
	}
	fixtureID, err := urlParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.RemoveGroupFixture(r.Context(), actor, id, name, fixtureID)
	h.respond(w, r, http.StatusOK, "competition", c, err)
}

// QualifyFromGroup godoc
// @Summary  Move qualified teams of a finished group into the bracket
// @Tags     admin
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    groupName      path  string  true  "Group name or slug"
// @Success  200  {array}  standings.Qualifier
// @Security BearerAuth
// @Router   /competitions/{competitionID}/groups/{groupName}/qualify [post]
func (h *CompetitionHandler) QualifyFromGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, name, ok := h.pathPair(w, r, "groupName")
	if !ok {
		return
	}
	qualifiers, err := h.competitionService.QualifyFromGroup(r.Context(), actor, id, name)
	h.respond(w, r, http.StatusOK, "qualifiers", qualifiers, err)
}

// AddRound godoc
// @Summary  Append a knockout round
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    body  body  services.AddRoundInput  true  "Round"
// @Success  201  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/knockout/rounds [post]
func (h *CompetitionHandler) AddRound(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.AddRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.AddRound(r.Context(), actor, id, input)
	h.respond(w, r, http.StatusCreated, "competition", c, err)
}

// SeedRound godoc
// @Summary  Seed teams into the first knockout round
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    roundName      path  string  true  "Round name or slug"
// @Param    body  body  teamIDsRequest  true  "Teams"
// @Success  200  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/knockout/rounds/{roundName}/teams [post]
func (h *CompetitionHandler) SeedRound(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, round, ok := h.pathPair(w, r, "roundName")
	if !ok {
		return
	}
	var req teamIDsRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.SeedRound(r.Context(), actor, id, round, req.TeamIDs)
	h.respond(w, r, http.StatusOK, "competition", c, err)
}

// AssignRoundFixture godoc
// @Summary  Attach a fixture to a knockout round
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    roundName      path  string  true  "Round name or slug"
// @Param    body  body  fixtureIDRequest  true  "Fixture"
// @Success  200  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/knockout/rounds/{roundName}/fixtures [post]
func (h *CompetitionHandler) AssignRoundFixture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, round, ok := h.pathPair(w, r, "roundName")
	if !ok {
		return
	}
	var req fixtureIDRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.AssignRoundFixture(r.Context(), actor, id, round, req.FixtureID)
	h.respond(w, r, http.StatusOK, "competition", c, err)
}

// RemoveRoundFixture godoc
// @Summary  Detach an unplayed fixture from a knockout round
// @Tags     admin
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    roundName      path  string  true  "Round name or slug"
// @Param    fixtureID      path  string  true  "Fixture ID"
// @Success  200  {object}  models.Competition
// @Failure  409  {object}  map[string]string
// @Security BearerAuth
// @Router   /competitions/{competitionID}/knockout/rounds/{roundName}/fixtures/{fixtureID} [delete]
func (h *CompetitionHandler) RemoveRoundFixture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, round, ok := h.pathPair(w, r, "roundName")
	if !ok {
		return
	}
	fixtureID, err := urlParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, err := h.competitionService.RemoveRoundFixture(r.Context(), actor, id, round, fixtureID)
	h.respond(w, r, http.StatusOK, "competition", c, err)
}

// GenerateKnockout godoc
// @Summary  Build a single elimination bracket from seeded teams
// @Tags     admin
// @Accept   json
// @Param    competitionID  path  string  true  "Competition ID"
// @Param    body  body  services.GenerateKnockoutInput  true  "Seeds"
// @Success  201  {object}  models.Competition
// @Security BearerAuth
// @Router   /competitions/{competitionID}/knockout/generate [post]
func (h *CompetitionHandler) GenerateKnockout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.GenerateKnockoutInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	c, fixtures, err := h.competitionService.GenerateKnockout(r.Context(), actor, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"competition": c, "fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) pathPair(w http.ResponseWriter, r *http.Request, second string) (string, string, bool) {
	id, err := urlParam(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	v, err := urlParam(r, second)
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	return id, v, true
}
