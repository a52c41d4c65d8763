package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type FixtureHandler struct {
	resultService services.FixtureResultService
}

func NewFixtureHandler(resultService services.FixtureResultService) *FixtureHandler {
	return &FixtureHandler{resultService: resultService}
}

type completeFixtureRequest struct {
	Result     models.FixtureResult      `json:"result"`
	Statistics *models.FixtureStatistics `json:"statistics,omitempty"`
	Events     []models.MatchEvent       `json:"events,omitempty"`
	HomeLineup *models.Lineup            `json:"home_lineup,omitempty"`
	AwayLineup *models.Lineup            `json:"away_lineup,omitempty"`
}

// CompleteFixture godoc
// @Summary      Record a fixture result
// @Description  Completes the fixture and propagates the result to standings, groups or the knockout bracket.
// @Tags         fixtures
// @Accept       json
// @Produce      json
// @Param        competitionID  path  string  false  "Competition ID"
// @Param        fixtureID      path  string  true   "Fixture ID"
// @Param        body           body  completeFixtureRequest  true  "Result"
// @Success      200  {object}  services.CompletionResult
// @Failure      400,404,409,422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /fixtures/{fixtureID}/result [post]
// @Router       /competitions/{competitionID}/fixtures/{fixtureID}/result [post]
func (h *FixtureHandler) CompleteFixture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	fixtureID, err := urlParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req completeFixtureRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.CompleteFixtureInput{
		FixtureID:  fixtureID,
		Result:     req.Result,
		Statistics: req.Statistics,
		Events:     req.Events,
		HomeLineup: req.HomeLineup,
		AwayLineup: req.AwayLineup,
	}
	if competitionID, err := urlParam(r, "competitionID"); err == nil {
		input.CompetitionID = &competitionID
	}

	result, err := h.resultService.CompleteFixture(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
