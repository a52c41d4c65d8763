package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type fakeCompetitions struct {
	services.CompetitionService
	table []models.StandingsEntry
	group *models.Group
}

func (f *fakeCompetitions) GetStandings(_ context.Context, id string) ([]models.StandingsEntry, error) {
	if id != "c1" {
		return nil, services.ErrCompetitionNotFound
	}
	return f.table, nil
}

func (f *fakeCompetitions) GetGroup(_ context.Context, id, name string) (*models.Group, error) {
	if id != "c1" || name != f.group.Name {
		return nil, services.ErrGroupNotFound
	}
	return f.group, nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %d items", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return text.Text
}

func TestStandingsTool(t *testing.T) {
	tl := &tools{competitions: &fakeCompetitions{table: []models.StandingsEntry{
		{TeamID: "A", Position: 1, Points: 3},
		{TeamID: "B", Position: 2},
	}}}

	res, _, err := tl.standings(context.Background(), nil, CompetitionArgs{CompetitionID: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var table []models.StandingsEntry
	if err := json.Unmarshal([]byte(resultText(t, res)), &table); err != nil {
		t.Fatal(err)
	}
	if len(table) != 2 || table[0].TeamID != "A" || table[0].Points != 3 {
		t.Errorf("table = %+v", table)
	}

	res, _, _ = tl.standings(context.Background(), nil, CompetitionArgs{CompetitionID: "missing"})
	if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
		t.Errorf("missing competition: %+v", res)
	}

	res, _, _ = tl.standings(context.Background(), nil, CompetitionArgs{})
	if !res.IsError {
		t.Error("empty competition_id must be a tool error")
	}
}

func TestGroupTool(t *testing.T) {
	tl := &tools{competitions: &fakeCompetitions{group: &models.Group{Name: "Group A"}}}

	res, _, _ := tl.group(context.Background(), nil, GroupArgs{CompetitionID: "c1", GroupName: "Group A"})
	if res.IsError || !strings.Contains(resultText(t, res), "Group A") {
		t.Errorf("group result = %+v", res)
	}

	res, _, _ = tl.group(context.Background(), nil, GroupArgs{CompetitionID: "c1"})
	if !res.IsError {
		t.Error("missing group_name must be a tool error")
	}
}

func TestRequireAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		key    string
		header string
		value  string
		want   int
	}{
		{"auth disabled", "", "", "", http.StatusNoContent},
		{"missing key", "k", "", "", http.StatusUnauthorized},
		{"x-api-key", "k", "X-API-Key", "k", http.StatusNoContent},
		{"bearer", "k", "Authorization", "Bearer k", http.StatusNoContent},
		{"wrong key", "k", "X-API-Key", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			requireAPIKey(tt.key, ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	if newServer(&tools{competitions: &fakeCompetitions{}}) == nil {
		t.Fatal("nil server")
	}
}
