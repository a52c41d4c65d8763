// Command league-mcp отдаёт таблицы и сетку соревнований как MCP-инструменты (только чтение).
package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultAddr = ":8090"

type CompetitionArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
}

type GroupArgs struct {
	CompetitionID string `json:"competition_id" jsonschema:"Competition id (required)"`
	GroupName     string `json:"group_name" jsonschema:"Group name or slug (required)"`
}

type tools struct {
	competitions services.CompetitionService
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	competitionRepo := repositories.NewPostgresCompetitionRepository(conn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(conn)
	competitionService := services.NewCompetitionService(
		repositories.NewTxRunner(conn),
		competitionRepo,
		fixtureRepo,
		repositories.NewPostgresTeamRepository(conn),
		nil,
		events.Discard{},
		services.NewCompetitionLocks(),
		logger,
	)

	server := newServer(&tools{competitions: competitionService})
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	addr := cfg.MCPAddr
	if addr == "" {
		addr = defaultAddr
	}
	mux := http.NewServeMux()
	mux.Handle("/mcp", requireAPIKey(strings.TrimSpace(cfg.MCPAPIKey), handler))

	logger.Info("starting MCP server", slog.String("address", addr), slog.Bool("auth", cfg.MCPAPIKey != ""))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("MCP server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func newServer(t *tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "league-mcp", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_standings",
		Description: "League table of a competition ordered by position",
	}, t.standings)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_group",
		Description: "Table and fixtures of one group in a hybrid competition",
	}, t.group)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_knockout_rounds",
		Description: "Knockout rounds with teams and resolved fixtures",
	}, t.knockout)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_snapshot",
		Description: "Competition state, rounded stats and all fixtures",
	}, t.snapshot)

	return server
}

func (t *tools) standings(ctx context.Context, _ *mcp.CallToolRequest, args CompetitionArgs) (*mcp.CallToolResult, any, error) {
	if args.CompetitionID == "" {
		return toolError(fmt.Errorf("competition_id is required")), nil, nil
	}
	return toolJSON(t.competitions.GetStandings(ctx, args.CompetitionID))
}

func (t *tools) group(ctx context.Context, _ *mcp.CallToolRequest, args GroupArgs) (*mcp.CallToolResult, any, error) {
	if args.CompetitionID == "" || args.GroupName == "" {
		return toolError(fmt.Errorf("competition_id and group_name are required")), nil, nil
	}
	return toolJSON(t.competitions.GetGroup(ctx, args.CompetitionID, args.GroupName))
}

func (t *tools) knockout(ctx context.Context, _ *mcp.CallToolRequest, args CompetitionArgs) (*mcp.CallToolResult, any, error) {
	if args.CompetitionID == "" {
		return toolError(fmt.Errorf("competition_id is required")), nil, nil
	}
	return toolJSON(t.competitions.GetKnockoutRounds(ctx, args.CompetitionID))
}

func (t *tools) snapshot(ctx context.Context, _ *mcp.CallToolRequest, args CompetitionArgs) (*mcp.CallToolResult, any, error) {
	if args.CompetitionID == "" {
		return toolError(fmt.Errorf("competition_id is required")), nil, nil
	}
	return toolJSON(t.competitions.GetSnapshot(ctx, args.CompetitionID))
}

func toolJSON(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func requireAPIKey(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if key == "" {
			if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
