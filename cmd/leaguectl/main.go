// Command leaguectl - административные операции над соревнованиями.
//
// Usage:
//
//	leaguectl token --user 42 --role organizer --ttl 24h
//	leaguectl standings <competitionID>
//	leaguectl complete <fixtureID> --home 2 --away 1
//	leaguectl verify [competitionID]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// cliActor выполняет команды, меняющие данные
var cliActor = models.Actor{UserID: "leaguectl", Role: models.RoleAdmin}

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "leaguectl",
		Short:        "League system admin CLI",
		SilenceUsage: true,
	}

	root.AddCommand(tokenCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(completeCmd())
	root.AddCommand(verifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	competitions services.CompetitionService
	results      services.FixtureResultService
	integrity    services.IntegrityService
}

func withApp(fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	var publisher events.Publisher = events.Discard{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(events.AMQPPublisherConfig{URL: cfg.AMQPURL, Exchange: cfg.AMQPExchange}, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	tx := repositories.NewTxRunner(conn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(conn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(conn)
	auditRepo := repositories.NewPostgresAuditRepository(conn)
	locks := services.NewCompetitionLocks()

	a := &app{
		competitions: services.NewCompetitionService(tx, competitionRepo, fixtureRepo,
			repositories.NewPostgresTeamRepository(conn), auditRepo, publisher, locks, logger),
		results: services.NewFixtureResultService(tx, fixtureRepo, competitionRepo,
			repositories.NewPostgresPlayerStatsRepository(conn), auditRepo, publisher, locks, logger),
		integrity: services.NewIntegrityService(competitionRepo, fixtureRepo, logger),
	}
	return fn(ctx, a)
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET_KEY")
			if secret == "" {
				return errors.New("JWT_SECRET_KEY environment variable is not set")
			}
			r := models.UserRole(role)
			switch r {
			case models.RoleAdmin, models.RoleOrganizer, models.RolePlayer:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			token, err := middleware.IssueToken([]byte(secret), userID, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&role, "role", string(models.RoleOrganizer), "admin, organizer or player")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func standingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <competitionID>",
		Short: "Print the league table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				table, err := a.competitions.GetStandings(ctx, args[0])
				if err != nil {
					return err
				}
				return printStandings(cmd.OutOrStdout(), table)
			})
		},
	}
}

func completeCmd() *cobra.Command {
	var (
		competitionID string
		home, away    int
		homePens      int
		awayPens      int
	)
	cmd := &cobra.Command{
		Use:   "complete <fixtureID>",
		Short: "Record a fixture result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.CompleteFixtureInput{
				FixtureID: args[0],
				Result:    models.FixtureResult{HomeScore: home, AwayScore: away},
			}
			if competitionID != "" {
				input.CompetitionID = &competitionID
			}
			if cmd.Flags().Changed("home-penalties") || cmd.Flags().Changed("away-penalties") {
				input.Result.HomePenalty = &homePens
				input.Result.AwayPenalty = &awayPens
			}
			return withApp(func(ctx context.Context, a *app) error {
				res, err := a.results.CompleteFixture(ctx, cliActor, input)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			})
		},
	}
	cmd.Flags().StringVar(&competitionID, "competition", "", "Competition the fixture must belong to")
	cmd.Flags().IntVar(&home, "home", 0, "Home score")
	cmd.Flags().IntVar(&away, "away", 0, "Away score")
	cmd.Flags().IntVar(&homePens, "home-penalties", 0, "Home shootout score")
	cmd.Flags().IntVar(&awayPens, "away-penalties", 0, "Away shootout score")
	return cmd
}

func scheduleCmd() *cobra.Command {
	var (
		competitionID string
		kickoff       string
		group, round  string
	)
	cmd := &cobra.Command{
		Use:   "schedule <homeTeamID> <awayTeamID>",
		Short: "Schedule a fixture; without --competition it is a friendly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.ScheduleFixtureInput{
				HomeTeamID: args[0],
				AwayTeamID: args[1],
				GroupName:  group,
				RoundName:  round,
			}
			if kickoff != "" {
				at, err := time.Parse(time.RFC3339, kickoff)
				if err != nil {
					return fmt.Errorf("kickoff: %w", err)
				}
				input.KickoffAt = at
			}
			var compID *string
			if competitionID != "" {
				compID = &competitionID
			}
			return withApp(func(ctx context.Context, a *app) error {
				f, err := a.competitions.ScheduleFixture(ctx, cliActor, compID, input)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			})
		},
	}
	cmd.Flags().StringVar(&competitionID, "competition", "", "Competition ID")
	cmd.Flags().StringVar(&kickoff, "kickoff", "", "Kickoff time, RFC 3339")
	cmd.Flags().StringVar(&group, "group", "", "Group to place the fixture in")
	cmd.Flags().StringVar(&round, "round", "", "Knockout round to place the fixture in")
	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [competitionID]",
		Short: "Check stored tables and aggregates against their invariants",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				var reports []services.IntegrityReport
				if len(args) == 1 {
					r, err := a.integrity.Verify(ctx, args[0])
					if err != nil {
						return err
					}
					reports = append(reports, *r)
				} else {
					var err error
					if reports, err = a.integrity.VerifyAll(ctx); err != nil {
						return err
					}
				}
				return printReports(cmd.OutOrStdout(), reports)
			})
		},
	}
}

func printStandings(out io.Writer, table []models.StandingsEntry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTEAM\tP\tW\tD\tL\tGF\tGA\tGD\tPTS\tFORM")
	for _, e := range table {
		form := ""
		for _, f := range e.Form {
			form += string(f)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%s\n",
			e.Position, e.TeamID, e.Played, e.Wins, e.Draws, e.Losses,
			e.GoalsFor, e.GoalsAgainst, e.GoalDifference, e.Points, form)
	}
	return w.Flush()
}

var errIntegrity = errors.New("integrity violations found")

func printReports(out io.Writer, reports []services.IntegrityReport) error {
	broken := 0
	for _, r := range reports {
		if r.OK() {
			fmt.Fprintf(out, "%s\tok\n", r.CompetitionID)
			continue
		}
		broken++
		for _, v := range r.Violations {
			fmt.Fprintf(out, "%s\t%s\n", r.CompetitionID, v)
		}
	}
	if broken > 0 {
		return fmt.Errorf("%w in %d competition(s)", errIntegrity, broken)
	}
	return nil
}
