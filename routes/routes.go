package routes

import (
	"net/http"

	_ "github.com/Dosada05/league-system/docs"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// ResultLimiter ограничивает запись результатов; nil - без ограничения
	ResultLimiter *middleware.RateLimiter
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	competitionHandler *handlers.CompetitionHandler,
	fixtureHandler *handlers.FixtureHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", handlers.HealthCheck)
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/ws/competitions/{competitionID}", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	managers := middleware.Authorize(models.RoleAdmin, models.RoleOrganizer)
	limited := func(next http.Handler) http.Handler {
		if opts.ResultLimiter == nil {
			return next
		}
		return opts.ResultLimiter.Handler(next)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/fixtures/{fixtureID}", func(r chi.Router) {
			r.With(authenticate, managers, limited).Post("/result", fixtureHandler.CompleteFixture)
		})

		r.With(authenticate, managers).Post("/fixtures", competitionHandler.ScheduleFriendly)
		r.With(authenticate, managers).Post("/competitions", competitionHandler.CreateCompetition)

		r.Route("/competitions/{competitionID}", func(r chi.Router) {
			// Публичное чтение
			r.Get("/standings", competitionHandler.GetStandings)
			r.Get("/groups/{groupName}", competitionHandler.GetGroup)
			r.Get("/knockout", competitionHandler.GetKnockoutRounds)
			r.Get("/stats", competitionHandler.GetStats)
			r.Get("/snapshot", competitionHandler.GetSnapshot)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(managers)

				r.Post("/fixtures", competitionHandler.ScheduleFixture)
				r.With(limited).Post("/fixtures/{fixtureID}/result", fixtureHandler.CompleteFixture)

				r.Get("/integrity", competitionHandler.VerifyIntegrity)

				r.Post("/league", competitionHandler.InitializeLeague)
				r.Post("/league/schedule", competitionHandler.ScheduleLeague)

				r.Post("/groups", competitionHandler.AddGroup)
				r.Post("/groups/{groupName}/fixtures", competitionHandler.AssignGroupFixture)
				r.Delete("/groups/{groupName}/fixtures/{fixtureID}", competitionHandler.RemoveGroupFixture)
				r.Post("/groups/{groupName}/qualify", competitionHandler.QualifyFromGroup)

				r.Post("/knockout/rounds", competitionHandler.AddRound)
				r.Post("/knockout/rounds/{roundName}/teams", competitionHandler.SeedRound)
				r.Post("/knockout/rounds/{roundName}/fixtures", competitionHandler.AssignRoundFixture)
				r.Delete("/knockout/rounds/{roundName}/fixtures/{fixtureID}", competitionHandler.RemoveRoundFixture)
				r.Post("/knockout/generate", competitionHandler.GenerateKnockout)
			})
		})
	})
}
