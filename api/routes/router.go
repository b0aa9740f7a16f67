package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendygo/vendygo-backend/api/controllers"
	"github.com/vendygo/vendygo-backend/api/middleware"
	"github.com/vendygo/vendygo-backend/internal/auth"
	"github.com/vendygo/vendygo-backend/internal/coop"
	"github.com/vendygo/vendygo-backend/internal/savings"
	"github.com/vendygo/vendygo-backend/internal/trade"
	"github.com/vendygo/vendygo-backend/pkg/auth/session"
	"github.com/vendygo/vendygo-backend/pkg/config"
	"github.com/vendygo/vendygo-backend/pkg/db"
	"github.com/vendygo/vendygo-backend/pkg/enums"
	"github.com/vendygo/vendygo-backend/pkg/logger"
	"github.com/vendygo/vendygo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	coopService coop.Service,
	tradeService trade.Service,
	savingsService savings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// a typed nil must not reach the middleware as a non-nil interface
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/session", controllers.Session(authService, logg))

		r.Route("/coops", func(r chi.Router) {
			r.Get("/", controllers.CoopList(coopService, logg))
			r.Get("/contributions", controllers.CoopContributions(coopService, logg))
			r.Get("/{campaignId}", controllers.CoopGet(coopService, logg))
			r.Post("/{campaignId}/join", controllers.CoopJoin(coopService, logg))
		})

		r.Route("/wholesaler/coops", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleWholesaler), logg))
			r.Get("/", controllers.CoopMine(coopService, logg))
			r.Post("/", controllers.CoopCreate(coopService, logg))
		})

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", controllers.TradeBrowse(tradeService, logg))
			r.Post("/", controllers.TradeCreate(tradeService, logg))
			r.Get("/mine", controllers.TradeMine(tradeService, logg))
			r.Get("/proposals", controllers.TradeProposals(tradeService, logg))
			r.Post("/proposals", controllers.TradePropose(tradeService, logg))
			r.Patch("/{listingId}", controllers.TradeUpdate(tradeService, logg))
			r.Delete("/{listingId}", controllers.TradeDeactivate(tradeService, logg))
			r.Post("/{listingId}/view", controllers.TradeView(tradeService, logg))
		})

		r.Post("/savings/estimate", controllers.SavingsEstimate(savingsService, logg))
	})

	return r
}
