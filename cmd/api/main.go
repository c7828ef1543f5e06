package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mzidan/divvy/docs"
	"github.com/mzidan/divvy/internal/balance"
	"github.com/mzidan/divvy/internal/config"
	"github.com/mzidan/divvy/internal/database"
	"github.com/mzidan/divvy/internal/expense"
	"github.com/mzidan/divvy/internal/expense/split"
	"github.com/mzidan/divvy/internal/group"
	"github.com/mzidan/divvy/internal/payment"
	"github.com/mzidan/divvy/internal/user"
	"github.com/mzidan/divvy/pkg/cache"
	"github.com/mzidan/divvy/pkg/logging"
	mw "github.com/mzidan/divvy/pkg/middleware"
)

// balanceCacheTTL bounds staleness if an invalidation is ever missed.
const balanceCacheTTL = time.Minute

// @title           Divvy API
// @version         1.0
// @description     Shared expense tracking with groups, splits, settlements and net balances.
// @BasePath        /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()
	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	balanceCache := cache.New(balanceCacheTTL)
	splitFactory := split.NewFactory()

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	groupRepo := group.NewRepository(db)
	guard := group.NewGuard(groupRepo)
	groupService := group.NewService(groupRepo, guard)
	groupHandler := group.NewHandler(groupService)

	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, guard, splitFactory, balanceCache)
	expenseHandler := expense.NewHandler(expenseService)

	paymentRepo := payment.NewRepository(db)
	paymentService := payment.NewService(paymentRepo, guard, balanceCache)
	paymentHandler := payment.NewHandler(paymentService)

	balanceRepo := balance.NewRepository(db)
	balanceService := balance.NewService(balanceRepo, guard, balanceCache)
	balanceHandler := balance.NewHandler(balanceService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(mw.Metrics)

	if cfg.JWTSecret != "" {
		r.Use(mw.Auth(cfg.JWTSecret))
	} else {
		slog.Warn("JWT_SECRET not set, falling back to test user header")
		r.Use(mw.TestUserMiddleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", mw.MetricsHandler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/payments", paymentHandler.Routes())
		r.Mount("/balances", balanceHandler.Routes())
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
