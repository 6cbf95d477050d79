package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/cineflix/internal/catalog"
	"github.com/example/cineflix/internal/comment"
	"github.com/example/cineflix/internal/handlers"
	"github.com/example/cineflix/internal/platform/analytics"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/config"
	"github.com/example/cineflix/internal/platform/db"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/platform/logging"
	"github.com/example/cineflix/internal/platform/natsconn"
	"github.com/example/cineflix/internal/platform/run"
	"github.com/example/cineflix/internal/rating"
	"github.com/example/cineflix/internal/recommend"
	"github.com/example/cineflix/internal/sales"
	"github.com/example/cineflix/internal/user"
)

type stores struct {
	catalog  catalog.Store
	ratings  rating.Store
	comments comment.Store
	sales    sales.Store
	users    user.Store
	pool     *pgxpool.Pool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st := initStores(cfg, log)
	if st.pool != nil {
		defer st.pool.Close()
	}

	publisher, nc := initAnalytics(cfg, log)
	if nc != nil {
		defer nc.Close()
	}

	engine := recommend.NewEngine(st.catalog, st.ratings, st.comments, log)
	ledger := sales.NewLedger(st.sales, st.catalog, log)
	users := user.NewService(st.users, st.ratings, engine, log)

	if err := users.BootstrapAdmin(context.Background(), cfg.AdminUsername); err != nil {
		log.Error("admin bootstrap", zap.Error(err))
		run.Exit(1)
	}

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}
	issuer := auth.Issuer{Secret: []byte(cfg.JWTSecret)}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: readyFunc(st.pool)})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"service": cfg.ServiceName})
	})

	r.Post("/v1/auth/register", handlers.Register(users, issuer, publisher))
	r.Post("/v1/auth/login", handlers.Login(users, issuer, publisher))

	// Public catalog reads.
	r.Get("/v1/movies", handlers.ListMovies(st.catalog))
	r.Get("/v1/movies/stats", handlers.MovieStats(st.catalog))
	r.Get("/v1/movies/{movie_id}", handlers.GetMovie(st.catalog))
	r.Get("/v1/movies/{movie_id}/comments", handlers.ListComments(st.comments))

	// Authenticated.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))

		r.Post("/v1/movies/{movie_id}/ratings", handlers.RateMovie(engine, publisher))
		r.Get("/v1/users/me/ratings", handlers.MyRatings(st.ratings))
		r.Post("/v1/movies/{movie_id}/comments", handlers.PostComment(engine, publisher))
		r.Put("/v1/comments/{comment_id}", handlers.UpdateComment(engine))
		r.Delete("/v1/comments/{comment_id}", handlers.DeleteComment(engine))
		r.Get("/v1/recommendations", handlers.Recommendations(engine))
		r.Get("/v1/users/me/affinities", handlers.Affinities(engine))
	})

	// Admin.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Use(auth.RequireAdmin)

		r.Post("/v1/movies", handlers.AddMovie(st.catalog, publisher))
		r.Put("/v1/movies/{movie_id}", handlers.UpdateMovie(st.catalog))
		r.Delete("/v1/movies/{movie_id}", handlers.DeleteMovie(st.catalog))

		r.Post("/v1/sales", handlers.RecordSale(ledger, publisher))
		r.Get("/v1/sales", handlers.ListSales(ledger))
		r.Get("/v1/sales/report", handlers.SalesReport(ledger))
		r.Delete("/v1/sales/{sale_id}", handlers.CancelSale(ledger))

		r.Get("/v1/admin/users", handlers.ListUsers(users))
		r.Post("/v1/admin/users/{username}/promote", handlers.PromoteUser(users))
		r.Delete("/v1/admin/users/{username}", handlers.DeleteUser(users))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the persistence backend. With DATABASE_URL set every
// store runs on the shared Postgres pool; without it the in-memory stores are
// used, which production refuses.
func initStores(cfg config.AppConfig, log *zap.Logger) stores {
	if cfg.DatabaseURL == "" {
		if cfg.IsProduction() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		return stores{
			catalog:  catalog.NewInMemoryStore(),
			ratings:  rating.NewInMemoryStore(),
			comments: comment.NewInMemoryStore(),
			sales:    sales.NewInMemoryStore(),
			users:    user.NewInMemoryStore(),
		}
	}

	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}
	log.Info("postgres connected")
	return stores{
		catalog:  catalog.NewPostgresStore(pool),
		ratings:  rating.NewPostgresStore(pool),
		comments: comment.NewPostgresStore(pool),
		sales:    sales.NewPostgresStore(pool),
		users:    user.NewPostgresStore(pool),
		pool:     pool,
	}
}

// initAnalytics connects to NATS JetStream for fire-and-forget analytics
// events. Unavailability is logged and the service runs without analytics.
func initAnalytics(cfg config.AppConfig, log *zap.Logger) (*analytics.Publisher, *nats.Conn) {
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		log.Warn("nats connect failed, analytics disabled", zap.Error(err))
		return nil, nil
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream init failed, analytics disabled", zap.Error(err))
		nc.Close()
		return nil, nil
	}
	return analytics.New(js, log), nc
}

func readyFunc(pool *pgxpool.Pool) func() error {
	if pool == nil {
		return nil
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
}
