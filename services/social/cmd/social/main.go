package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/example/social-platform/internal/platform/auth"
	"github.com/example/social-platform/internal/platform/config"
	"github.com/example/social-platform/internal/platform/db"
	"github.com/example/social-platform/internal/platform/events"
	"github.com/example/social-platform/internal/platform/httpserver"
	"github.com/example/social-platform/internal/platform/logging"
	"github.com/example/social-platform/internal/platform/natsconn"
	"github.com/example/social-platform/internal/platform/run"
	"github.com/example/social-platform/services/social/internal/comments"
	"github.com/example/social-platform/services/social/internal/handlers"
	"github.com/example/social-platform/services/social/internal/store"
	"github.com/example/social-platform/services/social/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	commentStore, postStore, userStore, pool := initStores(cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	// Event publishing is best-effort; the service runs without NATS.
	var publisher *events.Publisher
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		log.Warn("nats unavailable, comment events disabled", zap.Error(err))
	} else {
		defer nc.Close()
		js, err := natsconn.JetStream(nc)
		if err != nil {
			log.Warn("jetstream unavailable, comment events disabled", zap.Error(err))
		} else {
			publisher = events.New(js, log)
		}
	}

	svc := comments.New(comments.Options{
		Comments:     commentStore,
		Posts:        postStore,
		Users:        userStore,
		Events:       publisher,
		Logger:       log,
		DefaultLimit: cfg.Comments.DefaultLimit,
		MaxDepth:     cfg.Comments.MaxDepth,
	})

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}

	r := chi.NewRouter()
	readyFunc := func() error { return nil }
	if pool != nil {
		readyFunc = func() error { return pool.Ping(context.Background()) }
	}
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: readyFunc})

	// Public reads.
	r.Get("/v1/posts/{post_id}/comments", handlers.ListComments(svc))
	r.Get("/v1/posts/{post_id}/comments/tree", handlers.GetFullTree(svc))
	r.Get("/v1/comments/{comment_id}/replies", handlers.ListReplies(svc))
	r.Get("/v1/comments/{comment_id}/tree", handlers.GetSubtree(svc))

	// Writes require an authenticated user.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/posts/{post_id}/comments", handlers.CreateComment(svc))
		r.Put("/v1/comments/{comment_id}", handlers.UpdateComment(svc))
		r.Delete("/v1/comments/{comment_id}", handlers.DeleteComment(svc))
		r.Post("/v1/comments/{comment_id}/like", handlers.LikeComment(svc))
		r.Delete("/v1/comments/{comment_id}/like", handlers.UnlikeComment(svc))
	})

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTP.Addr,
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if nc != nil && pool != nil {
			go worker.StartCountsConsumer(ctx, nc, pool, log)
		}
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the storage backend. Production requires Postgres;
// development falls back to in-memory stores when DATABASE_URL is unset
// or the database is unreachable.
func initStores(cfg config.AppConfig, log *zap.Logger) (store.CommentStore, store.PostStore, store.UserStore, *pgxpool.Pool) {
	memory := func() (store.CommentStore, store.PostStore, store.UserStore, *pgxpool.Pool) {
		return store.NewInMemoryCommentStore(), store.NewInMemoryPostStore(), store.NewInMemoryUserStore(), nil
	}

	if cfg.DatabaseURL == "" {
		if cfg.Production() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		return memory()
	}

	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		if cfg.Production() {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory stores", zap.Error(err))
		return memory()
	}

	log.Info("stores: postgres")
	return store.NewPostgresCommentStore(pool), store.NewPostgresPostStore(pool), store.NewPostgresUserStore(pool), pool
}
