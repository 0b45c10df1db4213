package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/config"
	"nusantara-culture-service/internal/infra/gcs"
	"nusantara-culture-service/internal/infra/memory"
	"nusantara-culture-service/internal/infra/postgres"
	infraredis "nusantara-culture-service/internal/infra/redis"
	"nusantara-culture-service/internal/logger"
	transport "nusantara-culture-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// stores groups the record and object adapters selected by config.
type stores struct {
	provinces   app.ProvinceRepository
	resources   app.ResourceRepository
	quizzes     app.QuizStore
	finder      app.QuizFinder
	submissions app.SubmissionRepository
	profiles    app.ProfileRepository
	objects     app.ObjectStore
	closers     []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load quiz timezone %q: %w", cfg.Quiz.Timezone, err)
	}

	st, err := openStores(ctx, cfg, loc, log)
	if err != nil {
		return err
	}
	defer st.close()

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizCache app.QuizCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		quizCache = infraredis.NewQuizRepository(redisClient, st.quizzes, quizTTL, log)
	} else {
		quizCache = memory.NewQuizRepository(st.quizzes, quizTTL)
	}

	resourceService := app.NewResourceService(st.provinces, st.resources, st.objects, app.UploadPolicy{
		MaxBytes:     cfg.Upload.MaxBytes,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}, config.TTLDuration(cfg.Storage.CleanupTimeout, 30*time.Second), log)
	quizService := app.NewQuizService(quizCache, st.finder, st.submissions, loc, log)
	leaderboardService := app.NewLeaderboardService(st.submissions, st.profiles, cfg.Leaderboard.DefaultLimit, cfg.Leaderboard.MaxLimit, log)
	adminService := app.NewQuizAdminService(st.quizzes, st.provinces, st.submissions, quizCache, log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret not set; trusting X-User-ID headers")
	}
	router := transport.NewRouter(transport.RouterConfig{
		Log:                log,
		AuthMiddleware:     transport.NewAuthMiddleware(log, cfg.Auth.JWTSecret),
		ResourceHandler:    transport.NewResourceHandler(log, resourceService, cfg.Upload.MaxBytes),
		QuizHandler:        transport.NewQuizHandler(log, quizService),
		LeaderboardHandler: transport.NewLeaderboardHandler(log, leaderboardService),
		AdminHandler:       transport.NewAdminHandler(log, adminService),
		MaxMultipartMemory: cfg.Upload.MaxBytes + 1<<20,
	})

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 30*time.Second),
	}

	go func() {
		log.Info("starting culture service", "port", finalPort, "timezone", loc.String(), "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStores uses Postgres when configured (after migrating) and seeded in-memory stores otherwise.
func openStores(ctx context.Context, cfg config.Config, loc *time.Location, log *logger.Logger) (*stores, error) {
	st := &stores{}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)

		resources := postgres.NewResourceStore(pool)
		quizzes := postgres.NewQuizStore(pool)
		st.provinces, st.resources = resources, resources
		st.quizzes, st.finder = quizzes, quizzes
		st.submissions = postgres.NewSubmissionStore(pool)
		st.profiles = postgres.NewProfileStore(pool)
	} else {
		log.Warn("postgres url not set; using in-memory stores with sample data")
		resources := memory.NewResourceStore(sampleProvinces()...)
		quizzes := memory.NewQuizStore(sampleQuiz(time.Now().In(loc)))
		st.provinces, st.resources = resources, resources
		st.quizzes, st.finder = quizzes, quizzes
		st.submissions = memory.NewSubmissionStore()
		st.profiles = memory.NewProfileStore()
	}

	switch cfg.Storage.Driver {
	case "gcs":
		bucket, err := gcs.NewBucketStore(ctx, gcs.Config{
			Bucket:          cfg.Storage.Bucket,
			CDNDomain:       cfg.Storage.CDNDomain,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			CredentialsFile: cfg.Storage.CredentialsFile,
		}, log)
		if err != nil {
			st.close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = bucket.Close() })
		st.objects = bucket
	case "memory":
		st.objects = memory.NewBlobStore(cfg.Storage.PublicBaseURL)
	default:
		st.close()
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return st, nil
}
