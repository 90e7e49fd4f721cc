package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"github.com/yoockh/jobportal/config"
	"github.com/yoockh/jobportal/internal/api/handlers"
	"github.com/yoockh/jobportal/internal/api/middleware"
	"github.com/yoockh/jobportal/internal/api/routes"
	"github.com/yoockh/jobportal/internal/auth"
	"github.com/yoockh/jobportal/internal/cache"
	"github.com/yoockh/jobportal/internal/logger"
	"github.com/yoockh/jobportal/internal/providers/embed"
	"github.com/yoockh/jobportal/internal/providers/extract"
	"github.com/yoockh/jobportal/internal/providers/geocode"
	"github.com/yoockh/jobportal/internal/providers/llm"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobportal/internal/repositories/postgres"
	"github.com/yoockh/jobportal/internal/services"
	"github.com/yoockh/jobportal/internal/storage"
	"github.com/yoockh/jobportal/internal/utils"
	"github.com/yoockh/jobportal/internal/workers"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("validator registration failed")
	}
	handlers.ExposeErrorDetail(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	mongoClient, err := config.NewMongo(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	db := mongoClient.Database(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("MongoDB index setup failed")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	pg, err := config.NewPostgres(cfg)
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if sqlDB, err := pg.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := config.MigrateVectorStore(pg); err != nil {
		log.WithError(err).Fatal("vector store migration failed")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	rdb, err := config.NewRedis(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	defer rdb.Close()
	log.Info("Redis connected")

	store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCPCredentialsFile)
	if err != nil {
		log.WithError(err).Fatal("GCS init error")
	}
	defer store.Close()

	var gcpOpts []option.ClientOption
	if cfg.GCPCredentialsFile != "" {
		gcpOpts = append(gcpOpts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}

	var structurer llm.ResumeStructurer
	if provider, err := newLLMProvider(ctx, cfg, gcpOpts); err != nil {
		log.WithError(err).Warn("resume structuring disabled")
	} else {
		defer provider.Close()
		structurer = llm.NewResumeStructurer(provider, log)
	}

	var embedder embed.Embedder
	if cfg.GCPProjectID != "" {
		e, err := embed.NewVertexEmbedder(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.EmbeddingModel, gcpOpts...)
		if err != nil {
			log.WithError(err).Warn("embeddings disabled")
		} else {
			embedder = e
			defer e.Close()
		}
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		log.WithError(err).Fatal("JWT init error")
	}

	redisCache := cache.NewRedisCache(rdb, "jobportal:")
	geocoder := geocode.NewCachedGeocoder(
		geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent),
		redisCache, geocode.DefaultCacheTTL, log,
	)

	// Repositories
	userRepo := mongorepo.NewUserRepo(db)
	seekerRepo := mongorepo.NewJobSeekerRepo(db)
	recruiterRepo := mongorepo.NewRecruiterRepo(db)
	vectorRepo := pgrepo.NewVectorRepo(pg)

	clean := utils.NewSanitizer()
	queue := workers.NewVectorQueue(rdb, log)

	// Services
	writer := services.NewSeekerWriter(seekerRepo, services.NewLocationEnricher(geocoder, log), queue, clean, log)
	profileSvc := services.NewProfileService(userRepo, seekerRepo, recruiterRepo, writer, clean)
	authSvc := services.NewAuthService(userRepo, profileSvc, tokens, clean, log)
	vectorSvc := services.NewVectorService(seekerRepo, vectorRepo, embedder, log)
	accountSvc := services.NewAccountService(userRepo, seekerRepo, recruiterRepo, store, vectorSvc, log)

	resumeSvc := services.NewResumeService(seekerRepo, writer, store, extract.New(), structurer, clean, log)
	avatarSvc := services.NewAvatarService(userRepo, store, store, clean, log)
	searchSvc := services.NewSearchService(userRepo, seekerRepo, vectorSvc, log)
	adminSvc := services.NewAdminService(userRepo, recruiterRepo, profileSvc, accountSvc, writer, clean, log)

	// Workers
	pool := &workers.VectorWorkerPool{
		Redis:      rdb,
		Vectors:    vectorSvc,
		NumWorkers: cfg.VectorWorkers,
		Logger:     log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("vector worker start failed")
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins, cfg.IsDevelopment()))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Profile:   handlers.NewProfileHandler(profileSvc, accountSvc),
		Upload:    handlers.NewUploadHandler(resumeSvc, avatarSvc, cfg.UploadTmpDir),
		Recruiter: handlers.NewRecruiterHandler(searchSvc),
		Admin:     handlers.NewAdminHandler(adminSvc),
		WS:        handlers.NewWSHandler(rdb, cfg.CORSAllowedOrigins, log),
		Tokens:    tokens,
		Users:     authSvc,
		Counter:   redisCache,
		Limits: routes.RateLimits{
			Window:  cfg.RateLimitWindow,
			Max:     cfg.RateLimitMax,
			AuthMax: cfg.AuthRateLimitMax,
		},
		Logger: log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func newLLMProvider(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "googleai":
		p, err := llm.NewGoogleAI(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "vertex", "":
		p, err := llm.NewVertexGemini(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.LLMModel, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.New("unknown LLM_PROVIDER " + cfg.LLMProvider)
	}
}
