package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/bryanwahyu/leafscan/internal/application"
	appdiag "github.com/bryanwahyu/leafscan/internal/application/diagnosis"
	"github.com/bryanwahyu/leafscan/internal/config"
	domai "github.com/bryanwahyu/leafscan/internal/domain/ai"
	"github.com/bryanwahyu/leafscan/internal/domain/diagnosis"
	"github.com/bryanwahyu/leafscan/internal/domain/parsefailures"
	"github.com/bryanwahyu/leafscan/internal/infra/ai/canned"
	"github.com/bryanwahyu/leafscan/internal/infra/ai/groq"
	"github.com/bryanwahyu/leafscan/internal/infra/ai/prompt"
	mysqlp "github.com/bryanwahyu/leafscan/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/leafscan/internal/infra/db/postgres"
	"github.com/bryanwahyu/leafscan/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/leafscan/internal/infra/storage"
	"github.com/bryanwahyu/leafscan/internal/middleware"
)

func main() {
	// .env for local dev; real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres opt-in)
	var db *sql.DB
	var repo diagnosis.Repository
	var failures parsefailures.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewDiagnosisRepository(db)
		failures = postgresp.NewParseFailureRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewDiagnosisRepository(db)
		failures = mysqlp.NewParseFailureRepository(db)
	}
	defer db.Close()

	// init minio image archive
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// pick analyzer: real Groq client, or canned replies without a key
	var analyzer domai.Analyzer
	if cfg.AI.APIKey != "" {
		analyzer = groq.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
	} else {
		log.Println("no API key configured, using canned analyzer")
		analyzer = canned.NewAnalyzer()
	}

	svc := appdiag.NewService(analyzer, repo, store, failures,
		application.SystemClock{}, prompt.LeafAnalysis(), cfg.AI.Model)

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(60, 1))
	if len(cfg.Server.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	}
	mux.Mount("/", httpserver.NewRouter(svc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
