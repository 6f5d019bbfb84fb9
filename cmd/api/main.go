package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forex-data-service/internal/adapter/postgres"
	"forex-data-service/internal/adapter/yahoo"
	"forex-data-service/internal/entity"
	"forex-data-service/internal/handler"
	"forex-data-service/internal/metrics"
	"forex-data-service/internal/service"
	"forex-data-service/internal/usecase"
	"forex-data-service/pkg/config"
	"forex-data-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log := logger.Init(cfg.Log.Level)

	log.Info("Starting app...")

	if err := postgres.RunMigrations(*cfg, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// initialize db pool
	dbPool, err := postgres.InitDBPool(*cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize db pool")
	}
	defer dbPool.Close()

	// initialize adapters
	yahooClient := yahoo.NewClient(*cfg, log)
	log.Info("Initialized rate provider")

	db := postgres.NewPostgresRepo(dbPool, log)
	log.Info("Initialized database repository")

	m := metrics.New(prometheus.DefaultRegisterer)

	syncPairs := make([]entity.Pair, 0, len(cfg.Sync.Pairs))
	for _, raw := range cfg.Sync.Pairs {
		parts := strings.SplitN(raw, "/", 2)
		if len(parts) != 2 {
			log.Fatalf("Invalid sync pair %q in config, expected BASE/QUOTE", raw)
		}
		pair, err := entity.NewPair(parts[0], parts[1])
		if err != nil {
			log.Fatalf("Invalid sync pair %q in config: %v", raw, err)
		}
		syncPairs = append(syncPairs, pair)
	}

	// initialize service
	forexService := service.NewRateService(yahooClient, db, m, cfg.Sync.LookbackDays, log)
	log.Info("Initialized service layer")

	// initialize usecase
	forexUsecase := usecase.NewForexDataUsecase(forexService, syncPairs, log)
	log.Info("Initialized usecase layer")

	forexHandler := handler.NewForexHandler(forexUsecase, log)

	r := gin.Default()

	r.Use(m.GinMiddleware())

	// cors middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	r.POST("/api/forex-data", forexHandler.GetForexData)
	r.GET("/api/sync-forex-data", forexHandler.SyncForexData) // invoked by an external cron
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	go func() {
		log.Infof("Server starting on port %s...", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Got shutdown signal...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Error server shutdown:", err)
	}
	log.Info("Server stopped")

	log.Info("Gracefuly shutdowned")
}
