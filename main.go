package main

import (
	"log"
	"os"

	"sentracker/internal/api"
	"sentracker/internal/config"
	"sentracker/internal/redis"
	"sentracker/internal/risk"
	"sentracker/internal/service/tracker"
	"sentracker/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("SENTRACKER_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("SENTRACKER_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Create necessary tables: customer_profiles, conversations, risk_alerts
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewRedisClient(cfg)
		if err != nil {
			// cache is optional, the database stays authoritative
			log.Printf("redis unavailable, running without cache: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	predictor := risk.NewPredictor(risk.Config{
		DecliningAdjust:    cfg.Analysis.DecliningAdjust,
		RisingAdjust:       cfg.Analysis.RisingAdjust,
		CancellationWeight: cfg.Analysis.CancellationWeight,
		SignalWeight:       cfg.Analysis.SignalWeight,
		AlertThreshold:     cfg.Analysis.AlertThreshold,
		ConfidenceCap:      cfg.Analysis.ConfidenceCap,
	})
	trackerService := tracker.NewService(db, tracker.Options{
		Predictor:      predictor,
		TrendThreshold: cfg.Analysis.TrendThreshold,
		Cache:          rdb,
	})
	handlers := api.NewHandler(trackerService)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
