package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/nntexpressinc/blackhawks-backend/internal/config"
	"github.com/nntexpressinc/blackhawks-backend/internal/models"
	"github.com/nntexpressinc/blackhawks-backend/internal/repository"
	"github.com/nntexpressinc/blackhawks-backend/internal/routes"
	"github.com/nntexpressinc/blackhawks-backend/pkg/logger"
)

func main() {
	// Load .env
	envErr := godotenv.Load()

	log := logger.New()
	if envErr != nil {
		log.Info("No .env file found, relying on system env")
	}

	db, err := config.InitDB()
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}

	if err := db.AutoMigrate(
		&models.PaymentBatch{},
		&models.SettlementRecord{},
		&models.Load{},
		&models.MatchAuditLog{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, log)

	// Watchdog: a crashed run leaves its batch stuck in processing.
	batchRepo := repository.NewPaymentBatchRepository(db)
	timeout := 30 * time.Minute
	if raw := os.Getenv("BATCH_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}
	watchdog := cron.New()
	watchdog.AddFunc("@every 10m", func() {
		n, err := batchRepo.FailStale(timeout)
		if err != nil {
			log.WithError(err).Error("stale batch sweep failed")
			return
		}
		if n > 0 {
			log.WithField("batches", n).Warn("marked stale processing batches as failed")
		}
	})
	watchdog.Start()

	if err := r.Run(":" + config.Port()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
