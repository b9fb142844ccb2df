package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/PampangaDental/clinic-scheduler/internal/config"
	dbpkg "github.com/PampangaDental/clinic-scheduler/internal/db"
	"github.com/PampangaDental/clinic-scheduler/internal/logging"
	"github.com/PampangaDental/clinic-scheduler/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	db := dbpkg.NewDB(cfg)

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cache, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
