package main

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/cache"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/config"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/handler"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/logging"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/metrics"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/travelport"
)

func main() {
	cfg := config.Load()
	log.Logger = logging.New(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	reg := metrics.InitRegistry()

	e := echo.New()
	e.HideBanner = true

	handler.Use(e, log.Logger)

	var flightCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Cache.RedisHost,
			Port:     cfg.Cache.RedisPort,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.RedisTTL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		flightCache = redisCache
		log.Info().
			Str("addr", cfg.Cache.RedisHost+":"+cfg.Cache.RedisPort).
			Dur("ttl", cfg.Cache.RedisTTL).
			Msg("redis cache enabled")
	} else {
		flightCache = cache.NewNoOpCache()
		log.Info().Msg("cache disabled")
	}

	svc := travelport.NewServiceFromConfig(cfg.Travelport)
	searchHandler := handler.NewSearchHandler(svc, flightCache)

	api := e.Group("/api")
	api.POST("/search", searchHandler.Search)
	api.POST("/details", searchHandler.Details)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))

	log.Info().
		Str("port", cfg.Port).
		Str("endpoint", cfg.Travelport.Endpoint).
		Msg("starting flight listing server")

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
