package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/metrics"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
)

// Cache stores normalized search results. Implementations swallow their own
// failures: a broken cache never fails a search.
type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool)
	Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool) {
	data, err := c.client.Get(ctx, Key(req)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.ObserveCache("redis", "error")
			log.Warn().Err(err).Msg("cache get failed")
			return nil, false
		}
		metrics.ObserveCache("redis", "miss")
		return nil, false
	}

	var flights []models.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		metrics.ObserveCache("redis", "error")
		return nil, false
	}

	metrics.ObserveCache("redis", "hit")
	return flights, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error {
	data, err := json.Marshal(flights)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, Key(req), data, c.ttl).Err(); err != nil {
		metrics.ObserveCache("redis", "error")
		return err
	}
	metrics.ObserveCache("redis", "set")
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key derives the cache key from the normalized request, so "khi" and "KHI"
// share an entry.
func Key(req models.SearchRequest) string {
	n := req.Normalized()
	keyData := struct {
		From   string
		To     string
		Date   string
		Adults int
	}{
		From:   n.From,
		To:     n.To,
		Date:   n.Date,
		Adults: n.Passengers(),
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "flight:" + hex.EncodeToString(hash[:])
}
