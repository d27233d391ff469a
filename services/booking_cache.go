package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"housecleaning-backend/config"
	"housecleaning-backend/models"

	"github.com/redis/go-redis/v9"
)

// BookingCache is a read cache for lookups by booking number.
//
// Get returns a nil booking on a miss, plus the key's generation. Fill stores
// the booking only if the generation has not moved since that Get, so a
// lookup racing an Invalidate cannot bring back a stale copy.
type BookingCache interface {
	Get(ctx context.Context, bookingNumber string) (*models.Booking, string, error)
	Fill(ctx context.Context, booking *models.Booking, generation string) error
	Invalidate(ctx context.Context, bookingNumber string) error
}

// generationTTL outlives any lookup in flight; an expired generation reads as
// "0" again.
const generationTTL = 24 * time.Hour

// KEYS[1] data, KEYS[2] generation; ARGV[1] expected generation, ARGV[2]
// payload, ARGV[3] ttl in ms (0 keeps it forever).
var fillScript = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

type RedisBookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisBookingCache(client *redis.Client, ttl time.Duration) *RedisBookingCache {
	return &RedisBookingCache{client: client, ttl: ttl}
}

// Both keys share a hash tag so they land on the same cluster slot.
func bookingCacheKey(bookingNumber string) string {
	return "booking:{" + bookingNumber + "}:data"
}

func bookingGenerationKey(bookingNumber string) string {
	return "booking:{" + bookingNumber + "}:gen"
}

func (c *RedisBookingCache) Get(ctx context.Context, bookingNumber string) (*models.Booking, string, error) {
	vals, err := c.client.MGet(ctx, bookingCacheKey(bookingNumber), bookingGenerationKey(bookingNumber)).Result()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get booking from redis: %w", err)
	}

	generation := "0"
	if g, ok := vals[1].(string); ok {
		generation = g
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, generation, nil
	}

	var booking models.Booking
	if err := json.Unmarshal([]byte(raw), &booking); err != nil {
		return nil, generation, fmt.Errorf("failed to unmarshal cached booking: %w", err)
	}
	return &booking, generation, nil
}

func (c *RedisBookingCache) Fill(ctx context.Context, booking *models.Booking, generation string) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	keys := []string{bookingCacheKey(booking.BookingNumber), bookingGenerationKey(booking.BookingNumber)}
	if err := fillScript.Run(ctx, c.client, keys, generation, data, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to set booking in redis: %w", err)
	}
	return nil
}

func (c *RedisBookingCache) Invalidate(ctx context.Context, bookingNumber string) error {
	genKey := bookingGenerationKey(bookingNumber)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, bookingCacheKey(bookingNumber))
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate booking in redis: %w", err)
	}
	return nil
}
