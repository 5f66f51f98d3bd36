package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

func tiersCacheKey(eventID uint, membership string) string {
	return fmt.Sprintf("events:%d:tiers:%s", eventID, membership)
}

// CacheEventTiers stores a serialized tier list. Pricing rarely changes
// mid-journey; a short TTL keeps the wizard responsive without a
// per-step database round trip.
func CacheEventTiers(ctx context.Context, eventID uint, membership string, data []byte, ttl time.Duration) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Set(ctx, tiersCacheKey(eventID, membership), data, ttl).Err(); err != nil {
		log.Printf("[redis] Failed to cache tiers for event [%d]: %s\n", eventID, err.Error())
	}
}

func GetCachedEventTiers(ctx context.Context, eventID uint, membership string) ([]byte, bool) {
	rdb := GetRedisClient()
	if rdb == nil {
		return nil, false
	}
	val, err := rdb.Get(ctx, tiersCacheKey(eventID, membership)).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		log.Printf("[redis] Error retrieving tiers for event [%d]: %s\n", eventID, err.Error())
		return nil, false
	}
	return val, true
}

func InvalidateEventTiers(ctx context.Context, eventID uint) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, fmt.Sprintf("events:%d:tiers:*", eventID), 0).Iterator()
	for iter.Next(ctx) {
		rdb.Del(ctx, iter.Val())
	}
}

// MapCheckoutSession links a Stripe session to its booking so webhook
// deliveries resolve without a metadata round trip.
func MapCheckoutSession(ctx context.Context, sessionID string, bookingID uint, ttl time.Duration) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	key := fmt.Sprintf("checkout:%s", sessionID)
	if err := rdb.Set(ctx, key, bookingID, ttl).Err(); err != nil {
		log.Printf("[redis] Failed to map checkout session %s: %s\n", sessionID, err.Error())
	}
}

func LookupCheckoutSession(ctx context.Context, sessionID string) (uint, bool) {
	rdb := GetRedisClient()
	if rdb == nil {
		return 0, false
	}
	val, err := rdb.Get(ctx, fmt.Sprintf("checkout:%s", sessionID)).Uint64()
	if err != nil {
		return 0, false
	}
	return uint(val), true
}
