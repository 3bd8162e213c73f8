package lib

import (
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// Redis backs the hot paths that should not hit postgres on every request:
// gamification point counters, the cached venue QR token and settlement
// report snapshots.

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	opt, err := redis.ParseURL(os.Getenv("REDIS_HOST"))
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

// Cache key layout, grouped here so handlers and the domain layer agree on it.

// PointsKey holds a holder's lifetime check-in points counter.
func PointsKey(holderID uint) string {
	return fmt.Sprintf("%d:points", holderID)
}

// VenueQrKey caches the signed venue token until the token itself expires.
func VenueQrKey(eventID uint) string {
	return fmt.Sprintf("event:%d:venueqr", eventID)
}

// SettlementKey caches a partner settlement report for its date window.
func SettlementKey(partnerID uint, from, to string) string {
	return fmt.Sprintf("partner:%d:settlement:%s:%s", partnerID, from, to)
}

// EticketKey holds the presigned download URL for a rendered ticket QR.
func EticketKey(ticketID string) string {
	return fmt.Sprintf("ticketcode_%s", ticketID)
}
