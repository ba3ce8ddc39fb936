package Cache

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the shared Redis client used for token and vehicle-map
// caching. Constructed once in main and handed to whoever needs it.
func NewRedis(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL %q, falling back to localhost: %v", redisURL, err)
		opts = &redis.Options{Addr: "localhost:6379"}
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 5 * time.Second
	opts.WriteTimeout = 5 * time.Second
	return redis.NewClient(opts)
}
