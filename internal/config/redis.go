package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client used by the response cache on the
// public catalog listings. Connection parameters come from the environment:
//
//	REDIS_ADDR     - host:port (default localhost:6379)
//	REDIS_HOST     - with REDIS_PORT, overrides REDIS_ADDR
//	REDIS_PASSWORD - optional password
//	REDIS_DB       - database number (default 0)
//	REDIS_TLS      - "true"/"1" enables TLS
//
// Redis is optional infrastructure: if the server is unreachable at startup
// the function returns nil and the caller runs without caching.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	if host := getenv("REDIS_HOST", ""); host != "" {
		addr = host + ":" + getenv("REDIS_PORT", "6379")
	}

	var tlsConf *tls.Config
	switch getenv("REDIS_TLS", "") {
	case "true", "TRUE", "True", "1":
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  getenv("REDIS_PASSWORD", ""),
		DB:        atoi(getenv("REDIS_DB", "0")),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
