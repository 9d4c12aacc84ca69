package database

import (
	"context"
	"fmt"
	"log"
	"medreport-service/internal/app/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects the submission cache that backs idempotent
// resubmission. Losing it only costs duplicate pipeline runs, so a failed
// ping at boot is still fatal rather than degraded.
func NewRedisClient(driverConfig *config.DriverConfig) *redis.Client {
	var ctx = context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", driverConfig.Redis.Host, driverConfig.Redis.Port),
		Password: driverConfig.Redis.Password,
	})

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to the submission cache: %v", err)
	}

	return rdb
}
