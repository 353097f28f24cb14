package database

import (
	"context"
	"time"

	"academy/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var RDB *redis.Client

// InitRedis connects to redis when REDIS_ADDR is set. Without it the service
// runs with in-memory fallbacks and RDB stays nil.
func InitRedis(ctx context.Context) *redis.Client {
	if config.RedisAddr == "" {
		logrus.Info("redis not configured, using in-memory fallbacks")
		return nil
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
		PoolSize: 50,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := RDB.Ping(pingCtx).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}

	logrus.WithField("addr", config.RedisAddr).Info("redis connection established")
	return RDB
}
