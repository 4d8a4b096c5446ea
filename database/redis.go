package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"tripmate-backend/config"
)

var Redis *redis.Client

func ConnectRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr: config.AppConfig.RedisURL,
	})

	_, err := Redis.Ping(context.Background()).Result()
	if err != nil {
		log.Println("⚠️  Redis not available, offline cache falls back to memory:", err)
		Redis = nil
		return
	}

	log.Println("✅ Redis connected successfully")
}
