// file: internals/configs/config.go
package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret   string
	JWTAudience string
	RedisAddr   string
	RedisPass   string
)

// LoadEnv loads .env in local development; deployed environments provide
// variables directly.
func LoadEnv() {
	if os.Getenv("DEPLOY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] no .env file found, using system ENV")
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTAudience = GetEnvOr("JWT_AUDIENCE", "ClassManager")
	RedisAddr = GetEnvOr("REDIS_ADDR", "127.0.0.1:6379")
	RedisPass = GetEnv("REDIS_PASSWORD")

	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set")
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
