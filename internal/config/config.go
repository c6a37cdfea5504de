// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Lookup（商品データベースへのアウトバウンドHTTP）
	LookupBaseURL      string
	LookupTimeout      time.Duration
	LookupMaxSize      int64
	LookupRateInterval time.Duration

	// Rate Limit（req/min/クライアントIP）
	RateLimitGeneral int
	RateLimitLookup  int

	// Recipe（レシピ提案のアイデアフィード。未設定の場合は定型提案のみ）
	RecipeFeedURL string
	RecipeFeedTTL time.Duration

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.LookupBaseURL = getEnvString("LOOKUP_BASE_URL", "https://world.openfoodfacts.org")
	cfg.LookupTimeout = getEnvDuration("LOOKUP_TIMEOUT", 10*time.Second)
	cfg.LookupMaxSize = getEnvInt64("LOOKUP_MAX_SIZE", 1048576)
	cfg.LookupRateInterval = getEnvDuration("LOOKUP_RATE_INTERVAL", time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLookup = getEnvInt("RATE_LIMIT_LOOKUP", 30)
	cfg.RecipeFeedURL = getEnvString("RECIPE_FEED_URL", "")
	cfg.RecipeFeedTTL = getEnvDuration("RECIPE_FEED_TTL", time.Hour)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:8081")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
