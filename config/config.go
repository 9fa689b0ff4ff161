package config

import (
	"sync"
	"tableside_server/structs"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load builds a fresh configuration from the environment. GetConfig caches the first result.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Tableside_no_env"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
		},
		Cors: &structs.CorsConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8081"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-RateLimit-Remaining"}),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Rate:    getEnvAsString("RATE_LIMIT_RATE", "600-M"),
		},
		Auth: &structs.AuthConfig{
			GuestTokenSecret: getEnvAsString("AUTH_GUEST_TOKEN_SECRET", "default_guest_secret"),
			GuestTokenExpiry: getEnvAsTimeDuration("AUTH_GUEST_TOKEN_EXPIRY", 12*time.Hour),
		},
		Restaurant: &structs.RestaurantConfig{
			ID: getEnvAsString("RESTAURANT_ID", "main"),
		},
		Sections: &structs.SectionsConfig{
			ConfirmPolicy: structs.SectionConfirmPolicy(getEnvAsString("SECTION_CONFIRM_POLICY", string(structs.SectionKeepOpen))),
			Known:         getEnvAsSlice("SECTIONS", []string{}),
			Strict:        getEnvAsBool("SECTIONS_STRICT", false),
		},
		Menu: &structs.MenuConfig{
			SourceURL:    getEnvAsString("MENU_SOURCE_URL", ""),
			File:         getEnvAsString("MENU_FILE", "menu.json"),
			CacheTTL:     getEnvAsTimeDuration("MENU_CACHE_TTL", 10*time.Minute),
			FetchTimeout: getEnvAsTimeDuration("MENU_FETCH_TIMEOUT", 5*time.Second),
		},
		Cache: &structs.CacheConfig{
			Enabled:         getEnvAsBool("CACHE_ENABLED", false),
			Address:         getEnvAsString("CACHE_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("CACHE_USERNAME", ""),
			Password:        getEnvAsString("CACHE_PASSWORD", ""),
			DB:              getEnvAsInt("CACHE_DB", 0),
			PoolSize:        getEnvAsInt("CACHE_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("CACHE_MIN_IDLE_CONNS", 2),
			DialTimeout:     getEnvAsTimeDuration("CACHE_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("CACHE_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("CACHE_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("CACHE_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("CACHE_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("CACHE_MAX_RETRY_BACKOFF", 512*time.Millisecond),
		},
		Database: &structs.DatabaseConfig{
			Enabled:     getEnvAsBool("DB_ENABLED", false),
			Host:        getEnvAsString("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnvAsString("DB_USER", "postgres"),
			Password:    getEnvAsString("DB_PASSWORD", "password"),
			Name:        getEnvAsString("DB_NAME", "tableside_db"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime: getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime: getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
		},
		Dining: &structs.DiningConfig{
			BaseURL: getEnvAsString("DINING_API_URL", "http://localhost:9090"),
			APIKey:  getEnvAsString("DINING_API_KEY", ""),
			Timeout: getEnvAsTimeDuration("DINING_API_TIMEOUT", 10*time.Second),
		},
		Kitchen: &structs.KitchenConfig{
			AmqpURL:  getEnvAsString("KITCHEN_AMQP_URL", ""),
			Exchange: getEnvAsString("KITCHEN_EXCHANGE", "kitchen_topic"),
		},
		Telegram: &structs.TelegramConfig{
			Token:       getEnvAsString("TELEGRAM_TOKEN", ""),
			StaffChatID: getEnvAsInt64("TELEGRAM_STAFF_CHAT_ID", 0),
		},
		Email: &structs.EmailConfig{
			ApiKey: getEnvAsString("EMAIL_API_KEY", ""),
			From:   getEnvAsString("EMAIL_FROM", "Tableside <reservations@tableside.local>"),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
