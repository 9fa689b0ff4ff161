package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	RateLimit  *RateLimitConfig
	Auth       *AuthConfig
	Restaurant *RestaurantConfig
	Sections   *SectionsConfig
	Menu       *MenuConfig
	Cache      *CacheConfig
	Database   *DatabaseConfig
	Dining     *DiningConfig
	Kitchen    *KitchenConfig
	Telegram   *TelegramConfig
	Email      *EmailConfig
}

type ServerConfig struct {
	AppName        string        // Tableside
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type RateLimitConfig struct {
	Enabled bool
	Rate    string // ulule format, e.g. "300-M"
}

type AuthConfig struct {
	GuestTokenSecret string
	GuestTokenExpiry time.Duration
}

// RestaurantConfig is the restaurant snapshot shared by every table section.
type RestaurantConfig struct {
	ID string
}

type SectionsConfig struct {
	ConfirmPolicy SectionConfirmPolicy
	Known         []string // sections listed even before first access
	Strict        bool     // only Known sections are accepted
}

type MenuConfig struct {
	SourceURL    string // remote catalog; empty means MenuFile
	File         string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

type CacheConfig struct {
	Enabled         bool
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

type DatabaseConfig struct {
	Enabled     bool
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// DiningConfig points at the external table-ordering API.
type DiningConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type KitchenConfig struct {
	AmqpURL  string // empty disables kitchen tickets
	Exchange string
}

type TelegramConfig struct {
	Token       string // empty disables waitstaff alerts
	StaffChatID int64
}

type EmailConfig struct {
	ApiKey string // empty disables reservation emails
	From   string
}
