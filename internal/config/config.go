package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Storage    StorageConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	POS        POSConfig
	Loyalty    LoyaltyConfig
	Identifier IdentifierConfig
	Till       TillConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

// StorageConfig selects the persistence backend: "postgres" or "memory".
type StorageConfig struct {
	Driver string
	Seed   bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type POSConfig struct {
	StoreName    string
	Currency     string
	TaxRate      decimal.Decimal // percent, e.g. 16 for 16%
	ReprintLimit int
}

type LoyaltyConfig struct {
	Enabled bool
	// RedeemValue is the currency value of a single point, in cents.
	RedeemValue decimal.Decimal
	// EarnRate is points earned per cent paid, before the tier multiplier.
	EarnRate        decimal.Decimal
	TierMultipliers map[string]decimal.Decimal
}

type IdentifierConfig struct {
	TransactionFormat string
	TransactionPrefix string
	RandomLength      int
	ReceiptFormat     string
	ReceiptPrefix     string
	Separator         string
	ReceiptPadding    int
}

type TillConfig struct {
	ConfirmationPhrase string
	ReauthTTL          time.Duration
	// Tolerance is the absolute reconciliation tolerance in cents.
	Tolerance int64
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "tillpoint-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "tillpoint")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("STORAGE_DRIVER", "postgres")
	viper.SetDefault("STORAGE_SEED", true)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("POS_STORE_NAME", "Tillpoint Store")
	viper.SetDefault("POS_CURRENCY", "KES")
	viper.SetDefault("POS_TAX_RATE", "16")
	viper.SetDefault("POS_REPRINT_LIMIT", 3)
	viper.SetDefault("LOYALTY_ENABLED", true)
	viper.SetDefault("LOYALTY_REDEEM_VALUE", "100")
	viper.SetDefault("LOYALTY_EARN_RATE", "0.0001")
	viper.SetDefault("LOYALTY_TIER_BRONZE", "1")
	viper.SetDefault("LOYALTY_TIER_SILVER", "1.25")
	viper.SetDefault("LOYALTY_TIER_GOLD", "1.5")
	viper.SetDefault("LOYALTY_TIER_PLATINUM", "2")
	viper.SetDefault("ID_TRANSACTION_FORMAT", "prefix_date_random")
	viper.SetDefault("ID_TRANSACTION_PREFIX", "TXN")
	viper.SetDefault("ID_RANDOM_LENGTH", 8)
	viper.SetDefault("ID_RECEIPT_FORMAT", "prefix_date_number")
	viper.SetDefault("ID_RECEIPT_PREFIX", "RCP")
	viper.SetDefault("ID_SEPARATOR", "-")
	viper.SetDefault("ID_RECEIPT_PADDING", 6)
	viper.SetDefault("TILL_CONFIRMATION_PHRASE", "CLOSE TILL")
	viper.SetDefault("TILL_REAUTH_TTL_SECONDS", 300)
	viper.SetDefault("TILL_TOLERANCE_CENTS", 1)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Driver: viper.GetString("STORAGE_DRIVER"),
			Seed:   viper.GetBool("STORAGE_SEED"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		POS: POSConfig{
			StoreName:    viper.GetString("POS_STORE_NAME"),
			Currency:     viper.GetString("POS_CURRENCY"),
			TaxRate:      getDecimal("POS_TAX_RATE"),
			ReprintLimit: viper.GetInt("POS_REPRINT_LIMIT"),
		},
		Loyalty: LoyaltyConfig{
			Enabled:     viper.GetBool("LOYALTY_ENABLED"),
			RedeemValue: getDecimal("LOYALTY_REDEEM_VALUE"),
			EarnRate:    getDecimal("LOYALTY_EARN_RATE"),
			TierMultipliers: map[string]decimal.Decimal{
				"bronze":   getDecimal("LOYALTY_TIER_BRONZE"),
				"silver":   getDecimal("LOYALTY_TIER_SILVER"),
				"gold":     getDecimal("LOYALTY_TIER_GOLD"),
				"platinum": getDecimal("LOYALTY_TIER_PLATINUM"),
			},
		},
		Identifier: IdentifierConfig{
			TransactionFormat: viper.GetString("ID_TRANSACTION_FORMAT"),
			TransactionPrefix: viper.GetString("ID_TRANSACTION_PREFIX"),
			RandomLength:      viper.GetInt("ID_RANDOM_LENGTH"),
			ReceiptFormat:     viper.GetString("ID_RECEIPT_FORMAT"),
			ReceiptPrefix:     viper.GetString("ID_RECEIPT_PREFIX"),
			Separator:         viper.GetString("ID_SEPARATOR"),
			ReceiptPadding:    viper.GetInt("ID_RECEIPT_PADDING"),
		},
		Till: TillConfig{
			ConfirmationPhrase: viper.GetString("TILL_CONFIRMATION_PHRASE"),
			ReauthTTL:          time.Duration(viper.GetInt("TILL_REAUTH_TTL_SECONDS")) * time.Second,
			Tolerance:          viper.GetInt64("TILL_TOLERANCE_CENTS"),
		},
	}
}

func getDecimal(key string) decimal.Decimal {
	d, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		log.Printf("Warning: invalid decimal for %s, using 0: %v", key, err)
		return decimal.Zero
	}
	return d
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
