package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret is only acceptable outside production.
const DevJWTSecret = "linksea-dev-secret-change-me"

type Config struct {
	AppEnv           string        `mapstructure:"APP_ENV"`
	Port             string        `mapstructure:"PORT"`
	APIBasePath      string        `mapstructure:"API_BASE_PATH"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBConnectRetries uint64        `mapstructure:"DB_CONNECT_RETRIES"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	TokenTTL         time.Duration `mapstructure:"TOKEN_TTL"`
	OTPTTL           time.Duration `mapstructure:"OTP_TTL"`
	SMTPHost         string        `mapstructure:"SMTP_HOST"`
	SMTPPort         int           `mapstructure:"SMTP_PORT"`
	EmailUser        string        `mapstructure:"EMAIL_USER"`
	EmailPassword    string        `mapstructure:"EMAIL_PASSWORD"`
	EmailFrom        string        `mapstructure:"EMAIL_FROM"`
	AllowedOrigins   []string      `mapstructure:"ALLOWED_ORIGINS"`
	TrustedProxies   []string      `mapstructure:"TRUSTED_PROXIES"`
	PublicBaseURL    string        `mapstructure:"PUBLIC_BASE_URL"`
	GeoIPDBPath      string        `mapstructure:"GEOIP_DB_PATH"`
	GeoIPReload      time.Duration `mapstructure:"GEOIP_RELOAD_INTERVAL"`
	StatsOwnerOnly   bool          `mapstructure:"STATS_OWNER_ONLY"`
	AuditBuffer      int           `mapstructure:"AUDIT_BUFFER"`
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func LoadConfig() (config Config, err error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("API_BASE_PATH", "/api")
	viper.SetDefault("DATABASE_URL", "sqlite://linksea.db")
	viper.SetDefault("DB_CONNECT_RETRIES", 5)
	viper.SetDefault("JWT_SECRET", DevJWTSecret)
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("OTP_TTL", "10m")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_USER", "")
	viper.SetDefault("EMAIL_PASSWORD", "")
	viper.SetDefault("EMAIL_FROM", "")
	viper.SetDefault("ALLOWED_ORIGINS", "https://linksea.vercel.app,http://localhost:3000,https://link-sea.onrender.com")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("PUBLIC_BASE_URL", "https://linksea.vercel.app")
	viper.SetDefault("GEOIP_DB_PATH", "./geoip/GeoLite2-Country.mmdb")
	viper.SetDefault("GEOIP_RELOAD_INTERVAL", "24h")
	viper.SetDefault("STATS_OWNER_ONLY", true)
	viper.SetDefault("AUDIT_BUFFER", 100)

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	if config.EmailFrom == "" {
		config.EmailFrom = config.EmailUser
	}
	if config.IsProduction() && (config.JWTSecret == "" || config.JWTSecret == DevJWTSecret) {
		return config, errors.New("JWT_SECRET must be set in production")
	}

	return
}
