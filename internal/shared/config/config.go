package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	TLS          TLSConfig
	Firebase     FirebaseConfig
	Notification NotificationConfig
	Telemetry    TelemetryConfig
	Log          LogConfig
	ExchangeRate ExchangeRateConfig
	Finance      FinanceConfig
	Mail         MailConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
	LoginURL     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// AutoMigrate applies the embedded schema at startup.
	AutoMigrate bool
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type FirebaseConfig struct {
	CredentialsFile string
}

type NotificationConfig struct {
	// MessagesFile overrides the built-in notification texts.
	MessagesFile string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	OTLPInsecure bool
	// SampleRatio is the fraction of root traces kept, 0 to 1.
	SampleRatio float64
	MetricsPort string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type ExchangeRateConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatesCacheTTL time.Duration
	ConvertTTL    time.Duration
}

// MailConfig configures outgoing email. With no SMTPHost, messages are
// logged instead of sent.
type MailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	// ResetURL is the page a reset token is appended to.
	ResetURL      string
	ResetTokenTTL time.Duration
}

type FinanceConfig struct {
	VATRate        decimal.Decimal
	CurrencySymbol string
	SymbolPosition string
}

func Load() (*Config, error) {
	loadDotEnv(getEnv("ENV_FILE", ".env"))

	database, err := LoadDatabase()
	if err != nil {
		return nil, err
	}

	jwtTTL, err := getDurationEnv("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	exchangeRate, err := LoadExchangeRate()
	if err != nil {
		return nil, err
	}

	sampleRatio, err := getFloatEnv("OTEL_SAMPLE_RATIO", 1)
	if err != nil {
		return nil, err
	}
	if sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATIO must be between 0 and 1, got %v", sampleRatio)
	}

	mail, err := loadMail()
	if err != nil {
		return nil, err
	}

	vatRate, err := decimal.NewFromString(getEnv("VAT_RATE", "18"))
	if err != nil {
		return nil, fmt.Errorf("invalid VAT_RATE: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
			LoginURL:     getEnv("LOGIN_URL", "/login"),
		},
		Database: database,
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    jwtTTL,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Notification: NotificationConfig{
			MessagesFile: getEnv("NOTIFICATION_MESSAGES_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finframe-api"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			OTLPInsecure: getBoolEnv("OTEL_EXPORTER_INSECURE", true),
			SampleRatio:  sampleRatio,
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", false),
		},
		ExchangeRate: exchangeRate,
		Finance: FinanceConfig{
			VATRate:        vatRate,
			CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₺"),
			SymbolPosition: getEnv("CURRENCY_POSITION", "suffix"),
		},
		Mail: mail,
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	switch cfg.Finance.SymbolPosition {
	case "prefix", "suffix":
	default:
		return nil, fmt.Errorf("CURRENCY_POSITION must be prefix or suffix, got %q", cfg.Finance.SymbolPosition)
	}

	return cfg, nil
}

// LoadDatabase reads only the database section. Tools that never serve
// HTTP use it so they do not need JWT_SECRET.
func LoadDatabase() (DatabaseConfig, error) {
	loadDotEnv(getEnv("ENV_FILE", ".env"))

	port, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxOpen, err := getIntEnv("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxIdle, err := getIntEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return DatabaseConfig{}, err
	}
	lifetime, err := getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return DatabaseConfig{}, err
	}
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "finframe"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "finframe"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,

		AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", false),
	}, nil
}

func loadMail() (MailConfig, error) {
	port, err := getIntEnv("SMTP_PORT", 587)
	if err != nil {
		return MailConfig{}, err
	}
	ttl, err := getDurationEnv("PASSWORD_RESET_TTL", 24*time.Hour)
	if err != nil {
		return MailConfig{}, err
	}
	cfg := MailConfig{
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      port,
		Username:      getEnv("SMTP_USERNAME", ""),
		Password:      getEnv("SMTP_PASSWORD", ""),
		From:          getEnv("MAIL_FROM", "no-reply@finframe.local"),
		ResetURL:      getEnv("PASSWORD_RESET_URL", "http://localhost:8080/reset-password/"),
		ResetTokenTTL: ttl,
	}
	if cfg.ResetTokenTTL <= 0 {
		return MailConfig{}, fmt.Errorf("PASSWORD_RESET_TTL must be positive, got %s", cfg.ResetTokenTTL)
	}
	return cfg, nil
}

// LoadExchangeRate reads only the exchange-rate section.
func LoadExchangeRate() (ExchangeRateConfig, error) {
	loadDotEnv(getEnv("ENV_FILE", ".env"))

	timeout, err := getDurationEnv("EXCHANGE_RATE_TIMEOUT", 30*time.Second)
	if err != nil {
		return ExchangeRateConfig{}, err
	}
	ratesTTL, err := getDurationEnv("EXCHANGE_RATE_CACHE_TTL", time.Hour)
	if err != nil {
		return ExchangeRateConfig{}, err
	}
	convertTTL, err := getDurationEnv("EXCHANGE_RATE_CONVERT_TTL", 24*time.Hour)
	if err != nil {
		return ExchangeRateConfig{}, err
	}
	return ExchangeRateConfig{
		BaseURL:       getEnv("EXCHANGE_RATE_API_URL", "https://api.exchangerate-api.com/v4"),
		APIKey:        getEnv("EXCHANGE_RATE_API_KEY", ""),
		Timeout:       timeout,
		RatesCacheTTL: ratesTTL,
		ConvertTTL:    convertTTL,
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// loadDotEnv fills unset variables from path. Variables already present in
// the environment win.
func loadDotEnv(path string) {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		log.Debug().Str("file", path).Msg("loaded env file")
	case errors.Is(err, fs.ErrNotExist):
	default:
		log.Warn().Err(err).Str("file", path).Msg("failed to load env file")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
