package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/webslinger-cto/fieldserve-api/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Webhooks  WebhookConfig
	Payroll   PayrollConfig
	Dispatch  DispatchConfig
	Quotes    QuoteConfig
	Leads     LeadConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig holds JWT signing configuration. Tokens are issued and verified
// locally with an HMAC secret.
type AuthConfig struct {
	JWTSecret    string
	Issuer       string
	TokenTTL     int // minutes
	BcryptCost   int
	ActAsEnabled bool // allow admins to act as another role via header
}

// WebhookConfig holds per-source inbound lead webhook credentials.
// Sources with an empty key accept unauthenticated posts.
type WebhookConfig struct {
	ELocalAPIKey      string
	NetworxAPIKey     string
	AngiAPIKey        string
	ThumbtackUser     string
	ThumbtackPassword string
	InquirlyAPIKey    string
	ZapierAPIKey      string
}

// PayrollConfig holds payroll computation defaults applied when the business
// profile or technician record doesn't override them.
type PayrollConfig struct {
	TaxRate               float64 // flat estimated tax withheld from gross
	DefaultEmergencyRate  float64 // multiplier on hourly rate
	DefaultLeadFee        float64
	DefaultHourlyRate     float64
	DefaultCommissionRate float64
}

// DispatchConfig holds field-operations tunables
type DispatchConfig struct {
	ArrivalRadiusMeters float64
	DefaultMaxDailyJobs int
}

// QuoteConfig holds quote lifecycle tunables
type QuoteConfig struct {
	ExpiryDays     int
	TokenBytes     int
	DefaultTaxRate float64
	SweepCron      string // schedule for expiring stale sent quotes
}

// LeadConfig holds lead intake tunables
type LeadConfig struct {
	SLAMinutes       int    // response deadline for new leads
	DedupWindowHours int    // lookback for phone/email duplicate matching
	SweepCron        string // schedule for flagging overdue leads
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	BurstSize             int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TokenTTLDuration returns the JWT lifetime as duration
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// SLADuration returns the lead response deadline as duration
func (l *LeadConfig) SLADuration() time.Duration {
	return time.Duration(l.SLAMinutes) * time.Minute
}

// DedupWindow returns the duplicate-matching lookback as duration
func (l *LeadConfig) DedupWindow() time.Duration {
	return time.Duration(l.DedupWindowHours) * time.Hour
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Sensitive values only come from the environment, never the config file
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Webhooks.ELocalAPIKey == "" {
		cfg.Webhooks.ELocalAPIKey = v.GetString("WEBHOOK_ELOCAL_KEY")
	}
	if cfg.Webhooks.NetworxAPIKey == "" {
		cfg.Webhooks.NetworxAPIKey = v.GetString("WEBHOOK_NETWORX_KEY")
	}
	if cfg.Webhooks.AngiAPIKey == "" {
		cfg.Webhooks.AngiAPIKey = v.GetString("WEBHOOK_ANGI_KEY")
	}
	if cfg.Webhooks.ThumbtackUser == "" {
		cfg.Webhooks.ThumbtackUser = v.GetString("WEBHOOK_THUMBTACK_USER")
	}
	if cfg.Webhooks.ThumbtackPassword == "" {
		cfg.Webhooks.ThumbtackPassword = v.GetString("WEBHOOK_THUMBTACK_PASSWORD")
	}
	if cfg.Webhooks.InquirlyAPIKey == "" {
		cfg.Webhooks.InquirlyAPIKey = v.GetString("WEBHOOK_INQUIRLY_KEY")
	}
	if cfg.Webhooks.ZapierAPIKey == "" {
		cfg.Webhooks.ZapierAPIKey = v.GetString("WEBHOOK_ZAPIER_KEY")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source
// In development (or when secrets.source = "environment"), secrets come from env vars
// In staging/production (or when secrets.source = "vault"), secrets come from Azure Key Vault
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if !provider.IsVaultEnabled() {
		return nil, fmt.Errorf("vault provider not enabled despite USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Loading secrets from Azure Key Vault")

	// Database credentials. Port and database name vary per environment and
	// stay in env vars.
	if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	// JWT signing secret
	if secret, err := provider.GetSecretOrEnv(ctx, "jwt-signing-secret", "JWT_SECRET"); err == nil && secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	// Per-source webhook credentials
	if key, err := provider.GetSecretOrEnv(ctx, "webhook-elocal-key", "WEBHOOK_ELOCAL_KEY"); err == nil && key != "" {
		cfg.Webhooks.ELocalAPIKey = key
	}
	if key, err := provider.GetSecretOrEnv(ctx, "webhook-networx-key", "WEBHOOK_NETWORX_KEY"); err == nil && key != "" {
		cfg.Webhooks.NetworxAPIKey = key
	}
	if key, err := provider.GetSecretOrEnv(ctx, "webhook-angi-key", "WEBHOOK_ANGI_KEY"); err == nil && key != "" {
		cfg.Webhooks.AngiAPIKey = key
	}
	if user, err := provider.GetSecretOrEnv(ctx, "webhook-thumbtack-user", "WEBHOOK_THUMBTACK_USER"); err == nil && user != "" {
		cfg.Webhooks.ThumbtackUser = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "webhook-thumbtack-password", "WEBHOOK_THUMBTACK_PASSWORD"); err == nil && password != "" {
		cfg.Webhooks.ThumbtackPassword = password
	}
	if key, err := provider.GetSecretOrEnv(ctx, "webhook-inquirly-key", "WEBHOOK_INQUIRLY_KEY"); err == nil && key != "" {
		cfg.Webhooks.InquirlyAPIKey = key
	}
	if key, err := provider.GetSecretOrEnv(ctx, "webhook-zapier-key", "WEBHOOK_ZAPIER_KEY"); err == nil && key != "" {
		cfg.Webhooks.ZapierAPIKey = key
	}

	// Storage connection string (for cloud storage)
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "FieldServe API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fieldserve")
	v.SetDefault("database.user", "fieldserve_user")
	v.SetDefault("database.password", "fieldserve_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// Auth defaults
	v.SetDefault("auth.issuer", "fieldserve-api")
	v.SetDefault("auth.tokenTTL", 480) // 8 hours, a field shift
	v.SetDefault("auth.bcryptCost", 12)
	v.SetDefault("auth.actAsEnabled", true)

	// Payroll defaults
	v.SetDefault("payroll.taxRate", 0.155)
	v.SetDefault("payroll.defaultEmergencyRate", 1.5)
	v.SetDefault("payroll.defaultLeadFee", 0)
	v.SetDefault("payroll.defaultHourlyRate", 0)
	v.SetDefault("payroll.defaultCommissionRate", 0)

	// Dispatch defaults
	v.SetDefault("dispatch.arrivalRadiusMeters", 150)
	v.SetDefault("dispatch.defaultMaxDailyJobs", 8)

	// Quote defaults
	v.SetDefault("quotes.expiryDays", 30)
	v.SetDefault("quotes.tokenBytes", 32)
	v.SetDefault("quotes.defaultTaxRate", 0)
	v.SetDefault("quotes.sweepCron", "0 0 * * * *") // hourly

	// Lead defaults
	v.SetDefault("leads.slaMinutes", 30)
	v.SetDefault("leads.dedupWindowHours", 72)
	v.SetDefault("leads.sweepCron", "0 * * * * *") // every minute

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300) // 5 minutes

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.maxUploadSizeMB", 50)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Act-As-Role", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300) // 5 minutes

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false) // enable in production with HTTPS
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120)
	v.SetDefault("rateLimit.burstSize", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})
}
