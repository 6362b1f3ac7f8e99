package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/revenue-management/internal/access"
	"golang.org/x/text/language"
)

const DefaultExportLimit = 1000

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Access        AccessConfig        `mapstructure:"access"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret" validate:"required,min=32"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// AccessConfig tunes the revenue access policy. Empty values keep the built-in defaults.
type AccessConfig struct {
	// GroupRoles maps group names to role names. Viper lowercases map keys, so group names are matched
	// in lower case when they come from config.yml.
	GroupRoles      map[string]string            `mapstructure:"group_roles"`
	FallbackRole    string                       `mapstructure:"fallback_role"`
	Locale          string                       `mapstructure:"locale"`
	MatrixOverrides map[string]map[string]string `mapstructure:"matrix_overrides"`
	ExportLimit     int                          `mapstructure:"export_limit"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ----------------- ENVIRONMENT -----------------

// LoadConfigFromEnv builds the configuration for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("HTTP_ALLOWED_ORIGINS", "*"),
			OpenAPIPath:       getEnv("HTTP_OPENAPI_PATH", ""),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
			JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 12),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
		Access: AccessConfig{
			GroupRoles:      parsePairs(getEnv("ACCESS_GROUP_ROLES", "")),
			FallbackRole:    getEnv("ACCESS_FALLBACK_ROLE", ""),
			Locale:          getEnv("ACCESS_LOCALE", "ko"),
			MatrixOverrides: parseMatrixOverrides(getEnv("ACCESS_MATRIX_OVERRIDES", "")),
			ExportLimit:     getEnvAsInt("ACCESS_EXPORT_LIMIT", DefaultExportLimit),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 1),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// parsePairs reads "a=b,c=d".
func parsePairs(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// parseMatrixOverrides reads "role.module=level,...".
func parseMatrixOverrides(raw string) map[string]map[string]string {
	pairs := parsePairs(raw)
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]map[string]string)
	for cell, level := range pairs {
		role, module, ok := strings.Cut(cell, ".")
		if !ok {
			continue
		}
		if out[role] == nil {
			out[role] = make(map[string]string)
		}
		out[role][module] = level
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Access.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("access config: %v", err))
	}

	if err := c.RateLimit.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("rate limit config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTAccessSecret) < 32 {
		return errors.New("jwt_access_secret must be at least 32 characters")
	}
	if len(c.JWTRefreshSecret) < 32 {
		return errors.New("jwt_refresh_secret must be at least 32 characters")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	return nil
}

func (c *AccessConfig) Validate() error {
	if c.ExportLimit < 0 {
		return errors.New("export_limit cannot be negative")
	}
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	_, err := c.BuildEngine()
	return err
}

// LocaleTag parses the configured masking locale. Empty means the default locale.
func (c *AccessConfig) LocaleTag() (language.Tag, error) {
	if c.Locale == "" {
		return access.DefaultLocale, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// EffectiveExportLimit returns the export cap, defaulting when unset.
func (c *AccessConfig) EffectiveExportLimit() int {
	if c.ExportLimit <= 0 {
		return DefaultExportLimit
	}
	return c.ExportLimit
}

// BuildEngine assembles the access policy engine from configuration.
func (c *AccessConfig) BuildEngine() (*access.Engine, error) {
	resolver, err := access.ResolverFromConfig(c.GroupRoles, c.FallbackRole)
	if err != nil {
		return nil, err
	}
	matrix, err := access.DefaultMatrix().WithOverrides(c.MatrixOverrides)
	if err != nil {
		return nil, err
	}
	tag, err := c.LocaleTag()
	if err != nil {
		return nil, err
	}
	base, _ := tag.Base()
	return access.NewEngine(resolver, matrix, language.Make(base.String())), nil
}

func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("requests_per_second must be positive")
	}
	if c.Burst < 1 {
		return errors.New("burst must be at least 1")
	}
	return nil
}
