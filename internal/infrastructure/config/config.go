// Package config loads runtime settings from the environment.
//
// Rotating JWT_SECRET invalidates every token issued under the previous
// secret; sessions must log in again.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Auth      AuthConfig
	Routes    RoutesConfig
	Bootstrap BootstrapConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Audit     AuditConfig
}

type AuthConfig struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,           default=8h"`
	TokenIssuer       string        `env:"TOKEN_ISSUER,        default=hrms-api"`
	BcryptCost        int           `env:"BCRYPT_COST,         default=12"`
	AllowRoleRegister bool          `env:"REGISTER_ALLOW_ROLE, default=true"`
	LoginMaxAttempts  int           `env:"LOGIN_MAX_ATTEMPTS,  default=5"`
	LoginWindow       time.Duration `env:"LOGIN_WINDOW,        default=15m"`
}

type RoutesConfig struct {
	TableFile     string `env:"ROUTE_TABLE_FILE"`
	DefaultPolicy string `env:"ROUTE_DEFAULT_POLICY, default=allow"`
}

// BootstrapConfig names an administrator created at startup when absent.
type BootstrapConfig struct {
	Email    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	Password string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	Name     string `env:"BOOTSTRAP_ADMIN_NAME, default=Administrator"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hrms"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

// RedisConfig enables login throttling when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load merges an optional .env file into the environment and reads the
// configuration from it.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Sprintf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		problems = append(problems, "ENV must be development or production")
	}
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			problems = append(problems, "POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		problems = append(problems, "STORE_DRIVER must be mongo, postgres or memory")
	}
	switch strings.ToLower(c.Routes.DefaultPolicy) {
	case "allow", "deny":
	default:
		problems = append(problems, "ROUTE_DEFAULT_POLICY must be allow or deny")
	}
	if (c.Bootstrap.Email == "") != (c.Bootstrap.Password == "") {
		problems = append(problems, "BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }
