package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	JWT  JWTConfig `mapstructure:"jwt"`
	Auth struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	Cache struct {
		UsersTTLSeconds int `mapstructure:"users_ttl_seconds"`
	} `mapstructure:"cache"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// JWTConfig carries everything the token codec and the auth gates need.
type JWTConfig struct {
	SecretKey             string `mapstructure:"secret_key"`
	Algorithm             string `mapstructure:"algorithm"`
	Issuer                string `mapstructure:"issuer"`
	AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes"`
	RefreshTokenTTLHours  int    `mapstructure:"refresh_token_ttl_hours"`
	AccessHeader          string `mapstructure:"access_header"`
	RefreshHeader         string `mapstructure:"refresh_header"`
	EnforceNotBefore      bool   `mapstructure:"enforce_not_before"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "accounts")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.issuer", "go-account-api")
	v.SetDefault("jwt.access_token_ttl_minutes", 15)
	v.SetDefault("jwt.refresh_token_ttl_hours", 72)
	v.SetDefault("jwt.access_header", "Authorization")
	v.SetDefault("jwt.refresh_header", "Refresh-Token")
	v.SetDefault("jwt.enforce_not_before", false)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("cache.users_ttl_seconds", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads config.yml from path (optional), a .env file next to it
// (optional) and the process environment. JWT_SECRET_KEY overrides
// jwt.secret_key and so on.
func Load(path string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error reading config, %s", err)
	}
	if cfg.JWT.SecretKey == "" {
		log.Fatalf("jwt.secret_key (JWT_SECRET_KEY) must be set")
	}
	AppConfig = cfg
}
