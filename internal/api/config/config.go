package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"

	minSecretLength = 32
)

var ErrMissingJWTSecret = errors.New("jwt secret is not configured, set JWT_SECRET")

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 .env、环境变量与配置文件加载配置并填充到 Cfg
func LoadConfig() error {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		log.Warn("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", ModeDebug)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 60)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("jwt.expiration_hours", 24*7)
	v.SetDefault("cookie.name", "token")
	v.SetDefault("web.root", "./web")
	v.SetDefault("logger.level", "info")
	v.SetDefault("kafka.topic", "inkwell-events")
	v.SetDefault("jobs.post_counters", "@every 1m")

	// AutomaticEnv 只对已知 key 生效，密钥没有默认值，需要显式绑定
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")
}

// Validate 检查致命配置错误
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ModeDebug, ModeRelease, ModeTest:
	default:
		return fmt.Errorf("unknown server.mode %q", c.Server.Mode)
	}

	switch c.DB.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.DB.Driver)
	}

	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if len(c.JWT.Secret) < minSecretLength {
		if c.Server.IsRelease() {
			return fmt.Errorf("jwt secret must be at least %d bytes in release mode", minSecretLength)
		}
		log.Warn("jwt secret is shorter than recommended", "min_length", minSecretLength)
	}

	if c.JWT.ExpirationHours <= 0 {
		return errors.New("jwt.expiration_hours must be positive")
	}
	if c.Cookie.Name == "" {
		return errors.New("cookie.name must not be empty")
	}
	return nil
}
