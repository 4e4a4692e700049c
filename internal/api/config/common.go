package config

import "time"

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Web      WebConfig      `mapstructure:"web"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug | release | test
}

// IsRelease 是否为生产模式
func (s ServerConfig) IsRelease() bool {
	return s.Mode == ModeRelease
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql | postgres
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr          string        `mapstructure:"addr"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	PoolSize      int           `mapstructure:"pool_size"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// JWTConfig 会话令牌配置
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type CookieConfig struct {
	Name string `mapstructure:"name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WebConfig 前端静态资源目录
type WebConfig struct {
	Root string `mapstructure:"root"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers []string   `mapstructure:"brokers"`
	Topic   string     `mapstructure:"topic"`
	Sasl    SaslConfig `mapstructure:"sasl"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// JobsConfig 定时任务表达式
type JobsConfig struct {
	PostCounters string `mapstructure:"post_counters"`
}
