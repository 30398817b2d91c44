package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	App        AppConfig        `mapstructure:"app"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// URL postgres 连接串 (golang-migrate 格式)
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// Redis 地址为空时不启用 Redis，锁和缓存退化为进程内实现
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

// OracleConfig 内容分类服务
type OracleConfig struct {
	Provider          string        `mapstructure:"provider"` // gemini, openai, static
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"` // openai 兼容接口地址
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryWait         time.Duration `mapstructure:"retry_wait"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// ModerationConfig 信任分与审核相关的可调参数
type ModerationConfig struct {
	InitialTrust int `mapstructure:"initial_trust"`
	// CommunityDivisor 历史举报者信任分归一化的除数，待产品确认
	CommunityDivisor float64       `mapstructure:"community_divisor"`
	RankingCacheTTL  time.Duration `mapstructure:"ranking_cache_ttl"`
	ReportLockTTL    time.Duration `mapstructure:"report_lock_ttl"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

var GlobalConfig Config

var envReplacer = strings.NewReplacer(".", "_")

var oracleProviders = map[string]bool{"gemini": true, "openai": true, "static": true}

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	// 数据库配置验证
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	// 分类服务配置验证
	if !oracleProviders[c.Oracle.Provider] {
		return fmt.Errorf("unknown oracle provider %q", c.Oracle.Provider)
	}
	if c.Oracle.Provider != "static" && c.Oracle.APIKey == "" {
		return errors.New("oracle api key is required")
	}
	if c.Oracle.Timeout <= 0 {
		return errors.New("oracle timeout must be positive")
	}
	if c.Oracle.MaxRetries < 0 {
		return errors.New("oracle max_retries must not be negative")
	}

	if c.Moderation.InitialTrust < 0 || c.Moderation.InitialTrust > 100 {
		return errors.New("moderation.initial_trust must be within [0,100]")
	}
	if c.Moderation.CommunityDivisor <= 0 {
		return errors.New("moderation.community_divisor must be positive")
	}

	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)

	v.SetDefault("oracle.provider", "gemini")
	v.SetDefault("oracle.model", "gemini-2.5-flash")
	v.SetDefault("oracle.base_url", "https://api.openai.com/v1")
	v.SetDefault("oracle.timeout", 20*time.Second)
	v.SetDefault("oracle.max_retries", 2)
	v.SetDefault("oracle.retry_wait", 500*time.Millisecond)
	v.SetDefault("oracle.requests_per_second", 5)

	v.SetDefault("moderation.initial_trust", 50)
	v.SetDefault("moderation.community_divisor", 3)
	v.SetDefault("moderation.ranking_cache_ttl", 30*time.Second)
	v.SetDefault("moderation.report_lock_ttl", time.Minute)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
}

// Load 从指定环境加载配置，不会终止进程
func Load(env string) (Config, error) {
	var cfg Config

	// 根据环境选择配置文件
	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量，如 ORACLE_API_KEY -> oracle.api_key
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.Oracle.APIKey == "" && cfg.Oracle.Provider == "gemini" {
		cfg.Oracle.APIKey = key
	}

	return cfg, nil
}

// LoadConfig 加载配置到 GlobalConfig，失败直接退出
func LoadConfig() {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := Load(env)
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	GlobalConfig = cfg

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
