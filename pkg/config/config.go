package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置，与站内其他服务保持结构一致，便于共享启动逻辑。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	ReadReplica   DatabaseConfig      `mapstructure:"read_replica"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Log           LogConfig           `mapstructure:"log"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// CacheConfig 各缓存的过期时间。
type CacheConfig struct {
	CountsTTL        time.Duration `mapstructure:"counts_ttl"`
	RelationshipsTTL time.Duration `mapstructure:"relationships_ttl"`
}

// WorkerConfig 扇出任务配置，schedule 用 cron 表达式（支持 @every 简写）。
type WorkerConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Schedule  string `mapstructure:"schedule"`
	BatchSize int    `mapstructure:"batch_size"`
}

// NotificationsConfig 通知领域参数。
type NotificationsConfig struct {
	WindowDays int    `mapstructure:"window_days"`
	SSEChannel string `mapstructure:"sse_channel"`
}

// Load 加载配置文件。
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 扇出任务默认开启，可通过配置关闭。
	viper.SetDefault("worker.enabled", true)

	// 设置环境变量前缀
	viper.SetEnvPrefix("CIVITAI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	return &cfg, nil
}

// normalize 补全默认值
func normalize(c *Config) {
	if c.Cache.CountsTTL == 0 {
		c.Cache.CountsTTL = 10 * time.Minute
	}
	if c.Cache.RelationshipsTTL == 0 {
		c.Cache.RelationshipsTTL = 5 * time.Minute
	}
	if c.Worker.Schedule == "" {
		c.Worker.Schedule = "@every 1m"
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 100
	}
	if c.Notifications.WindowDays <= 0 {
		c.Notifications.WindowDays = 30
	}
}

var globalConfig *Config

// SetGlobalConfig 保存全局配置，启动时调用一次。
func SetGlobalConfig(cfg *Config) {
	globalConfig = cfg
}

// GetGlobalConfig 返回全局配置，未初始化时直接 panic。
func GetGlobalConfig() *Config {
	if globalConfig == nil {
		panic("global config not initialized; call config.SetGlobalConfig in app.Run first")
	}
	return globalConfig
}

// GetDSN 构建 MySQL DSN。
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// Empty 判断该数据库段是否未配置，用于读库缺省回落主库。
func (c *DatabaseConfig) Empty() bool {
	return c.Host == ""
}

// GetRedisAddr 获取 Redis 地址。
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
