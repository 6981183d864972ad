package config

import (
	"log"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

const envConfigPath = "GROUPLINK_CONFIG"

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	// TLS 为 true 时启用 HTTPS 跳转中间件
	TLS      bool   `toml:"tls"`
	CertFile string `toml:"certFile"`
	KeyFile  string `toml:"keyFile"`
	NodeID   int64  `toml:"nodeID"`
}

type DatabaseConfig struct {
	// Driver mysql | postgres
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	AutoMigrate  bool   `toml:"autoMigrate"`
	MaxOpenConns int    `toml:"maxOpenConns"`
	MaxIdleConns int    `toml:"maxIdleConns"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	LogPath    string `toml:"logPath"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
	Console    bool   `toml:"console"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type KafkaConfig struct {
	Brokers     []string `toml:"brokers"`
	ClientID    string   `toml:"clientID"`
	Partitions  int32    `toml:"partitions"`
	Replication int16    `toml:"replication"`
}

type NatsConfig struct {
	URL  string `toml:"url"`
	Name string `toml:"name"`
}

// NotifyConfig 群事件推送配置，事件先写出箱表再由投递协程发送
type NotifyConfig struct {
	// Transport kafka | redis | nats | none
	Transport string `toml:"transport"`
	Topic     string `toml:"topic"`
	// BatchSize 每次从出箱表领取的事件数
	BatchSize      int `toml:"batchSize"`
	PollIntervalMs int `toml:"pollIntervalMs"`
	// LeaseSeconds 领取后未确认的事件多久后重新投递
	LeaseSeconds int `toml:"leaseSeconds"`
	// RetryBackoffMs 首次重试间隔，之后翻倍，最长 MaxBackoffSeconds
	RetryBackoffMs    int `toml:"retryBackoffMs"`
	MaxBackoffSeconds int `toml:"maxBackoffSeconds"`
	// PushOnline 是否同时通过 websocket 推送给在线成员
	PushOnline bool `toml:"pushOnline"`
}

type Config struct {
	MainConfig     `toml:"mainConfig"`
	DatabaseConfig `toml:"databaseConfig"`
	LogConfig      `toml:"logConfig"`
	JwtConfig      `toml:"jwtConfig"`
	RedisConfig    `toml:"redisConfig"`
	KafkaConfig    `toml:"kafkaConfig"`
	NatsConfig     `toml:"natsConfig"`
	NotifyConfig   `toml:"notifyConfig"`
}

var (
	config *Config
	once   sync.Once
)

// LoadConfig 从指定路径读取配置并补齐默认值
func LoadConfig(path string) (*Config, error) {
	c := new(Config)
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

// Default 不依赖配置文件的默认配置
func Default() *Config {
	c := new(Config)
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "GroupLink"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.DatabaseConfig.Driver == "" {
		c.DatabaseConfig.Driver = "mysql"
	}
	if c.DatabaseConfig.DatabaseName == "" {
		c.DatabaseConfig.DatabaseName = c.AppName
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.JwtConfig.ExpireHours <= 0 {
		c.JwtConfig.ExpireHours = 24
	}
	if c.JwtConfig.Issuer == "" {
		c.JwtConfig.Issuer = c.AppName
	}
	if c.NotifyConfig.Transport == "" {
		c.NotifyConfig.Transport = "none"
	}
	if c.NotifyConfig.Topic == "" {
		c.NotifyConfig.Topic = "group.events"
	}
	if c.NotifyConfig.BatchSize <= 0 {
		c.NotifyConfig.BatchSize = 200
	}
	if c.NotifyConfig.PollIntervalMs <= 0 {
		c.NotifyConfig.PollIntervalMs = 500
	}
	if c.NotifyConfig.LeaseSeconds <= 0 {
		c.NotifyConfig.LeaseSeconds = 30
	}
	if c.NotifyConfig.RetryBackoffMs <= 0 {
		c.NotifyConfig.RetryBackoffMs = 500
	}
	if c.NotifyConfig.MaxBackoffSeconds <= 0 {
		c.NotifyConfig.MaxBackoffSeconds = 300
	}
}

// GetConfig 全局配置，首次调用时加载；文件缺失时使用默认值
func GetConfig() *Config {
	once.Do(func() {
		path := os.Getenv(envConfigPath)
		if path == "" {
			path = "configs/config_local.toml"
		}
		c, err := LoadConfig(path)
		if err != nil {
			log.Printf("加载配置文件失败: %v, 尝试使用默认设置", err)
			c = Default()
		}
		config = c
	})
	return config
}
