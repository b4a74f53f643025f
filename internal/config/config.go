// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName   string `toml:"appName"`   // 应用名称，用于日志标识等
	Host      string `toml:"host"`      // 服务器监听地址，如 "0.0.0.0"
	Port      int    `toml:"port"`      // 服务器监听端口，如 8000
	EnableTls bool   `toml:"enableTls"` // 是否启用 TLS 重定向
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// EmailConfig 邀请邮件配置
type EmailConfig struct {
	Provider    string `toml:"provider"`    // 邮件提供方："local"（仅打日志）或 "smtp"
	SmtpHost    string `toml:"smtpHost"`    // SMTP 服务器地址
	SmtpPort    int    `toml:"smtpPort"`    // SMTP 端口，如 587
	SmtpUser    string `toml:"smtpUser"`    // SMTP 用户名
	SmtpPass    string `toml:"smtpPass"`    // SMTP 密码
	FromAddress string `toml:"fromAddress"` // 发件人地址
	FrontendUrl string `toml:"frontendUrl"` // 前端地址，用于拼接邀请链接
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 消息队列配置
type KafkaConfig struct {
	MessageMode     string        `toml:"messageMode"`     // 消息模式："channel" 或 "kafka"
	HostPort        string        `toml:"hostPort"`        // Kafka 服务器地址，如 "localhost:9092"
	InvitationTopic string        `toml:"invitationTopic"` // 邀请邮件投递主题
	Partition       int           `toml:"partition"`       // 分区数
	Timeout         time.Duration `toml:"timeout"`         // 超时时间
}

// JWTConfig JWT 认证配置
// 令牌由外部身份服务签发，本服务只负责校验，因此仅需密钥
type JWTConfig struct {
	Secret string `toml:"secret"` // JWT 签名密钥，建议 32 字符以上
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig  `toml:"mainConfig"`  // 主配置
	MysqlConfig `toml:"mysqlConfig"` // MySQL 配置
	RedisConfig `toml:"redisConfig"` // Redis 配置
	EmailConfig `toml:"emailConfig"` // 邮件配置
	LogConfig   `toml:"logConfig"`   // 日志配置
	KafkaConfig `toml:"kafkaConfig"` // Kafka 配置
	JWTConfig   `toml:"jwtConfig"`   // JWT 配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
// 环境变量 DINGCAN_CONFIG_PATH 可覆盖默认搜索路径
// 返回值：加载成功返回 nil，否则返回错误
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml", // 本地开发配置（优先）
		"configs/config.toml",       // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}
	if p := os.Getenv("DINGCAN_CONFIG_PATH"); p != "" {
		paths = append([]string{p}, paths...)
	}

	// 依次尝试加载配置文件
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil // 加载成功
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
	}
	return config
}
