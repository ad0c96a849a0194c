package config

import (
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// 演示环境的固定钱包，请求未携带钱包地址时使用
	DefaultWallet string `mapstructure:"default_wallet"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 结算链配置
type ChainConfig struct {
	Type           string `mapstructure:"type"`             // 网关类型 (mock, ethereum)
	RpcUrl         string `mapstructure:"rpc_url"`          // RPC节点URL
	PrivateKey     string `mapstructure:"private_key"`      // 私钥
	PlatformAddr   string `mapstructure:"platform_addr"`    // RWA投资平台合约地址
	StartBlock     uint64 `mapstructure:"start_block"`      // 事件监听起始区块
	Confirmations  int    `mapstructure:"confirmations"`    // 交易确认区块数
	CallTimeoutSec int    `mapstructure:"call_timeout"`     // 网关调用超时（秒）
	MonitorSec     int    `mapstructure:"monitor_interval"` // 事件轮询间隔（秒）
}

type TaskConfig struct {
	MaturityInterval  int `mapstructure:"maturity_interval"`  // 到期晋升任务间隔（秒）
	MetricsInterval   int `mapstructure:"metrics_interval"`   // 指标快照刷新间隔（秒）
	ReconcileInterval int `mapstructure:"reconcile_interval"` // 对账提醒任务间隔（秒）
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/rwa-invest")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.default_wallet", "0x1234567890123456789012345678901234567890")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "rwa_invest")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.type", "mock")
	viper.SetDefault("chain.start_block", 0)
	viper.SetDefault("chain.confirmations", 12)
	viper.SetDefault("chain.call_timeout", 15)
	viper.SetDefault("chain.monitor_interval", 60)
	viper.SetDefault("task.maturity_interval", 60)
	viper.SetDefault("task.metrics_interval", 300)
	viper.SetDefault("task.reconcile_interval", 600)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
