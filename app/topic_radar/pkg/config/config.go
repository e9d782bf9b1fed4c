package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 环境变量
const (
	EnvAPIKey  = "DAJIALA_API_KEY"
	EnvUseMock = "USE_KW_SEARCH_MOCK"
)

// Config 项目配置结构体
type Config struct {
	Search      SearchConfig      `yaml:"search"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	History     HistoryConfig     `yaml:"history"`
	Export      ExportConfig      `yaml:"export"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Source  string        `yaml:"source"` // mock 或 remote
	Dajiala DajialaConfig `yaml:"dajiala"`
	Mock    MockConfig    `yaml:"mock"`
}

// DajialaConfig kw_search 接口配置
type DajialaConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Timeout  int    `yaml:"timeout"` // 秒，0 表示不设置
}

// MockConfig 模拟数据配置
type MockConfig struct {
	Dataset string `yaml:"dataset"` // 为空时使用内置样本
}

// DBConfig 历史记录存储配置
type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite 或 postgres
	Source string `yaml:"source"`
}

// HistoryConfig 选题历史配置
type HistoryConfig struct {
	Limit  int `yaml:"limit"`  // 列表条数上限
	Retain int `yaml:"retain"` // 保留最近 N 条，0 表示不清理
}

// ExportConfig 报告导出配置
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 出站请求限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Search:  SearchConfig{Source: "mock"},
		Log:     LogConfig{Level: "info"},
		DB:      DBConfig{Driver: "sqlite", Source: "data/content-factory.db"},
		History: HistoryConfig{Limit: 30},
		Export:  ExportConfig{Dir: "reports", Format: "json"},
	}
}

// LoadConfig 从指定路径加载配置，未填写的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv 加载 .env 文件（不存在时忽略）并用环境变量覆盖配置
func (c *Config) LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
	c.ApplyEnv(os.Getenv)
}

// ApplyEnv 使用环境变量覆盖 API Key 与数据来源
func (c *Config) ApplyEnv(getenv func(string) string) {
	if key := strings.TrimSpace(getenv(EnvAPIKey)); key != "" {
		c.Search.Dajiala.APIKey = key
	}
	switch strings.TrimSpace(getenv(EnvUseMock)) {
	case "false":
		c.Search.Source = "remote"
	case "true":
		c.Search.Source = "mock"
	}
}
