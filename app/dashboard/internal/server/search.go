package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/engine"
	trLogger "github.com/iWorld-y/topic_radar/app/topic_radar/pkg/logger"
)

// NewSearchEngine 初始化 topic_radar 搜索分析引擎
func NewSearchEngine(c *conf.Search, lc *conf.Log, logger log.Logger) (*engine.Engine, func(), error) {
	cfg := toConfig(c, lc)
	cfg.LoadEnv()

	// 初始化日志
	if err := trLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init topic_radar logger: %v", err)
		_ = trLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}
	log.NewHelper(logger).Infof("topic_radar engine ready, default source=%s", eng.DefaultSource())

	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up topic_radar engine")
	}
	return eng, cleanup, nil
}

// toConfig 将 internal/conf 转换为 pkg/config.Config
func toConfig(c *conf.Search, lc *conf.Log) *config.Config {
	cfg := config.Default()
	if c != nil {
		if c.Source != "" {
			cfg.Search.Source = c.Source
		}
		if c.Dajiala != nil {
			cfg.Search.Dajiala = config.DajialaConfig{
				Endpoint: c.Dajiala.Endpoint,
				APIKey:   c.Dajiala.ApiKey,
				Timeout:  int(c.Dajiala.Timeout),
			}
		}
		if c.Mock != nil {
			cfg.Search.Mock.Dataset = c.Mock.Dataset
		}
		if c.Concurrency != nil {
			cfg.Concurrency = config.ConcurrencyConfig{
				QPS: int(c.Concurrency.Qps),
				RPM: int(c.Concurrency.Rpm),
			}
		}
	}
	if lc != nil {
		if lc.Level != "" {
			cfg.Log.Level = lc.Level
		}
		cfg.Log.File = lc.File
	}
	return cfg
}
