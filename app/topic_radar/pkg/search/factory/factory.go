package factory

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/dajiala"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/mock"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
)

// NewSearcher 根据配置创建指定数据来源的搜索实例
func NewSearcher(cfg *config.Config, source model.DataSource) (search.Searcher, error) {
	switch source {
	case model.DataSourceMock:
		if cfg.Search.Mock.Dataset != "" {
			return mock.NewClientFromFile(cfg.Search.Mock.Dataset)
		}
		return mock.NewClient()

	case model.DataSourceRemote:
		apiKey := cfg.Search.Dajiala.APIKey
		if apiKey == "" {
			return nil, fmt.Errorf("dajiala api key is missing")
		}
		opts := []dajiala.Option{
			dajiala.WithEndpoint(cfg.Search.Dajiala.Endpoint),
			dajiala.WithLimiter(NewLimiter(cfg.Concurrency)),
		}
		if cfg.Search.Dajiala.Timeout > 0 {
			opts = append(opts, dajiala.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Search.Dajiala.Timeout) * time.Second,
			}))
		}
		return dajiala.NewClient(apiKey, opts...), nil

	default:
		return nil, fmt.Errorf("unknown search source: %s", source)
	}
}

// NewSearchers 创建所有可用的数据来源；remote 缺少 API Key 时跳过
func NewSearchers(cfg *config.Config) (map[model.DataSource]search.Searcher, error) {
	searchers := make(map[model.DataSource]search.Searcher, 2)
	for _, source := range []model.DataSource{model.DataSourceMock, model.DataSourceRemote} {
		s, err := NewSearcher(cfg, source)
		if err != nil {
			if source == model.DataSourceRemote && cfg.Search.Dajiala.APIKey == "" {
				continue
			}
			return nil, fmt.Errorf("init %s searcher: %w", source, err)
		}
		searchers[source] = s
	}
	return searchers, nil
}

// NewLimiter 按 RPM/QPS 创建限流器，未配置时不限流
func NewLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	if c.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := c.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}
