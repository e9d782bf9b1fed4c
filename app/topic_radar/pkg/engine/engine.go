package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/analysis"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/logger"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search/factory"
)

// ReasonSourceUnavailable 请求的数据来源未配置
const ReasonSourceUnavailable = "SOURCE_UNAVAILABLE"

// Engine 核心处理引擎：搜索、归一化并生成报告快照
type Engine struct {
	searchers map[model.DataSource]search.Searcher
	source    model.DataSource
	now       func() time.Time
}

// NewEngine 根据配置创建引擎实例
func NewEngine(cfg *config.Config) (*Engine, error) {
	searchers, err := factory.NewSearchers(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	source := model.ParseDataSource(cfg.Search.Source)
	if _, ok := searchers[source]; !ok {
		logger.Log.Warnf("数据来源 [%s] 未配置，回退到本地模拟数据", source)
		source = model.DataSourceMock
	}
	return New(searchers, source), nil
}

// New 使用已创建的搜索实例构造引擎
func New(searchers map[model.DataSource]search.Searcher, source model.DataSource) *Engine {
	return &Engine{
		searchers: searchers,
		source:    source,
		now:       time.Now,
	}
}

// DefaultSource 返回未指定来源时使用的数据来源
func (e *Engine) DefaultSource() model.DataSource {
	return e.source
}

// SearchResult 归一化后的搜索结果
type SearchResult struct {
	Articles    []model.Article  `json:"articles"`
	Total       int              `json:"total"`
	TotalPage   int              `json:"totalPage"`
	Page        int              `json:"page"`
	RawCutWords string           `json:"rawCutWords"`
	Source      model.DataSource `json:"-"`
}

// Search 调用数据来源并归一化文章；source 为空时使用默认来源
func (e *Engine) Search(ctx context.Context, req *search.Request, source model.DataSource) (*SearchResult, error) {
	if source == "" {
		source = e.source
	}
	searcher, ok := e.searchers[source]
	if !ok {
		return nil, errors.ServiceUnavailable(ReasonSourceUnavailable, fmt.Sprintf("数据来源 %s 未配置", source))
	}

	logger.Log.Infof("搜索公众号文章 [%s] source=%s page=%d size=%d", req.Keyword, source, req.Page, req.Size)
	resp, err := searcher.Search(ctx, req)
	if err != nil {
		logger.Log.Errorf("搜索失败 [%s]: %v", req.Keyword, err)
		return nil, err
	}
	if resp.Source != "" {
		source = resp.Source
	}

	articles := analysis.NormalizeAll(resp.Data, e.now())
	logger.Log.Debugf("搜索 [%s] 返回 %d 篇文章，共 %d 条", req.Keyword, len(articles), resp.Total)

	return &SearchResult{
		Articles:    articles,
		Total:       resp.Total,
		TotalPage:   resp.TotalPage,
		Page:        resp.Page,
		RawCutWords: resp.CutWords,
		Source:      source,
	}, nil
}

// Analyze 执行一次完整分析，返回报告快照
func (e *Engine) Analyze(ctx context.Context, req *search.Request, source model.DataSource) (*model.Snapshot, error) {
	result, err := e.Search(ctx, req, source)
	if err != nil {
		return nil, err
	}
	snapshot := analysis.BuildSnapshot(analysis.Input{
		Keyword:     req.Keyword,
		Source:      result.Source,
		Total:       result.Total,
		TotalPage:   result.TotalPage,
		Page:        result.Page,
		RawCutWords: result.RawCutWords,
		Articles:    result.Articles,
	})
	logger.Log.Infof("报告生成完成 [%s]: %d 篇文章, %d 个高频词, %d 条洞察",
		req.Keyword, len(snapshot.Articles), len(snapshot.KeywordCloud), len(snapshot.Insights))
	return &snapshot, nil
}
