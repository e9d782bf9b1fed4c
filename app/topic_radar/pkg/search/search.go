package search

import (
	"context"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

// Searcher 定义通用的文章搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求，字段均已完成默认值与范围处理
type Request struct {
	Keyword        string
	Period         int // 最近 N 天
	Page           int
	Size           int
	SortType       int
	Mode           int
	Type           int
	AnyKeyword     string
	ExcludeKeyword string
}

// Response 通用搜索响应，保留第三方原始记录
type Response struct {
	Data      []model.Datum
	Total     int
	TotalPage int
	Page      int
	CutWords  string
	Source    model.DataSource
}
