package mock

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
)

//go:embed mock_kw_search.json
var defaultDataset []byte

// Message 模拟数据响应提示
const Message = "使用本地模拟数据"

// Client 基于本地样本数据的搜索实现，用于演示与离线开发
type Client struct {
	data []model.Datum
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

type dataset struct {
	Data []model.Datum `json:"data"`
}

// NewClient 使用内置样本数据创建客户端
func NewClient() (*Client, error) {
	return NewClientFromJSON(defaultDataset)
}

// NewClientFromFile 从 kw_search 格式的 JSON 文件加载样本数据
func NewClientFromFile(path string) (*Client, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mock dataset failed: %w", err)
	}
	return NewClientFromJSON(raw)
}

// NewClientFromJSON 解析 kw_search 格式的样本数据
func NewClientFromJSON(raw []byte) (*Client, error) {
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("unmarshal mock dataset failed: %w", err)
	}
	return &Client{data: ds.Data}, nil
}

// Search 按关键词过滤样本并分页；命中数不足一页时回退到完整样本
func (c *Client) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	keyword := strings.ToLower(req.Keyword)

	limit := len(c.data)
	if limit == 0 {
		limit = search.DefaultSize
	}
	size := max(1, min(req.Size, limit))

	effective := c.data
	if keyword != "" {
		var filtered []model.Datum
		for _, d := range c.data {
			if matches(d, keyword) {
				filtered = append(filtered, d)
			}
		}
		if len(filtered) >= size {
			effective = filtered
		}
	}

	total := len(effective)
	totalPage := max(1, (max(total, 1)+size-1)/size)
	page := max(1, min(req.Page, totalPage))
	start := min((page-1)*size, total)
	end := min(start+size, total)

	pageData := make([]model.Datum, end-start)
	copy(pageData, effective[start:end])

	return &search.Response{
		Data:      pageData,
		Total:     total,
		TotalPage: totalPage,
		Page:      page,
		CutWords:  req.Keyword,
		Source:    model.DataSourceMock,
	}, nil
}

func matches(d model.Datum, keyword string) bool {
	var parts []string
	for _, s := range []string{d.Title, d.Content, d.WxName, d.Classify} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), keyword)
}
