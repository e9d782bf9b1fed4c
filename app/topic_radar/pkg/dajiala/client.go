package dajiala

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/logger"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
)

// DefaultEndpoint 公众号关键词搜索接口
const DefaultEndpoint = "https://www.dajiala.com/fbmain/monitor/v3/kw_search"

// Client 极致了 kw_search API 客户端
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

// Option 客户端可选项
type Option func(*Client)

// WithEndpoint 覆盖默认接口地址
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLimiter 为出站请求设置限流器
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient 创建一个新的 kw_search 客户端
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchPayload kw_search 请求体
type SearchPayload struct {
	Kw         string `json:"kw"`
	SortType   int    `json:"sort_type"`
	Mode       int    `json:"mode"`
	Period     int    `json:"period"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	Key        string `json:"key"`
	AnyKw      string `json:"any_kw"`
	ExKw       string `json:"ex_kw"`
	VerifyCode string `json:"verifycode"`
	Type       int    `json:"type"`
}

// SearchResponse kw_search 响应体
type SearchResponse struct {
	Code        *model.Count  `json:"code"`
	CostMoney   float64       `json:"cost_money"`
	CutWords    string        `json:"cut_words"`
	Data        []model.Datum `json:"data"`
	DataNumber  model.Count   `json:"data_number"`
	Msg         string        `json:"msg"`
	Page        *model.Count  `json:"page"`
	RemainMoney float64       `json:"remain_money"`
	Total       *model.Count  `json:"total"`
	TotalPage   *model.Count  `json:"total_page"`
}

// BuildPayload 将通用请求转换为 kw_search 请求体
func BuildPayload(req *search.Request, apiKey string) SearchPayload {
	return SearchPayload{
		Kw:       req.Keyword,
		SortType: req.SortType,
		Mode:     req.Mode,
		Period:   req.Period,
		Page:     req.Page,
		Size:     req.Size,
		Key:      apiKey,
		AnyKw:    req.AnyKeyword,
		ExKw:     req.ExcludeKeyword,
		Type:     req.Type,
	}
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	resp, err := c.doSearch(ctx, BuildPayload(req, c.apiKey))
	if err != nil {
		return nil, err
	}
	if resp.Code == nil {
		return nil, search.ErrUpstreamFailure(-1, resp.Msg)
	}
	if code := int(*resp.Code); !isSuccessCode(code) {
		return nil, search.ErrUpstreamFailure(code, resp.Msg)
	}
	return ToResponse(resp, req.Page, model.DataSourceRemote), nil
}

// ToResponse 将 kw_search 响应映射为通用响应，缺省的分页信息按文章数/请求页补齐
func ToResponse(resp *SearchResponse, requestPage int, source model.DataSource) *search.Response {
	data := resp.Data
	if data == nil {
		data = []model.Datum{}
	}
	out := &search.Response{
		Data:      data,
		Total:     len(data),
		TotalPage: 1,
		Page:      requestPage,
		CutWords:  resp.CutWords,
		Source:    source,
	}
	if resp.Total != nil {
		out.Total = int(*resp.Total)
	}
	if resp.TotalPage != nil {
		out.TotalPage = int(*resp.TotalPage)
	}
	if resp.Page != nil {
		out.Page = int(*resp.Page)
	}
	return out
}

// doSearch 执行搜索 (Internal)
func (c *Client) doSearch(ctx context.Context, payload SearchPayload) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, search.ErrUpstreamUnavailable("获取公众号文章失败", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, search.ErrUpstreamUnavailable("获取公众号文章失败", fmt.Errorf("request failed: %w", err))
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, search.ErrUpstreamUnavailable("获取公众号文章失败", fmt.Errorf("read body failed: %w", err))
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		logger.Log.Warnf("kw_search 返回异常状态 %d: %s", res.StatusCode, truncate(string(raw), 200))
		return nil, search.ErrUpstreamUnavailable("第三方服务暂时不可用",
			fmt.Errorf("kw_search api error (status %d): %s", res.StatusCode, http.StatusText(res.StatusCode)))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(raw, &searchResp); err != nil {
		return nil, search.ErrMalformedResponse(fmt.Errorf("unmarshal response failed: %w", err))
	}
	logger.Log.Debugf("kw_search [%s] 返回 %d 条, 剩余额度 %.2f", payload.Kw, len(searchResp.Data), searchResp.RemainMoney)

	return &searchResp, nil
}

func isSuccessCode(code int) bool {
	return code == 0 || code == 200
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
