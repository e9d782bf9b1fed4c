package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

// Format 导出格式
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ReasonInvalidFormat 不支持的导出格式
const ReasonInvalidFormat = "INVALID_FORMAT"

// ParseFormat 解析导出格式，空值视为 json
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", errors.BadRequest(ReasonInvalidFormat, fmt.Sprintf("不支持的导出格式: %s", s))
	}
}

// Ext 文件扩展名
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	default:
		return "json"
	}
}

// ContentType 下载响应的 Content-Type
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Totals 导出文件中的统计信息
type Totals struct {
	Total        int `json:"total"`
	TotalPage    int `json:"totalPage"`
	CurrentPage  int `json:"currentPage"`
	ArticleCount int `json:"articleCount"`
}

// Artifact 报告导出内容
type Artifact struct {
	Keyword       string                `json:"keyword"`
	GeneratedAt   string                `json:"generatedAt"`
	Source        model.DataSource      `json:"source"`
	Totals        Totals                `json:"totals"`
	RawCutWords   string                `json:"rawCutWords"`
	Articles      []model.Article       `json:"articles"`
	TopLiked      []model.Article       `json:"topLiked"`
	TopEngagement []model.RankedArticle `json:"topEngagement"`
	KeywordCloud  []model.KeywordEntry  `json:"keywordCloud"`
	Insights      []model.Insight       `json:"insights"`
}

// Build 由报告快照生成导出内容，不修改快照
func Build(s model.Snapshot, generatedAt time.Time) Artifact {
	r := s.Report.Fill()
	return Artifact{
		Keyword:     s.Keyword,
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Source:      s.DataSource,
		Totals: Totals{
			Total:        s.Total,
			TotalPage:    s.TotalPage,
			CurrentPage:  s.Page,
			ArticleCount: len(r.Articles),
		},
		RawCutWords:   s.RawCutWords,
		Articles:      r.Articles,
		TopLiked:      r.TopLiked,
		TopEngagement: r.TopEngagement,
		KeywordCloud:  r.KeywordCloud,
		Insights:      r.Insights,
	}
}

// FileName 生成导出文件名 insight-report-<keyword>-<毫秒时间戳>.<ext>
func FileName(keyword string, t time.Time, f Format) string {
	name := sanitize(keyword)
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("insight-report-%s-%d.%s", name, t.UnixMilli(), f.Ext())
}

// Render 按格式渲染导出内容
func Render(a Artifact, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		return RenderMarkdown(a)
	case FormatHTML:
		return RenderHTML(a)
	default:
		return nil, errors.BadRequest(ReasonInvalidFormat, fmt.Sprintf("不支持的导出格式: %s", f))
	}
}

func sanitize(keyword string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r', '\t', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(keyword))
}
