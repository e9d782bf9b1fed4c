package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const markdownTemplate = `# 选题分析报告：{{ or .Keyword "未命名" }}

- 生成时间：{{ .GeneratedAt }}
- 数据来源：{{ .Source }}
- 命中总数：{{ .Totals.Total }}（第 {{ .Totals.CurrentPage }}/{{ .Totals.TotalPage }} 页，本页 {{ .Totals.ArticleCount }} 篇）
{{- if .RawCutWords }}
- 分词：{{ .RawCutWords }}
{{- end }}

## 选题洞察
{{ range .Insights }}
### {{ .ID }}. {{ .Title }}

{{ .Description }}
{{ else }}
暂无洞察。
{{ end }}
## 点赞榜

| # | 标题 | 公众号 | 阅读 | 点赞 |
|---|---|---|---|---|
{{- range $i, $a := .TopLiked }}
| {{ inc $i }} | {{ link $a.Title $a.URL }} | {{ cell $a.WxName }} | {{ $a.ReadCount }} | {{ $a.LikeCount }} |
{{- end }}

## 互动榜

| # | 标题 | 公众号 | 阅读 | 互动率 |
|---|---|---|---|---|
{{- range $i, $a := .TopEngagement }}
| {{ inc $i }} | {{ link $a.Title $a.URL }} | {{ cell $a.WxName }} | {{ $a.ReadCount }} | {{ percent $a.EngagementRate }} |
{{- end }}

## 高频词
{{ range .KeywordCloud }}
- {{ .Word }} × {{ .Count }}
{{- else }}
暂无高频词。
{{- end }}

## 文章列表
{{ range .Articles }}
- {{ link .Title .URL }}（{{ cell .WxName }}，{{ date .PublishTimestamp }}，阅读 {{ .ReadCount }}）
{{- end }}
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":     func(i int) int { return i + 1 },
	"cell":    escapeCell,
	"link":    link,
	"percent": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"date": func(ms int64) string {
		return time.UnixMilli(ms).In(time.FixedZone("CST", 8*60*60)).Format(time.DateTime)
	},
}).Parse(markdownTemplate))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderMarkdown 渲染 Markdown 报告
func RenderMarkdown(a Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, a); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderHTML 将 Markdown 报告转换为独立的 HTML 页面
func RenderHTML(a Artifact) ([]byte, error) {
	src, err := RenderMarkdown(a)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err := markdown.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"zh-CN\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.WriteString(template.HTMLEscapeString("选题分析报告 " + a.Keyword))
	buf.WriteString("</title>\n</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

func link(title, url string) string {
	title = escapeCell(title)
	title = strings.NewReplacer("[", "\\[", "]", "\\]").Replace(title)
	if url == "" {
		return title
	}
	return fmt.Sprintf("[%s](<%s>)", title, url)
}
