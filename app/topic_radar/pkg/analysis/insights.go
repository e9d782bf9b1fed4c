package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

// MaxInsights 洞察条数上限
const MaxInsights = 5

const fallbackTopic = "该领域"

// SynthesizeInsights 根据文章与词云生成选题洞察，顺序固定：
// 头部阅读、互动驱动、原创占比、高势能账号、词频热点。
func SynthesizeInsights(articles []model.Article, keywords []model.KeywordEntry, activeKeyword string) []model.Insight {
	if len(articles) == 0 {
		return []model.Insight{}
	}

	insights := make([]model.Insight, 0, MaxInsights)

	topRead := articles[0]
	for _, a := range articles[1:] {
		if a.ReadCount > topRead.ReadCount {
			topRead = a
		}
	}
	insights = append(insights, model.Insight{
		ID:          1,
		Title:       fmt.Sprintf("头部阅读：《%s》", topRead.Title),
		Description: fmt.Sprintf("该文章阅读量达到 %s，显著高于平均水平，是潜在爆款题材。", formatThousands(topRead.ReadCount)),
	})

	topEngagement := articles[0]
	for _, a := range articles[1:] {
		if EngagementRate(a) > EngagementRate(topEngagement) {
			topEngagement = a
		}
	}
	insights = append(insights, model.Insight{
		ID:          2,
		Title:       "互动驱动内容",
		Description: fmt.Sprintf("互动率最高的《%s》达到 %.2f%%，说明读者更愿意参与此类话题。", topEngagement.Title, EngagementRate(topEngagement)),
	})

	insights = append(insights, model.Insight{
		ID:          3,
		Title:       "原创内容竞争度",
		Description: fmt.Sprintf("原创文章占比 %.1f%%，从源头创作更容易建立差异化。", OriginalRatio(articles)),
	})

	if name, reads, ok := topAccount(articles); ok {
		insights = append(insights, model.Insight{
			ID:          4,
			Title:       fmt.Sprintf("高势能账号：%s", name),
			Description: fmt.Sprintf("%s 在本批次贡献了 %s 阅读，值得持续跟踪其发文结构与标题策略。", name, formatThousands(reads)),
		})
	}

	focus := model.Insight{ID: 5, Title: "词频热点"}
	if len(keywords) > 0 {
		focus.Description = fmt.Sprintf("「%s」出现频次最高（%d 次），可围绕该主题延伸更细分的选题。", keywords[0].Word, keywords[0].Count)
	} else {
		topic := activeKeyword
		if topic == "" {
			topic = fallbackTopic
		}
		focus.Description = fmt.Sprintf("当前关键词「%s」下主题分散，建议结合痛点重新聚焦。", topic)
	}
	insights = append(insights, focus)

	return head(insights, MaxInsights)
}

// OriginalRatio 原创文章占比（百分比，0-100）
func OriginalRatio(articles []model.Article) float64 {
	if len(articles) == 0 {
		return 0
	}
	original := 0
	for _, a := range articles {
		if a.IsOriginal {
			original++
		}
	}
	return float64(original) / float64(len(articles)) * 100
}

// topAccount 按公众号汇总阅读量，返回阅读量最高的账号；并列时取先出现者
func topAccount(articles []model.Article) (string, int64, bool) {
	totals := make(map[string]int64)
	var order []string
	for _, a := range articles {
		if strings.TrimSpace(a.WxName) == "" {
			continue
		}
		if _, seen := totals[a.WxName]; !seen {
			order = append(order, a.WxName)
		}
		totals[a.WxName] += a.ReadCount
	}
	if len(order) == 0 {
		return "", 0, false
	}
	best := order[0]
	for _, name := range order[1:] {
		if totals[name] > totals[best] {
			best = name
		}
	}
	return best, totals[best], true
}

func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
