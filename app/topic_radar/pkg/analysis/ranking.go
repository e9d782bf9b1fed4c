package analysis

import (
	"math"
	"sort"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

// TopN 榜单长度
const TopN = 5

// EngagementRate 互动率 = (点赞 + 在看) / max(阅读, 1) * 100
func EngagementRate(a model.Article) float64 {
	denominator := a.ReadCount
	if denominator < 1 {
		denominator = 1
	}
	return float64(a.LikeCount+a.WatchCount) / float64(denominator) * 100
}

// TopLiked 点赞榜：仅统计点赞数大于 0 的文章，按点赞数降序，并列时保持原顺序
func TopLiked(articles []model.Article) []model.Article {
	list := filter(articles, func(a model.Article) bool { return a.LikeCount > 0 })
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].LikeCount > list[j].LikeCount
	})
	return head(list, TopN)
}

// TopEngagement 互动榜：仅统计阅读数大于 0 的文章，按互动率降序，并列时保持原顺序
func TopEngagement(articles []model.Article) []model.Article {
	list := filter(articles, func(a model.Article) bool { return a.ReadCount > 0 })
	sort.SliceStable(list, func(i, j int) bool {
		return EngagementRate(list[i]) > EngagementRate(list[j])
	})
	return head(list, TopN)
}

// RankEngagement 互动榜并附带保留两位小数的互动率
func RankEngagement(articles []model.Article) []model.RankedArticle {
	top := TopEngagement(articles)
	ranked := make([]model.RankedArticle, 0, len(top))
	for _, a := range top {
		ranked = append(ranked, model.RankedArticle{
			Article:        a,
			EngagementRate: round(EngagementRate(a), 2),
		})
	}
	return ranked
}

func filter(articles []model.Article, keep func(model.Article) bool) []model.Article {
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
