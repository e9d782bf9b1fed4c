package analysis

import "github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"

// Input 生成报告快照所需的搜索结果与元数据
type Input struct {
	Keyword     string
	Source      model.DataSource
	Total       int
	TotalPage   int
	Page        int
	RawCutWords string
	Articles    []model.Article
}

// BuildReport 计算点赞榜、互动榜、词云与洞察
func BuildReport(articles []model.Article, rawCutWords, activeKeyword string) model.Report {
	keywords := ExtractKeywords(articles, rawCutWords, activeKeyword)
	return model.Report{
		Articles:      articles,
		TopLiked:      TopLiked(articles),
		TopEngagement: RankEngagement(articles),
		KeywordCloud:  keywords,
		Insights:      SynthesizeInsights(articles, keywords, activeKeyword),
	}.Fill()
}

// BuildSnapshot 组装一次完整分析的报告快照
func BuildSnapshot(in Input) model.Snapshot {
	return model.Snapshot{
		Keyword:     in.Keyword,
		DataSource:  in.Source,
		Total:       in.Total,
		TotalPage:   in.TotalPage,
		Page:        in.Page,
		RawCutWords: in.RawCutWords,
		Report:      BuildReport(in.Articles, in.RawCutWords, in.Keyword),
	}
}
