package model

// DataSource 数据来源标记
type DataSource string

const (
	// DataSourceMock 本地模拟数据
	DataSourceMock DataSource = "mock"
	// DataSourceRemote 第三方实时接口
	DataSourceRemote DataSource = "remote"
)

// ParseDataSource 解析数据来源，未知取值一律视为 mock
func ParseDataSource(s string) DataSource {
	if DataSource(s) == DataSourceRemote {
		return DataSourceRemote
	}
	return DataSourceMock
}

// Article 归一化后的公众号文章
type Article struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	CoverURL         string `json:"coverUrl"`
	ReadCount        int64  `json:"readCount"`
	LikeCount        int64  `json:"likeCount"`
	WatchCount       int64  `json:"watchCount"`
	PublishTimestamp int64  `json:"publishTimestamp"`
	PublishTimeText  string `json:"publishTimeText"`
	IsOriginal       bool   `json:"isOriginal"`
	URL              string `json:"url"`
	ShortLink        string `json:"shortLink"`
	Classify         string `json:"classify"`
	WxName           string `json:"wxName"`
	WxID             string `json:"wxId"`
	Content          string `json:"content"`
}

// RankedArticle 附带互动率的文章，用于互动榜
type RankedArticle struct {
	Article
	EngagementRate float64 `json:"engagementRate"`
}

// KeywordEntry 高频词条目
type KeywordEntry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Insight 选题洞察
type Insight struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Report 一次分析的完整计算结果
type Report struct {
	Articles      []Article       `json:"articles"`
	TopLiked      []Article       `json:"topLiked"`
	TopEngagement []RankedArticle `json:"topEngagement"`
	KeywordCloud  []KeywordEntry  `json:"keywordCloud"`
	Insights      []Insight       `json:"insights"`
}

// EmptyReport 返回各列表均为空（非 nil）的报告
func EmptyReport() Report {
	return Report{
		Articles:      []Article{},
		TopLiked:      []Article{},
		TopEngagement: []RankedArticle{},
		KeywordCloud:  []KeywordEntry{},
		Insights:      []Insight{},
	}
}

// Fill 将 nil 列表补齐为空列表，保证序列化结果为 []
func (r Report) Fill() Report {
	if r.Articles == nil {
		r.Articles = []Article{}
	}
	if r.TopLiked == nil {
		r.TopLiked = []Article{}
	}
	if r.TopEngagement == nil {
		r.TopEngagement = []RankedArticle{}
	}
	if r.KeywordCloud == nil {
		r.KeywordCloud = []KeywordEntry{}
	}
	if r.Insights == nil {
		r.Insights = []Insight{}
	}
	return r
}

// Snapshot 报告快照：导出与持久化的基本单元
type Snapshot struct {
	Keyword     string     `json:"keyword"`
	DataSource  DataSource `json:"dataSource"`
	Total       int        `json:"total"`
	TotalPage   int        `json:"totalPage"`
	Page        int        `json:"page"`
	RawCutWords string     `json:"rawCutWords"`
	Report
}
