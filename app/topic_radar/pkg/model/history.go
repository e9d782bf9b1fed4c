package model

// TopicHistory 选题历史记录
type TopicHistory struct {
	ID           int64      `json:"id"`
	Keyword      string     `json:"keyword"`
	DataSource   DataSource `json:"dataSource"`
	ArticleCount int        `json:"articleCount"`
	Total        *int       `json:"total,omitempty"`
	TotalPage    *int       `json:"totalPage,omitempty"`
	Page         *int       `json:"page,omitempty"`
	RawCutWords  *string    `json:"rawCutWords,omitempty"`
	CreatedAt    string     `json:"createdAt"`
	Report       Report     `json:"report"`
}

// NewTopicHistory 由报告快照生成待保存的历史记录
func NewTopicHistory(s *Snapshot) *TopicHistory {
	total, totalPage, page, cutWords := s.Total, s.TotalPage, s.Page, s.RawCutWords
	report := s.Report.Fill()
	return &TopicHistory{
		Keyword:      s.Keyword,
		DataSource:   s.DataSource,
		ArticleCount: len(report.Articles),
		Total:        &total,
		TotalPage:    &totalPage,
		Page:         &page,
		RawCutWords:  &cutWords,
		Report:       report,
	}
}

// Snapshot 还原为报告快照，回放时直接使用已保存的结果
func (h *TopicHistory) Snapshot() Snapshot {
	s := Snapshot{
		Keyword:    h.Keyword,
		DataSource: h.DataSource,
		Total:      h.ArticleCount,
		TotalPage:  1,
		Page:       1,
		Report:     h.Report.Fill(),
	}
	if h.Total != nil {
		s.Total = *h.Total
	}
	if h.TotalPage != nil {
		s.TotalPage = *h.TotalPage
	}
	if h.Page != nil {
		s.Page = *h.Page
	}
	if h.RawCutWords != nil {
		s.RawCutWords = *h.RawCutWords
	}
	return s
}
