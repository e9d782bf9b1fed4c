package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/usecase"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/engine"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
)

// MaxHistoryLimit 历史列表条数上限
const MaxHistoryLimit = 200

// SearchReq 搜索/报告请求
type SearchReq struct {
	search.Params
	Source   string `json:"source"`
	AutoSave bool   `json:"autoSave"`
}

// ArticlesReply 文章搜索响应
type ArticlesReply struct {
	Data *engine.SearchResult `json:"data"`
	Meta ArticlesMeta         `json:"meta"`
}

// ArticlesMeta 文章搜索元信息
type ArticlesMeta struct {
	Source model.DataSource `json:"source"`
}

// ReportReply 报告响应
type ReportReply struct {
	Data        *model.Snapshot `json:"data"`
	Saved       *IDRef          `json:"saved"`
	SaveSkipped string          `json:"saveSkipped,omitempty"`
	SaveError   string          `json:"saveError,omitempty"`
}

// IDRef 历史记录 id
type IDRef struct {
	ID int64 `json:"id"`
}

// ListHistoryReq 历史列表请求
type ListHistoryReq struct {
	Limit string `json:"limit"`
}

// ListHistoryReply 历史列表响应
type ListHistoryReply struct {
	Data []*domain.TopicHistory `json:"data"`
}

// SaveHistoryReq 保存历史记录请求：报告快照加关键词、来源与分页信息
type SaveHistoryReq struct {
	Keyword       any             `json:"keyword"`
	DataSource    any             `json:"dataSource"`
	Total         any             `json:"total"`
	TotalPage     any             `json:"totalPage"`
	Page          any             `json:"page"`
	RawCutWords   any             `json:"rawCutWords"`
	Articles      json.RawMessage `json:"articles"`
	TopLiked      json.RawMessage `json:"topLiked"`
	TopEngagement json.RawMessage `json:"topEngagement"`
	KeywordCloud  json.RawMessage `json:"keywordCloud"`
	Insights      json.RawMessage `json:"insights"`
}

// HistoryChangeReply 保存/删除历史记录响应
type HistoryChangeReply struct {
	Data    IDRef                  `json:"data"`
	History []*domain.TopicHistory `json:"history"`
}

// HistoryIDReq 按 id 操作历史记录的请求
type HistoryIDReq struct {
	ID string `json:"id"`
}

// HistoryReply 单条历史记录响应
type HistoryReply struct {
	Data *domain.TopicHistory `json:"data"`
}

// ExportHistoryReq 导出请求
type ExportHistoryReq struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}

// ExportHistoryReply 导出文件
type ExportHistoryReply struct {
	FileName    string
	ContentType string
	Body        []byte
}

// AnalysisService 选题分析 HTTP 服务
type AnalysisService struct {
	analysis *usecase.AnalysisUseCase
	history  *usecase.HistoryUseCase
	log      *log.Helper
}

// NewAnalysisService 创建选题分析服务
func NewAnalysisService(analysis *usecase.AnalysisUseCase, history *usecase.HistoryUseCase, logger log.Logger) *AnalysisService {
	return &AnalysisService{
		analysis: analysis,
		history:  history,
		log:      log.NewHelper(logger),
	}
}

func (s *AnalysisService) SearchArticles(ctx context.Context, req *SearchReq) (*ArticlesReply, error) {
	r, err := search.NewRequest(req.Params)
	if err != nil {
		return nil, err
	}
	res, err := s.analysis.Articles(ctx, r, parseSource(req.Source))
	if err != nil {
		return nil, err
	}
	return &ArticlesReply{Data: res, Meta: ArticlesMeta{Source: res.Source}}, nil
}

func (s *AnalysisService) GenerateReport(ctx context.Context, req *SearchReq) (*ReportReply, error) {
	r, err := search.NewRequest(req.Params)
	if err != nil {
		return nil, err
	}
	res, err := s.analysis.Report(ctx, r, parseSource(req.Source), req.AutoSave)
	if err != nil {
		return nil, err
	}
	reply := &ReportReply{Data: res.Snapshot}
	if res.Saved {
		reply.Saved = &IDRef{ID: res.SavedID}
	}
	reply.SaveSkipped = string(res.Skipped)
	if res.SaveError != nil {
		reply.SaveError = "保存历史记录失败"
	}
	return reply, nil
}

func (s *AnalysisService) ListHistory(ctx context.Context, req *ListHistoryReq) (*ListHistoryReply, error) {
	limit := search.Clamp(req.Limit, s.history.Limit(), 1, MaxHistoryLimit)
	items, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListHistoryReply{Data: items}, nil
}

func (s *AnalysisService) SaveHistory(ctx context.Context, req *SaveHistoryReq) (*HistoryChangeReply, error) {
	h := &domain.TopicHistory{
		Keyword:     search.ReadText(req.Keyword),
		DataSource:  model.ParseDataSource(search.ReadText(req.DataSource)),
		Total:       optionalInt(req.Total),
		TotalPage:   optionalInt(req.TotalPage),
		Page:        optionalInt(req.Page),
		RawCutWords: optionalString(req.RawCutWords),
		Report: model.Report{
			Articles:      decodeList[model.Article](req.Articles),
			TopLiked:      decodeList[model.Article](req.TopLiked),
			TopEngagement: decodeList[model.RankedArticle](req.TopEngagement),
			KeywordCloud:  decodeList[model.KeywordEntry](req.KeywordCloud),
			Insights:      decodeList[model.Insight](req.Insights),
		},
	}
	id, items, err := s.history.Save(ctx, h)
	if err != nil {
		return nil, err
	}
	return &HistoryChangeReply{Data: IDRef{ID: id}, History: items}, nil
}

func (s *AnalysisService) DeleteHistory(ctx context.Context, req *HistoryIDReq) (*HistoryChangeReply, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.history.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HistoryChangeReply{Data: IDRef{ID: id}, History: items}, nil
}

func (s *AnalysisService) ReplayHistory(ctx context.Context, req *HistoryIDReq) (*HistoryReply, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	h, err := s.history.Replay(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HistoryReply{Data: h}, nil
}

func (s *AnalysisService) ExportHistory(ctx context.Context, req *ExportHistoryReq) (*ExportHistoryReply, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	f, err := s.history.Export(ctx, id, req.Format)
	if err != nil {
		return nil, err
	}
	return &ExportHistoryReply{FileName: f.Name, ContentType: f.ContentType, Body: f.Body}, nil
}

// parseSource 空值表示使用默认来源
func parseSource(s string) model.DataSource {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return model.ParseDataSource(strings.TrimSpace(s))
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// optionalInt 仅接受 JSON 数字
func optionalInt(v any) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

// decodeList 非数组或无法解析的列表按空列表处理
func decodeList[T any](raw json.RawMessage) []T {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []T{}
	}
	return items
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
