package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

type signature struct {
	Keyword      string           `json:"keyword"`
	Source       model.DataSource `json:"source"`
	Total        int              `json:"total"`
	Page         int              `json:"page"`
	ArticleCount int              `json:"articleCount"`
	FirstArticle string           `json:"firstArticle"`
	FirstInsight string           `json:"firstInsight"`
}

// Signature 计算报告快照的去重签名；关键词为空或没有文章时不生成签名
func Signature(s *model.Snapshot) (string, bool) {
	if s == nil || s.Keyword == "" || len(s.Articles) == 0 {
		return "", false
	}
	sig := signature{
		Keyword:      s.Keyword,
		Source:       s.DataSource,
		Total:        s.Total,
		Page:         s.Page,
		ArticleCount: len(s.Articles),
		FirstArticle: s.Articles[0].ID,
	}
	if len(s.Insights) > 0 {
		sig.FirstInsight = s.Insights[0].Title
	}
	b, _ := json.Marshal(sig)
	return string(b), true
}

// AutoSaver 自动保存的会话状态：签名去重、保存中互斥、回放模式
type AutoSaver struct {
	mu            sync.Mutex
	lastSignature string
	saving        bool
	playback      bool
}

// NewAutoSaver 创建自动保存会话
func NewAutoSaver() *AutoSaver {
	return &AutoSaver{}
}

// BeginSearch 开始新的搜索：退出回放模式并清空上次签名
func (a *AutoSaver) BeginSearch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playback = false
	a.lastSignature = ""
}

// EnterPlayback 进入回放模式，期间不自动保存
func (a *AutoSaver) EnterPlayback() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playback = true
}

// Forget 清空上次签名，删除历史记录后调用
func (a *AutoSaver) Forget() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSignature = ""
}

// SkipReason 自动保存被跳过的原因，为空表示已保存
type SkipReason string

const (
	SkipNoSignature SkipReason = "empty"
	SkipDuplicate   SkipReason = "duplicate"
	SkipBusy        SkipReason = "busy"
	SkipPlayback    SkipReason = "playback"
)

// SaveResult 自动保存结果
type SaveResult struct {
	ID      int64
	Skipped SkipReason
}

// Saved 是否实际写入了历史记录
func (r SaveResult) Saved() bool {
	return r.ID > 0 && r.Skipped == ""
}

// Save 在签名变化、未处于保存中且不在回放模式时调用 persist；未保存时 Skipped 给出原因
func (a *AutoSaver) Save(ctx context.Context, s *model.Snapshot, persist func(context.Context) (int64, error)) (SaveResult, error) {
	sig, ok := Signature(s)
	if !ok {
		return SaveResult{Skipped: SkipNoSignature}, nil
	}

	a.mu.Lock()
	switch {
	case a.saving:
		a.mu.Unlock()
		return SaveResult{Skipped: SkipBusy}, nil
	case a.playback:
		a.mu.Unlock()
		return SaveResult{Skipped: SkipPlayback}, nil
	case sig == a.lastSignature:
		a.mu.Unlock()
		return SaveResult{Skipped: SkipDuplicate}, nil
	}
	a.saving = true
	a.mu.Unlock()

	id, err := persist(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.saving = false
	if err != nil {
		return SaveResult{}, err
	}
	a.lastSignature = sig
	return SaveResult{ID: id}, nil
}
