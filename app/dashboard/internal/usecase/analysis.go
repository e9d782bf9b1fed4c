package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/engine"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
)

// Analyzer 搜索与报告生成
type Analyzer interface {
	Search(ctx context.Context, req *search.Request, source model.DataSource) (*engine.SearchResult, error)
	Analyze(ctx context.Context, req *search.Request, source model.DataSource) (*model.Snapshot, error)
}

// AnalysisUseCase 选题分析业务逻辑
type AnalysisUseCase struct {
	analyzer Analyzer
	history  *HistoryUseCase
	saver    *AutoSaver
	log      *log.Helper
}

// NewAnalysisUseCase 创建选题分析业务逻辑实例
func NewAnalysisUseCase(analyzer *engine.Engine, history *HistoryUseCase, saver *AutoSaver, logger log.Logger) *AnalysisUseCase {
	return newAnalysisUseCase(analyzer, history, saver, logger)
}

func newAnalysisUseCase(analyzer Analyzer, history *HistoryUseCase, saver *AutoSaver, logger log.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{
		analyzer: analyzer,
		history:  history,
		saver:    saver,
		log:      log.NewHelper(logger),
	}
}

// Articles 搜索并归一化文章
func (uc *AnalysisUseCase) Articles(ctx context.Context, req *search.Request, source model.DataSource) (*engine.SearchResult, error) {
	uc.saver.BeginSearch()
	return uc.analyzer.Search(ctx, req, source)
}

// ReportResult 报告生成结果
type ReportResult struct {
	Snapshot  *model.Snapshot
	SavedID   int64
	Saved     bool
	Skipped   SkipReason
	SaveError error
}

// Report 生成报告快照，autoSave 时按签名去重保存到历史记录
func (uc *AnalysisUseCase) Report(ctx context.Context, req *search.Request, source model.DataSource, autoSave bool) (*ReportResult, error) {
	// 每次报告都是一次新搜索，签名去重只在同一次搜索内生效
	uc.saver.BeginSearch()
	snapshot, err := uc.analyzer.Analyze(ctx, req, source)
	if err != nil {
		return nil, err
	}
	result := &ReportResult{Snapshot: snapshot}
	if !autoSave {
		return result, nil
	}

	// 保存失败不影响报告返回
	saved, err := uc.AutoSave(ctx, snapshot)
	result.SavedID, result.Saved, result.Skipped, result.SaveError = saved.ID, saved.Saved(), saved.Skipped, err
	return result, nil
}

// AutoSave 按签名去重保存报告快照
func (uc *AnalysisUseCase) AutoSave(ctx context.Context, snapshot *model.Snapshot) (SaveResult, error) {
	res, err := uc.saver.Save(ctx, snapshot, func(ctx context.Context) (int64, error) {
		return uc.history.save(ctx, domain.NewTopicHistory(snapshot))
	})
	switch {
	case err != nil:
		uc.log.WithContext(ctx).Warnf("自动保存失败 keyword=%s: %v", snapshot.Keyword, err)
	case res.Skipped != "":
		uc.log.WithContext(ctx).Infof("跳过自动保存 keyword=%s reason=%s", snapshot.Keyword, res.Skipped)
	}
	return res, err
}
