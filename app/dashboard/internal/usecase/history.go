package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/repo"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/export"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
)

// DefaultHistoryLimit 历史列表默认条数
const DefaultHistoryLimit = 30

// HistoryUseCase 选题历史业务逻辑
type HistoryUseCase struct {
	repo   repo.HistoryRepo
	saver  *AutoSaver
	limit  int
	retain int
	now    func() time.Time
	log    *log.Helper
}

// NewHistoryUseCase 创建选题历史业务逻辑实例
func NewHistoryUseCase(c *conf.Data, repo repo.HistoryRepo, saver *AutoSaver, logger log.Logger) *HistoryUseCase {
	uc := &HistoryUseCase{
		repo:  repo,
		saver: saver,
		limit: DefaultHistoryLimit,
		now:   time.Now,
		log:   log.NewHelper(logger),
	}
	if c != nil && c.History != nil {
		if c.History.Limit > 0 {
			uc.limit = int(c.History.Limit)
		}
		uc.retain = int(c.History.Retain)
	}
	return uc
}

// Limit 返回默认列表条数
func (uc *HistoryUseCase) Limit() int {
	return uc.limit
}

// Save 校验并保存历史记录，返回 id 与刷新后的列表
func (uc *HistoryUseCase) Save(ctx context.Context, h *domain.TopicHistory) (int64, []*domain.TopicHistory, error) {
	id, err := uc.save(ctx, h)
	if err != nil {
		return 0, nil, err
	}
	items, err := uc.List(ctx, uc.limit)
	if err != nil {
		return 0, nil, err
	}
	return id, items, nil
}

func (uc *HistoryUseCase) save(ctx context.Context, h *domain.TopicHistory) (int64, error) {
	h.Keyword = strings.TrimSpace(h.Keyword)
	if h.Keyword == "" {
		return 0, search.ErrKeywordRequired
	}
	h.Report = h.Report.Fill()
	h.ArticleCount = len(h.Report.Articles)

	id, err := uc.repo.Save(ctx, h)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("保存历史记录失败 keyword=%s: %v", h.Keyword, err)
		return 0, domain.ErrStoreFailure("保存历史记录失败", err)
	}
	uc.log.WithContext(ctx).Infof("保存历史记录 id=%d keyword=%s articles=%d", id, h.Keyword, h.ArticleCount)

	if uc.retain > 0 {
		if _, err := uc.repo.Prune(ctx, uc.retain); err != nil {
			uc.log.WithContext(ctx).Warnf("清理历史记录失败: %v", err)
		}
	}
	return id, nil
}

// List 按创建时间倒序列出历史记录
func (uc *HistoryUseCase) List(ctx context.Context, limit int) ([]*domain.TopicHistory, error) {
	if limit <= 0 {
		limit = uc.limit
	}
	items, err := uc.repo.List(ctx, limit)
	if err != nil {
		return nil, domain.ErrStoreFailure("查询历史记录失败", err)
	}
	return items, nil
}

// Delete 删除历史记录并清空自动保存签名，返回刷新后的列表
func (uc *HistoryUseCase) Delete(ctx context.Context, id int64) ([]*domain.TopicHistory, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, domain.ErrStoreFailure("删除历史记录失败", err)
	}
	uc.saver.Forget()
	uc.log.WithContext(ctx).Infof("删除历史记录 id=%d", id)
	return uc.List(ctx, uc.limit)
}

// Replay 读取已保存的历史记录并进入回放模式，不重新搜索或计算
func (uc *HistoryUseCase) Replay(ctx context.Context, id int64) (*domain.TopicHistory, error) {
	h, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.saver.EnterPlayback()
	return h, nil
}

// Export 导出历史记录对应的报告
func (uc *HistoryUseCase) Export(ctx context.Context, id int64, format string) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	h, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	body, err := export.Render(export.Build(h.Snapshot(), now), f)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        export.FileName(h.Keyword, now, f),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

func (uc *HistoryUseCase) get(ctx context.Context, id int64) (*domain.TopicHistory, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	h, err := uc.repo.Get(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, domain.ErrStoreFailure("查询历史记录失败", err)
	}
	return h, nil
}

// ExportFile 导出文件
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}
