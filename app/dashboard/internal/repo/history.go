package repo

import (
	"context"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
)

// HistoryRepo 选题历史仓库接口
type HistoryRepo interface {
	// Save 保存一条历史记录，返回自增 id
	Save(ctx context.Context, h *domain.TopicHistory) (int64, error)
	// List 按创建时间倒序列出最近的历史记录
	List(ctx context.Context, limit int) ([]*domain.TopicHistory, error)
	// Get 根据 id 获取历史记录，不存在时返回 HISTORY_NOT_FOUND
	Get(ctx context.Context, id int64) (*domain.TopicHistory, error)
	// Delete 删除历史记录，id 不存在时不报错
	Delete(ctx context.Context, id int64) error
	// Prune 仅保留最近 keep 条记录，返回删除条数
	Prune(ctx context.Context, keep int) (int64, error)
}
