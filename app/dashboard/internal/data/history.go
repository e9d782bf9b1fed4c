package data

import (
	"context"
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/repo"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/storage"
)

type historyRepo struct {
	data *Data
	log  *log.Helper
}

// NewHistoryRepo 创建选题历史仓库
func NewHistoryRepo(data *Data, logger log.Logger) repo.HistoryRepo {
	return &historyRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *historyRepo) Save(ctx context.Context, h *domain.TopicHistory) (int64, error) {
	return r.data.store.Save(ctx, h)
}

func (r *historyRepo) List(ctx context.Context, limit int) ([]*domain.TopicHistory, error) {
	return r.data.store.List(ctx, limit)
}

func (r *historyRepo) Get(ctx context.Context, id int64) (*domain.TopicHistory, error) {
	h, err := r.data.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, domain.ErrHistoryNotFound(id)
	}
	return h, err
}

func (r *historyRepo) Delete(ctx context.Context, id int64) error {
	return r.data.store.Delete(ctx, id)
}

func (r *historyRepo) Prune(ctx context.Context, keep int) (int64, error) {
	n, err := r.data.store.Prune(ctx, keep)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.log.WithContext(ctx).Infof("pruned %d topic history records, keep=%d", n, keep)
	}
	return n, nil
}
