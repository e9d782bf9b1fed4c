package data

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

func newTestRepo(t *testing.T) *historyRepo {
	t.Helper()
	d, cleanup, err := NewData(&conf.Data{
		Database: &conf.Database{Driver: "sqlite", Source: ":memory:"},
	}, log.DefaultLogger)
	if err != nil {
		t.Fatalf("NewData() error = %v", err)
	}
	t.Cleanup(cleanup)
	return NewHistoryRepo(d, log.DefaultLogger).(*historyRepo)
}

func TestHistoryRepo_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	h := domain.NewTopicHistory(&model.Snapshot{
		Keyword:    "测试",
		DataSource: model.DataSourceMock,
		Report:     model.Report{Articles: []model.Article{{ID: "g1"}}},
	})
	id, err := r.Save(ctx, h)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := r.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Keyword != "测试" || got.ArticleCount != 1 {
		t.Errorf("Get() = %+v", got)
	}

	for _, keep := range []int{0, 5} {
		if n, err := r.Prune(ctx, keep); err != nil || n != 0 {
			t.Errorf("Prune(%d) = %d, %v", keep, n, err)
		}
	}
}

func TestHistoryRepo_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Get(context.Background(), 42)
	if errors.Reason(err) != domain.ReasonHistoryNotFound || errors.Code(err) != 404 {
		t.Errorf("Get() error = %v", err)
	}
	if err := r.Delete(context.Background(), 42); err != nil {
		t.Errorf("Delete() missing id error = %v", err)
	}
}

func TestNewData_UnsupportedDriver(t *testing.T) {
	_, _, err := NewData(&conf.Data{Database: &conf.Database{Driver: "mysql"}}, log.DefaultLogger)
	if err == nil {
		t.Error("NewData() should reject unsupported drivers")
	}
}
