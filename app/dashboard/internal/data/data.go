package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/storage"
)

// Data 数据访问资源
type Data struct {
	store *storage.Storage
}

// NewData 打开历史记录存储并完成建表，返回的 cleanup 负责关闭连接
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	var dbCfg config.DBConfig
	if c != nil && c.Database != nil {
		dbCfg = config.DBConfig{Driver: c.Database.Driver, Source: c.Database.Source}
	}
	store, err := storage.NewStorage(dbCfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}
