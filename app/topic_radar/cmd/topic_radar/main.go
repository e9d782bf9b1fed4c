package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/engine"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/export"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/logger"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/search"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/storage"
)

// options 命令行参数
type options struct {
	config  string
	keyword string
	source  string
	format  string
	page    int
	size    int
	noSave  bool
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	var o options
	set := flag.NewFlagSet("topic_radar", flag.ContinueOnError)
	set.SetOutput(out)
	set.StringVar(&o.config, "config", "app/topic_radar/configs/config.yaml", "config path, eg: -config app/topic_radar/configs/config.yaml")
	set.StringVar(&o.keyword, "keyword", "", "search keyword")
	set.StringVar(&o.source, "source", "", "data source: mock or remote, defaults to search.source")
	set.StringVar(&o.format, "format", "", "export format: json, markdown or html, defaults to export.format")
	set.IntVar(&o.page, "page", search.DefaultPage, "result page")
	set.IntVar(&o.size, "size", search.DefaultSize, "page size")
	set.BoolVar(&o.noSave, "no-save", false, "skip saving the topic history")
	if err := set.Parse(args); err != nil {
		return nil, err
	}
	if o.keyword == "" && set.NArg() > 0 {
		o.keyword = set.Arg(0)
	}
	return &o, nil
}

// loadConfig 加载配置文件，文件不存在时使用默认配置
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	cfg.LoadEnv()
	return cfg, nil
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := loadConfig(o.config)
	if err != nil {
		log.Fatal(err)
	}
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动选题雷达...")

	path, err := run(context.Background(), cfg, o, time.Now())
	if err != nil {
		logger.Log.Fatalf("选题分析失败: %v", err)
	}
	logger.Log.Infof("✅ 选题分析报告生成完毕: %s", path)
}

// run 执行一次 搜索 → 分析 → 保存 → 导出，返回导出文件路径
func run(ctx context.Context, cfg *config.Config, o *options, now time.Time) (string, error) {
	format, err := export.ParseFormat(firstNonEmpty(o.format, cfg.Export.Format))
	if err != nil {
		return "", err
	}
	req, err := search.NewRequest(search.Params{Keyword: o.keyword, Page: o.page, Size: o.size})
	if err != nil {
		return "", err
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return "", fmt.Errorf("初始化搜索引擎失败: %w", err)
	}
	var source model.DataSource
	if o.source != "" {
		source = model.ParseDataSource(o.source)
	}
	snapshot, err := eng.Analyze(ctx, req, source)
	if err != nil {
		return "", err
	}
	logger.Log.Infof("关键词 [%s] 共 %d 条结果，本页 %d 篇，洞察 %d 条",
		snapshot.Keyword, snapshot.Total, len(snapshot.Articles), len(snapshot.Insights))

	if !o.noSave {
		if err := save(ctx, cfg, snapshot); err != nil {
			// 保存失败不影响导出
			logger.Log.Errorf("保存选题历史失败: %v", err)
		}
	}

	return writeExport(cfg.Export.Dir, *snapshot, format, now)
}

// save 保存选题历史，配置了 retain 时清理旧记录
func save(ctx context.Context, cfg *config.Config, snapshot *model.Snapshot) error {
	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(ctx, model.NewTopicHistory(snapshot))
	if err != nil {
		return err
	}
	logger.Log.Infof("选题历史已保存 id=%d", id)

	if cfg.History.Retain > 0 {
		n, err := store.Prune(ctx, cfg.History.Retain)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Log.Infof("已清理 %d 条旧的选题历史", n)
		}
	}
	return nil
}

func writeExport(dir string, s model.Snapshot, f export.Format, now time.Time) (string, error) {
	body, err := export.Render(export.Build(s, now), f)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建导出目录失败: %w", err)
	}
	path := filepath.Join(dir, export.FileName(s.Keyword, now, f))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("写入导出文件失败: %w", err)
	}
	return path, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
