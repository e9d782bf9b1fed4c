package storage

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/logger"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"
)

var (
	// ErrNotFound 历史记录不存在
	ErrNotFound = errors.New("topic history not found")
	// ErrKeywordRequired 保存时关键词为空
	ErrKeywordRequired = errors.New("topic history keyword is required")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultSource 默认 SQLite 数据库文件
	DefaultSource = "data/content-factory.db"
	// DefaultLimit 历史列表默认条数
	DefaultLimit = 30
)

const (
	topicsTable = "topics"

	fieldID           = "id"
	fieldKeyword      = "keyword"
	fieldDataSource   = "data_source"
	fieldArticleCount = "article_count"
	fieldTotal        = "total"
	fieldTotalPage    = "total_page"
	fieldPage         = "page"
	fieldRawCutWords  = "raw_cut_words"
	fieldReportJSON   = "report_json"
	fieldCreatedAt    = "created_at"
)

var topicColumns = []string{
	fieldID, fieldKeyword, fieldDataSource, fieldArticleCount, fieldTotal,
	fieldTotalPage, fieldPage, fieldRawCutWords, fieldReportJSON, fieldCreatedAt,
}

var schemas = map[string]string{
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword TEXT NOT NULL,
			data_source TEXT NOT NULL,
			article_count INTEGER NOT NULL DEFAULT 0,
			total INTEGER,
			total_page INTEGER,
			page INTEGER,
			raw_cut_words TEXT,
			report_json TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS topics (
			id BIGSERIAL PRIMARY KEY,
			keyword TEXT NOT NULL,
			data_source TEXT NOT NULL,
			article_count INTEGER NOT NULL DEFAULT 0,
			total INTEGER,
			total_page INTEGER,
			page INTEGER,
			raw_cut_words TEXT,
			report_json TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')
		)`,
}

// Storage 选题历史存储，支持 SQLite 与 PostgreSQL
type Storage struct {
	db      *stdsql.DB
	dialect string
	now     func() time.Time
}

// NewStorage 打开数据库并完成建表
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	driver, source := strings.ToLower(cfg.Driver), cfg.Source
	if driver == "" {
		driver = DriverSQLite
	}

	var sqlDialect string
	switch driver {
	case DriverSQLite, "sqlite3":
		driver, sqlDialect = DriverSQLite, dialect.SQLite
		if source == "" {
			source = DefaultSource
		}
		if err := ensureDir(source); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	case DriverPostgres:
		sqlDialect = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := stdsql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if driver == DriverSQLite {
		// 单写连接，:memory: 数据库也依赖同一连接
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	for _, stmt := range []string{
		schemas[driver],
		`CREATE INDEX IF NOT EXISTS idx_topics_created_at ON topics (created_at)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return &Storage{db: db, dialect: sqlDialect, now: time.Now}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Save 保存历史记录，回填 ID 与创建时间
func (s *Storage) Save(ctx context.Context, h *model.TopicHistory) (int64, error) {
	if strings.TrimSpace(h.Keyword) == "" {
		return 0, ErrKeywordRequired
	}
	report, err := json.Marshal(h.Report.Fill())
	if err != nil {
		return 0, fmt.Errorf("encode report: %w", err)
	}
	createdAt := s.now().UTC().Format(time.DateTime)

	insert := sql.Dialect(s.dialect).Insert(topicsTable).
		Columns(fieldKeyword, fieldDataSource, fieldArticleCount, fieldTotal, fieldTotalPage,
			fieldPage, fieldRawCutWords, fieldReportJSON, fieldCreatedAt).
		Values(h.Keyword, string(h.DataSource), h.ArticleCount, nullable(h.Total), nullable(h.TotalPage),
			nullable(h.Page), nullable(h.RawCutWords), string(report), createdAt)

	var id int64
	if s.dialect == dialect.Postgres {
		query, args := insert.Returning(fieldID).Query()
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert topic: %w", err)
		}
	} else {
		query, args := insert.Query()
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert topic: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("read topic id: %w", err)
		}
	}

	h.ID = id
	h.CreatedAt = createdAt
	return id, nil
}

// List 按创建时间倒序列出历史记录，limit <= 0 时取默认条数
func (s *Storage) List(ctx context.Context, limit int) ([]*model.TopicHistory, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	selector := s.selectTopics()
	selector.Limit(limit)

	query, args := selector.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	items := make([]*model.TopicHistory, 0, limit)
	for rows.Next() {
		h, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return items, nil
}

// Get 根据 id 获取历史记录，不存在时返回 ErrNotFound
func (s *Storage) Get(ctx context.Context, id int64) (*model.TopicHistory, error) {
	selector := s.selectTopics()
	selector.Where(sql.EQ(selector.C(fieldID), id))

	query, args := selector.Query()
	h, err := scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

// Delete 删除历史记录，id 不存在时不报错
func (s *Storage) Delete(ctx context.Context, id int64) error {
	query, args := sql.Dialect(s.dialect).Delete(topicsTable).
		Where(sql.EQ(fieldID, id)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete topic %d: %w", id, err)
	}
	return nil
}

// Prune 仅保留最近 keep 条记录，返回删除条数
func (s *Storage) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	t := sql.Dialect(s.dialect).Table(topicsTable)
	newest := sql.Dialect(s.dialect).Select(t.C(fieldID)).From(t)
	orderNewestFirst(newest)
	newest.Limit(keep)

	query, args := sql.Dialect(s.dialect).Delete(topicsTable).
		Where(sql.NotIn(fieldID, newest)).
		Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune topics: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Storage) selectTopics() *sql.Selector {
	t := sql.Dialect(s.dialect).Table(topicsTable)
	selector := sql.Dialect(s.dialect).Select(t.Columns(topicColumns...)...).From(t)
	orderNewestFirst(selector)
	return selector
}

// orderNewestFirst created_at 倒序，同一秒内按 id 倒序
func orderNewestFirst(s *sql.Selector) {
	sql.OrderByField(fieldCreatedAt, sql.OrderDesc()).ToFunc()(s)
	sql.OrderByField(fieldID, sql.OrderDesc()).ToFunc()(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*model.TopicHistory, error) {
	var (
		h                      model.TopicHistory
		source, reportJSON     string
		total, totalPage, page stdsql.NullInt64
		cutWords               stdsql.NullString
	)
	err := row.Scan(&h.ID, &h.Keyword, &source, &h.ArticleCount, &total, &totalPage, &page,
		&cutWords, &reportJSON, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan topic: %w", err)
	}

	h.DataSource = model.ParseDataSource(source)
	h.Total = nullInt(total)
	h.TotalPage = nullInt(totalPage)
	h.Page = nullInt(page)
	if cutWords.Valid {
		h.RawCutWords = &cutWords.String
	}

	report, err := DecodeReport(reportJSON)
	if err != nil {
		logger.Log.Warnf("历史记录 %d 的报告无法解析，按空报告处理: %v", h.ID, err)
	}
	h.Report = report
	return &h, nil
}

// DecodeReport 解析报告 JSON，失败时返回空报告
func DecodeReport(raw string) (model.Report, error) {
	var report model.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return model.EmptyReport(), err
	}
	return report.Fill(), nil
}

func ensureDir(source string) error {
	if source == ":memory:" || strings.HasPrefix(source, "file:") {
		return nil
	}
	dir := filepath.Dir(source)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(n stdsql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
