package server

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/go-playground/assert/v2"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/conf"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/data"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/service"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/usecase"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/config"
	"github.com/iWorld-y/topic_radar/app/topic_radar/pkg/engine"
)

func newTestServer(t *testing.T) *http.Server {
	t.Helper()
	logger := log.DefaultLogger

	confData := &conf.Data{
		Database: &conf.Database{Driver: "sqlite", Source: ":memory:"},
		History:  &conf.History{Limit: 30},
	}
	d, cleanup, err := data.NewData(confData, logger)
	if err != nil {
		t.Fatalf("NewData() error = %v", err)
	}
	t.Cleanup(cleanup)

	eng, err := engine.NewEngine(config.Default())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	saver := usecase.NewAutoSaver()
	history := usecase.NewHistoryUseCase(confData, data.NewHistoryRepo(d, logger), saver, logger)
	analysis := usecase.NewAnalysisUseCase(eng, history, saver, logger)
	svc := service.NewAnalysisService(analysis, history, logger)
	return NewHTTPServer(&conf.Server{Http: &conf.HTTP{}}, svc, logger)
}

func do(srv *http.Server, method, target, body string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestSearchArticles(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "POST", "/api/analysis/articles", `{"kw":"人工智能","size":"3","page":2}`)
	assert.Equal(t, nethttp.StatusOK, w.Code)

	var reply struct {
		Data struct {
			Articles  []map[string]any `json:"articles"`
			Total     int              `json:"total"`
			TotalPage int              `json:"totalPage"`
			Page      int              `json:"page"`
		} `json:"data"`
		Meta struct {
			Source string `json:"source"`
		} `json:"meta"`
	}
	decode(t, w, &reply)
	assert.Equal(t, 3, len(reply.Data.Articles))
	assert.Equal(t, 7, reply.Data.Total)
	assert.Equal(t, 3, reply.Data.TotalPage)
	assert.Equal(t, 2, reply.Data.Page)
	assert.Equal(t, "mock", reply.Meta.Source)
}

func TestSearchArticles_Validation(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "POST", "/api/analysis/articles", `{"keyword":"   "}`)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	var e errorBody
	decode(t, w, &e)
	assert.Equal(t, "KEYWORD_REQUIRED", e.Reason)

	w = do(srv, "POST", "/api/analysis/articles", `{`)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	decode(t, w, &e)
	assert.Equal(t, "INVALID_BODY", e.Reason)
}

func TestSearchArticles_UnavailableSource(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "POST", "/api/analysis/articles", `{"keyword":"人工智能","source":"remote"}`)
	assert.Equal(t, nethttp.StatusServiceUnavailable, w.Code)
	var e errorBody
	decode(t, w, &e)
	assert.Equal(t, engine.ReasonSourceUnavailable, e.Reason)
}

func TestReportAndHistoryLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// 生成报告并自动保存
	w := do(srv, "POST", "/api/analysis/report", `{"keyword":"人工智能","size":5,"autoSave":true}`)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	var report struct {
		Data struct {
			Keyword    string           `json:"keyword"`
			DataSource string           `json:"dataSource"`
			Articles   []map[string]any `json:"articles"`
			TopLiked   []map[string]any `json:"topLiked"`
			Insights   []map[string]any `json:"insights"`
		} `json:"data"`
		Saved *struct {
			ID int64 `json:"id"`
		} `json:"saved"`
		SaveSkipped string `json:"saveSkipped"`
	}
	decode(t, w, &report)
	assert.Equal(t, "", report.SaveSkipped)
	assert.Equal(t, "人工智能", report.Data.Keyword)
	assert.Equal(t, "mock", report.Data.DataSource)
	assert.Equal(t, 5, len(report.Data.Articles))
	assert.NotEqual(t, 0, len(report.Data.Insights))
	if report.Saved == nil {
		t.Fatal("report should be auto-saved")
	}
	id := report.Saved.ID

	// 手动保存
	w = do(srv, "POST", "/api/analysis/history", `{"keyword":"大模型","dataSource":"remote","total":"bad","page":1,"articles":[{"id":"x","title":"大模型"}]}`)
	assert.Equal(t, nethttp.StatusCreated, w.Code)
	var saved struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
		History []struct {
			ID           int64  `json:"id"`
			Keyword      string `json:"keyword"`
			DataSource   string `json:"dataSource"`
			ArticleCount int    `json:"articleCount"`
			Total        *int   `json:"total"`
			Page         *int   `json:"page"`
		} `json:"history"`
	}
	decode(t, w, &saved)
	assert.Equal(t, 2, len(saved.History))
	assert.Equal(t, saved.Data.ID, saved.History[0].ID)
	assert.Equal(t, "remote", saved.History[0].DataSource)
	assert.Equal(t, 1, saved.History[0].ArticleCount)
	assert.Equal(t, true, saved.History[0].Total == nil)
	assert.Equal(t, 1, *saved.History[0].Page)

	w = do(srv, "POST", "/api/analysis/history", `{"keyword":""}`)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	// 列表
	w = do(srv, "GET", "/api/analysis/history?limit=1", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, w, &list)
	assert.Equal(t, 1, len(list.Data))

	// 回放
	w = do(srv, "GET", "/api/analysis/history/"+itoa(id), "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	var replay struct {
		Data struct {
			Keyword string `json:"keyword"`
			Report  struct {
				Articles []map[string]any `json:"articles"`
			} `json:"report"`
		} `json:"data"`
	}
	decode(t, w, &replay)
	assert.Equal(t, "人工智能", replay.Data.Keyword)
	assert.Equal(t, 5, len(replay.Data.Report.Articles))

	w = do(srv, "GET", "/api/analysis/history/999", "")
	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	// 导出
	w = do(srv, "GET", "/api/analysis/history/"+itoa(id)+"/export?format=markdown", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, true, strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown"))
	assert.Equal(t, true, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment; filename="))
	assert.Equal(t, true, strings.Contains(w.Body.String(), "# 选题分析报告：人工智能"))

	w = do(srv, "GET", "/api/analysis/history/"+itoa(id)+"/export?format=pdf", "")
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	// 删除
	w = do(srv, "DELETE", "/api/analysis/history?id=abc", "")
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	var e errorBody
	decode(t, w, &e)
	assert.Equal(t, "INVALID_ID", e.Reason)

	w = do(srv, "DELETE", "/api/analysis/history?id="+itoa(id), "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	decode(t, w, &saved)
	assert.Equal(t, id, saved.Data.ID)
	assert.Equal(t, 1, len(saved.History))
}

func TestSaveHistory_LenientBody(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "POST", "/api/analysis/history", `{"keyword":"人工智能","dataSource":5,"articles":"oops","topLiked":{"id":"x"},"insights":null}`)
	assert.Equal(t, nethttp.StatusCreated, w.Code)
	var saved struct {
		History []struct {
			DataSource   string `json:"dataSource"`
			ArticleCount int    `json:"articleCount"`
			Report       struct {
				Articles []map[string]any `json:"articles"`
				TopLiked []map[string]any `json:"topLiked"`
				Insights []map[string]any `json:"insights"`
			} `json:"report"`
		} `json:"history"`
	}
	decode(t, w, &saved)
	assert.Equal(t, 1, len(saved.History))
	h := saved.History[0]
	assert.Equal(t, "mock", h.DataSource)
	assert.Equal(t, 0, h.ArticleCount)
	assert.Equal(t, true, h.Report.Articles != nil && len(h.Report.Articles) == 0)
	assert.Equal(t, true, h.Report.TopLiked != nil && len(h.Report.TopLiked) == 0)
	assert.Equal(t, true, h.Report.Insights != nil && len(h.Report.Insights) == 0)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "GET", "/healthz", "")
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`, w.Body.String())
}

func TestContentDisposition(t *testing.T) {
	got := contentDisposition("insight-report-人工智能-1.json")
	assert.Equal(t, true, strings.Contains(got, `filename="insight-report-____________-1.json"`))
	assert.Equal(t, true, strings.Contains(got, "filename*=UTF-8''insight-report-%E4%BA%BA"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
