package server

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/service"
)

const (
	OperationAnalysisSearchArticles = "/topic_radar.analysis.Analysis/SearchArticles"
	OperationAnalysisGenerateReport = "/topic_radar.analysis.Analysis/GenerateReport"
	OperationAnalysisListHistory    = "/topic_radar.analysis.Analysis/ListHistory"
	OperationAnalysisSaveHistory    = "/topic_radar.analysis.Analysis/SaveHistory"
	OperationAnalysisDeleteHistory  = "/topic_radar.analysis.Analysis/DeleteHistory"
	OperationAnalysisReplayHistory  = "/topic_radar.analysis.Analysis/ReplayHistory"
	OperationAnalysisExportHistory  = "/topic_radar.analysis.Analysis/ExportHistory"
)

// AnalysisHTTPServer 选题分析 HTTP 接口
type AnalysisHTTPServer interface {
	SearchArticles(context.Context, *service.SearchReq) (*service.ArticlesReply, error)
	GenerateReport(context.Context, *service.SearchReq) (*service.ReportReply, error)
	ListHistory(context.Context, *service.ListHistoryReq) (*service.ListHistoryReply, error)
	SaveHistory(context.Context, *service.SaveHistoryReq) (*service.HistoryChangeReply, error)
	DeleteHistory(context.Context, *service.HistoryIDReq) (*service.HistoryChangeReply, error)
	ReplayHistory(context.Context, *service.HistoryIDReq) (*service.HistoryReply, error)
	ExportHistory(context.Context, *service.ExportHistoryReq) (*service.ExportHistoryReply, error)
}

// RegisterAnalysisHTTPServer 注册选题分析路由
func RegisterAnalysisHTTPServer(s *http.Server, srv AnalysisHTTPServer) {
	r := s.Route("/")
	r.POST("/api/analysis/articles", _Analysis_SearchArticles0_HTTP_Handler(srv))
	r.POST("/api/analysis/report", _Analysis_GenerateReport0_HTTP_Handler(srv))
	r.GET("/api/analysis/history", _Analysis_ListHistory0_HTTP_Handler(srv))
	r.POST("/api/analysis/history", _Analysis_SaveHistory0_HTTP_Handler(srv))
	r.DELETE("/api/analysis/history", _Analysis_DeleteHistory0_HTTP_Handler(srv))
	r.GET("/api/analysis/history/{id}", _Analysis_ReplayHistory0_HTTP_Handler(srv))
	r.GET("/api/analysis/history/{id}/export", _Analysis_ExportHistory0_HTTP_Handler(srv))
}

func _Analysis_SearchArticles0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.SearchReq
		if err := ctx.Bind(&in); err != nil {
			return domain.ErrInvalidBody(err)
		}
		http.SetOperation(ctx, OperationAnalysisSearchArticles)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.SearchArticles(ctx, req.(*service.SearchReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.ArticlesReply)
		return ctx.Result(200, reply)
	}
}

func _Analysis_GenerateReport0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.SearchReq
		if err := ctx.Bind(&in); err != nil {
			return domain.ErrInvalidBody(err)
		}
		http.SetOperation(ctx, OperationAnalysisGenerateReport)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GenerateReport(ctx, req.(*service.SearchReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.ReportReply)
		return ctx.Result(200, reply)
	}
}

func _Analysis_ListHistory0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.ListHistoryReq
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAnalysisListHistory)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListHistory(ctx, req.(*service.ListHistoryReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.ListHistoryReply)
		return ctx.Result(200, reply)
	}
}

func _Analysis_SaveHistory0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.SaveHistoryReq
		if err := ctx.Bind(&in); err != nil {
			return domain.ErrInvalidBody(err)
		}
		http.SetOperation(ctx, OperationAnalysisSaveHistory)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.SaveHistory(ctx, req.(*service.SaveHistoryReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.HistoryChangeReply)
		return ctx.Result(201, reply)
	}
}

func _Analysis_DeleteHistory0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.HistoryIDReq
		if err := ctx.BindQuery(&in); err != nil {
			return domain.ErrInvalidID
		}
		http.SetOperation(ctx, OperationAnalysisDeleteHistory)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.DeleteHistory(ctx, req.(*service.HistoryIDReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.HistoryChangeReply)
		return ctx.Result(200, reply)
	}
}

func _Analysis_ReplayHistory0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.HistoryIDReq
		if err := ctx.BindVars(&in); err != nil {
			return domain.ErrInvalidID
		}
		http.SetOperation(ctx, OperationAnalysisReplayHistory)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ReplayHistory(ctx, req.(*service.HistoryIDReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.HistoryReply)
		return ctx.Result(200, reply)
	}
}

func _Analysis_ExportHistory0_HTTP_Handler(srv AnalysisHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.ExportHistoryReq
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		if err := ctx.BindVars(&in); err != nil {
			return domain.ErrInvalidID
		}
		http.SetOperation(ctx, OperationAnalysisExportHistory)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ExportHistory(ctx, req.(*service.ExportHistoryReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*service.ExportHistoryReply)
		ctx.Response().Header().Set("Content-Disposition", contentDisposition(reply.FileName))
		return ctx.Blob(nethttp.StatusOK, reply.ContentType, reply.Body)
	}
}

// contentDisposition 附件下载头，中文文件名使用 RFC 5987 编码
func contentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", asciiFallback(name), url.PathEscape(name))
}

func asciiFallback(name string) string {
	b := []byte(name)
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c < 0x20 || c >= 0x7f || c == '"' || c == '\\' {
			c = '_'
		}
		out = append(out, c)
	}
	return string(out)
}
