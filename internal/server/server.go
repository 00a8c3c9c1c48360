package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spendlens/spendlens/internal/analytics"
	analyticsdomain "github.com/spendlens/spendlens/internal/analytics/domain"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/invoice"
	invoicedomain "github.com/spendlens/spendlens/internal/invoice/domain"
	obslogger "github.com/spendlens/spendlens/internal/observability/logger"
	obsmetrics "github.com/spendlens/spendlens/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	invoice.Module,
	analytics.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	invoiceSvc   invoicedomain.Service
	analyticsSvc analyticsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	InvoiceSvc   invoicedomain.Service
	AnalyticsSvc analyticsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		invoiceSvc:   p.InvoiceSvc,
		analyticsSvc: p.AnalyticsSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Dashboard --------
	api.GET("/stats", s.GetStats)
	api.GET("/invoice-trends", s.GetInvoiceTrends)

	// -------- Rankings --------
	api.GET("/vendors/top", s.GetTopVendors)
	api.GET("/category-spend", s.GetCategorySpend)

	// -------- Forecast --------
	api.GET("/cash-outflow", s.GetCashOutflow)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
}
