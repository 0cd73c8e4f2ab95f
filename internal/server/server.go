package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/propfolio/propfolio/internal/config"
	"github.com/propfolio/propfolio/internal/invoice"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	"github.com/propfolio/propfolio/internal/observability"
	obsmiddleware "github.com/propfolio/propfolio/internal/observability/logger"
	obsmetrics "github.com/propfolio/propfolio/internal/observability/metrics"
	obstracing "github.com/propfolio/propfolio/internal/observability/tracing"
	"github.com/propfolio/propfolio/internal/property"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	"github.com/propfolio/propfolio/internal/provider"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/providers/pdf"
	"github.com/propfolio/propfolio/internal/report"
	reportdomain "github.com/propfolio/propfolio/internal/report/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	property.Module,
	provider.Module,
	invoice.Module,
	report.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	propertySvc propertydomain.Service
	providerSvc providerdomain.Service
	invoiceSvc  invoicedomain.Service
	reportSvc   reportdomain.Service
	pdfProvider pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	PropertySvc propertydomain.Service
	ProviderSvc providerdomain.Service
	InvoiceSvc  invoicedomain.Service
	ReportSvc   reportdomain.Service
	PDFProvider pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		propertySvc: p.PropertySvc,
		providerSvc: p.ProviderSvc,
		invoiceSvc:  p.InvoiceSvc,
		reportSvc:   p.ReportSvc,
		pdfProvider: p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/properties", s.CreateProperty)
	api.GET("/properties", s.ListProperties)
	api.GET("/properties/:id", s.GetPropertyByID)
	api.PATCH("/properties/:id/status", s.UpdatePropertyStatus)

	api.POST("/providers", s.CreateProvider)
	api.GET("/providers", s.ListProviders)
	api.GET("/providers/:id", s.GetProviderByID)
	api.PATCH("/providers/:id/status", s.UpdateProviderStatus)
	api.PUT("/providers/:id/properties", s.AssignProviderProperties)

	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id/status", s.UpdateInvoiceStatus)
	api.GET("/invoices/:id/pdf", s.DownloadInvoicePDF)

	api.GET("/reports/properties", s.PropertyReport)
	api.GET("/reports/providers", s.ProviderReport)
	api.GET("/reports/combined", s.CombinedReport)
	api.GET("/reports/overview", s.OverviewReport)
	api.GET("/reports/export", s.ExportReportCSV)
}
