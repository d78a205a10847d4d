package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/lotkeeper/lotkeeper/internal/application"
	applicationdomain "github.com/lotkeeper/lotkeeper/internal/application/domain"
	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/history"
	historydomain "github.com/lotkeeper/lotkeeper/internal/history/domain"
	"github.com/lotkeeper/lotkeeper/internal/images"
	"github.com/lotkeeper/lotkeeper/internal/inquiry"
	inquirydomain "github.com/lotkeeper/lotkeeper/internal/inquiry/domain"
	"github.com/lotkeeper/lotkeeper/internal/inventory"
	inventorydomain "github.com/lotkeeper/lotkeeper/internal/inventory/domain"
	obsmiddleware "github.com/lotkeeper/lotkeeper/internal/observability/logger"
	obsmetrics "github.com/lotkeeper/lotkeeper/internal/observability/metrics"
	"github.com/lotkeeper/lotkeeper/internal/providers/drive"
	"github.com/lotkeeper/lotkeeper/internal/providers/email"
	"github.com/lotkeeper/lotkeeper/internal/providers/sheets"
	"github.com/lotkeeper/lotkeeper/internal/vehicle"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	email.Module,
	sheets.Module,
	drive.Module,
	images.Module,
	vehicle.Module,
	history.Module,
	inventory.Module,
	inquiry.Module,
	application.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           cfg.Environment != "production",
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
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
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	vehicleSvc     vehicledomain.Service
	historySvc     historydomain.Service
	inventorySvc   inventorydomain.Service
	inquirySvc     inquirydomain.Service
	applicationSvc applicationdomain.Service
	media          *images.Store
	drive          *drive.Client
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	VehicleSvc     vehicledomain.Service
	HistorySvc     historydomain.Service
	InventorySvc   inventorydomain.Service
	InquirySvc     inquirydomain.Service
	ApplicationSvc applicationdomain.Service
	Media          *images.Store `optional:"true"`
	Drive          *drive.Client `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		vehicleSvc:     p.VehicleSvc,
		historySvc:     p.HistorySvc,
		inventorySvc:   p.InventorySvc,
		inquirySvc:     p.InquirySvc,
		applicationSvc: p.ApplicationSvc,
		media:          p.Media,
		drive:          p.Drive,
	}

	svc.registerPublicRoutes()
	svc.registerVehicleRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	api.POST("/inquiries", s.CreateInquiry)
	api.POST("/applications", s.CreateApplication)
}

func (s *Server) registerVehicleRoutes() {
	api := s.engine.Group("/api")

	api.GET("/vehicles", s.ListVehicles)
	api.GET("/vehicles/search", s.SearchVehicles)
	api.GET("/vehicles/:slug", s.GetVehicleBySlug)
	api.GET("/vehicles/:slug/history", s.GetVehicleHistory)
	api.POST("/vehicles", s.CreateVehicle)
	api.PATCH("/vehicles/:id", s.UpdateVehicle)
	api.DELETE("/vehicles/:id", s.DeleteVehicle)
	api.PUT("/vehicles/:id/images", s.SetVehicleImages)
	api.POST("/vehicles/:id/photos", s.UploadVehiclePhoto)
	api.POST("/vehicles/:id/auto-populate-history", s.AutoPopulateHistory)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin")

	admin.POST("/sync", s.TriggerSync)
	admin.POST("/update-inventory-bulk", s.BulkReplaceInventory)
	admin.POST("/scan-drive-folder", s.ScanDriveFolder)

	admin.GET("/inquiries", s.ListInquiries)
	admin.PATCH("/inquiries/:id", s.UpdateInquiry)
	admin.GET("/applications", s.ListApplications)
	admin.PATCH("/applications/:id", s.UpdateApplication)
}
