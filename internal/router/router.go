package router

import (
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/config"
	"github.com/SamBLC92/tamponi-inventario/internal/handler"
	"github.com/SamBLC92/tamponi-inventario/internal/infra"
	"github.com/SamBLC92/tamponi-inventario/internal/middleware"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"
	"github.com/SamBLC92/tamponi-inventario/internal/service"
	"github.com/SamBLC92/tamponi-inventario/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// worker handlers for the async job pool.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.WorkerHandlers) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	renderer := infra.NewCode128Renderer()
	sheets := infra.NewLabelSheetBuilder()

	// ── Repositories ─────────────────────────────────────────────────────────
	swabRepo := repository.NewSwabRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	stateRepo := repository.NewStateRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	settingsSvc := service.NewSettingsService(settingsRepo)
	usageSvc := service.NewUsageService(usageRepo)
	labelSvc := service.NewLabelService(swabRepo, settingsSvc, renderer, cfg.LabelsDir)
	scanSvc := service.NewScanService(swabRepo, machineRepo, stateRepo, movementRepo,
		usageSvc, settingsSvc, dispatcher, cfg.AlertEmail)
	swabSvc := service.NewSwabService(swabRepo, stateRepo, settingsSvc, labelSvc, dispatcher)
	machineSvc := service.NewMachineService(machineRepo)
	movementSvc := service.NewMovementService(movementRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	scanH := handler.NewScanHandler(scanSvc)
	swabsH := handler.NewSwabHandler(swabSvc)
	machinesH := handler.NewMachineHandler(machineSvc, rdb)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	historyH := handler.NewHistoryHandler(movementSvc)
	labelsH := handler.NewLabelHandler(labelSvc, swabSvc, sheets)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/scan", scanH.Scan)

		v1.GET("/swabs", swabsH.List)
		v1.POST("/swabs", swabsH.Create)
		v1.PUT("/swabs/:id", swabsH.Update)
		v1.DELETE("/swabs/:id", swabsH.Delete)

		v1.GET("/machines", machinesH.List)
		v1.POST("/machines", machinesH.Create)
		v1.DELETE("/machines/:id", machinesH.Delete)

		v1.GET("/movements", historyH.List)

		v1.GET("/settings", settingsH.Get)
		v1.PUT("/settings", settingsH.Update)

		v1.GET("/labels/print", labelsH.PrintSheet)
		v1.GET("/labels/:sku", labelsH.PNG)
	}

	// Swagger UI only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := &worker.WorkerHandlers{
		Labels: worker.NewLabelWorker(labelSvc),
		Alerts: worker.NewAlertWorker(mailer),
	}
	return r, handlers
}
