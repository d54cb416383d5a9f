package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flymedia_backend/database"
	"flymedia_backend/internal/config"
	"flymedia_backend/internal/events"
	"flymedia_backend/internal/handlers"
	"flymedia_backend/internal/localstore"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/middleware"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/routes"
	"flymedia_backend/internal/services"
	"flymedia_backend/internal/storage"
	"flymedia_backend/internal/validator"
	"flymedia_backend/internal/workers"
	"flymedia_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App owns every long-lived resource of the server.
type App struct {
	Config    *config.Config
	Services  *services.ServiceContainer
	Bus       *events.Bus
	WSManager *ws.WebSocketManager
	Router    *gin.Engine

	FileIndexWorker *workers.FileIndexWorker

	localStore *localstore.Store
	gormDB     *gorm.DB
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}
	defer a.Close()

	go a.WSManager.Run(ctx)
	a.FileIndexWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server startup error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// New opens the stores selected by cfg and wires services, handlers and the
// router. The caller starts WSManager and FileIndexWorker, then calls Close.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Bus: events.NewBus()}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	a.localStore, err = localstore.Open(cfg.Local.Path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	logger.Info("Local store opened", "path", cfg.Local.Path)

	notificationRepo, err := a.notificationRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Services = initializeServices(cfg, a.Bus, a.localStore, notificationRepo, storageInstance)
	a.FileIndexWorker = workers.NewFileIndexWorker(
		storageInstance,
		repositories.NewFileRepository(a.localStore.DB()),
		a.Bus,
		time.Duration(cfg.Upload.ReindexMinutes)*time.Minute,
	)
	appHandlers := initializeHandlers(cfg, a.Services)

	a.WSManager = ws.NewWebSocketManager(a.Bus)
	wsHandler := ws.NewWebSocketHandler(a.WSManager)

	a.Router = SetupRouter(cfg, appHandlers, wsHandler)
	return a, nil
}

func (a *App) notificationRepository(ctx context.Context) (repositories.NotificationRepository, error) {
	backend := a.Config.Notifications.Backend
	logger.Info("Notification backend selected", "backend", backend)

	switch backend {
	case config.NotificationBackendDatabase:
		db, err := database.ConnectGorm(ctx, a.Config.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			database.Close(db)
			return nil, err
		}
		a.gormDB = db
		return repositories.NewGormNotificationRepository(db), nil
	case config.NotificationBackendLocal:
		return repositories.NewLocalNotificationRepository(a.localStore), nil
	default:
		return repositories.NewFileNotificationRepository(a.Config.Notifications.FilePath), nil
	}
}

func (a *App) Close() {
	if a.gormDB != nil {
		if err := database.Close(a.gormDB); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
		a.gormDB = nil
	}
	if a.localStore != nil {
		if err := a.localStore.Close(); err != nil {
			logger.Error("Failed to close local store", "error", err)
		}
		a.localStore = nil
	}
}

func initializeServices(
	cfg *config.Config,
	bus *events.Bus,
	store *localstore.Store,
	notificationRepo repositories.NotificationRepository,
	storageInstance storage.Storage,
) *services.ServiceContainer {
	taskRepo := repositories.NewTaskRepository(store)
	fileRepo := repositories.NewFileRepository(store.DB())

	notificationService := services.NewNotificationService(notificationRepo, bus)
	activityService := services.NewActivityService(repositories.NewActivityRepository(store), bus)

	return &services.ServiceContainer{
		NotificationService: notificationService,
		TaskService:         services.NewTaskService(taskRepo, bus, cfg.Tasks.SeedDefaults),
		UploadService:       services.NewUploadService(storageInstance, fileRepo, bus, cfg.Upload.MaxSize),
		AnalyticsService:    services.NewAnalyticsService(fileRepo),
		ProfileService: services.NewProfileService(
			repositories.NewProfileRepository(store), notificationService, activityService, bus,
		),
		ActivityService: activityService,
	}
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		HealthHandler:       handlers.NewHealthHandler(),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		TaskHandler:         handlers.NewTaskHandler(baseHandler, svc.TaskService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, svc.UploadService, cfg.Upload.MaxSize),
		AnalyticsHandler:    handlers.NewAnalyticsHandler(baseHandler, svc.AnalyticsService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, svc.ProfileService, svc.ActivityService),
	}
}

func SetupRouter(cfg *config.Config, appHandlers *handlers.AppHandlers, wsHandler *ws.WebSocketHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.MaxMultipartMemory = 8 << 20

	routes.RegisterRoutes(router, appHandlers, wsHandler)
	return router
}
