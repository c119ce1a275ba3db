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

	"github.com/gin-gonic/gin"

	_ "github.com/hamzaalmahdi/civitai/ddd/adapter/http"
	"github.com/hamzaalmahdi/civitai/ddd/application/app"
	"github.com/hamzaalmahdi/civitai/internal/resource"
	"github.com/hamzaalmahdi/civitai/pkg/config"
	"github.com/hamzaalmahdi/civitai/pkg/logger"
	"github.com/hamzaalmahdi/civitai/pkg/manager"
	"github.com/hamzaalmahdi/civitai/pkg/middleware"
	"github.com/hamzaalmahdi/civitai/pkg/redisclient"
	"github.com/hamzaalmahdi/civitai/pkg/repository"
	"github.com/hamzaalmahdi/civitai/pkg/scheduler"
	"github.com/hamzaalmahdi/civitai/pkg/sse"
)

// Run is the entrypoint of the notification service.
func Run() {
	fmt.Println("[STARTUP] Starting notification service...")

	cfgPath := resolveConfigPath()
	fmt.Println("[STARTUP] Loading config file...")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	fmt.Println("[STARTUP] Initializing logger...")
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	logger.Infof("Notification service starting version=%s", "1.0.0")

	// Initialize database connections and expose them via the internal
	// resource package. Reads go to the replica when one is configured.
	logger.Infof("Initializing database connections...")
	db, err := repository.NewDatabase(&cfg.Database, &cfg.ReadReplica)
	if err != nil {
		logger.Fatal(fmt.Sprintf("Failed to initialize database error=%v", err))
	}
	defer db.Close()
	resource.SetDB(db.Self, db.Read)
	if db.Read != db.Self {
		logger.Infof("Database connected primary=%s replica=%s", cfg.Database.Host, cfg.ReadReplica.Host)
	} else {
		logger.Infof("Database connected primary=%s (no replica, reads use primary)", cfg.Database.Host)
	}

	// Initialize Redis client (optional). If initialization fails we log it
	// and continue: counts fall back to the store and SSE stays local-only.
	logger.Infof("Initializing Redis client...")
	redisCli, err := redisclient.New(cfg.Redis)
	if err != nil {
		logger.Errorf("Failed to initialize redis; running without count cache, SSE local-only error=%v", err)
	} else {
		defer func() {
			logger.Infof("Closing Redis client...")
			_ = redisCli.Close()
		}()
		resource.SetRedis(redisCli.Raw())
		// Bridge in-memory SSE hub to Redis Pub/Sub for cross-instance fanout.
		sse.InitRedisPubSub(redisCli.Raw(), cfg.Notifications.SSEChannel)
	}

	// Create Gin engine and common middlewares.
	logger.Infof("Creating HTTP routes...")
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestContextMiddleware(),
		middleware.RequestLogMiddleware(),
	)

	// Health check endpoint.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "notification-service",
			"timestamp": time.Now().Unix(),
		})
	})

	// Register all controllers via the shared manager package; controllers
	// are wired from ddd/adapter/http via init() side effects.
	logger.Infof("Registering routes...")
	manager.RegisterAllRoutes(router)
	logger.Infof("Routes registered")

	// Start the fan-out worker that drains the pending queue.
	var sched *scheduler.Scheduler
	if cfg.Worker.Enabled {
		sched = scheduler.New()
		fanOutApp := app.DefaultFanOutApp()
		err := sched.AddJob("notification-fanout", cfg.Worker.Schedule, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			return fanOutApp.ProcessPending(ctx)
		})
		if err != nil {
			logger.Fatal(fmt.Sprintf("Failed to schedule fan-out worker error=%v", err))
		}
		sched.Start()
		logger.Infof("Fan-out worker started schedule=%q batch_size=%d", cfg.Worker.Schedule, cfg.Worker.BatchSize)
	} else {
		logger.Warnf("Fan-out worker disabled by config; pending notifications will not be delivered by this instance")
	}

	// Start HTTP server with graceful shutdown.
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("HTTP server starting port=%s service=%s", port, "notification-service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()

	logger.Infof("HTTP server started port=%s health_url=%s", port, fmt.Sprintf("http://localhost%s/health", port))

	// Wait for termination signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	if sched != nil {
		logger.Infof("Stopping fan-out worker...")
		sched.Stop()
	}

	logger.Infof("Server exited safely")

	if logService != nil {
		logger.Infof("Closing logger...")
		logService.Close()
	}
}

// resolveConfigPath determines which config file to use.
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if env := os.Getenv("CONFIG_ENV"); env != "" {
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
	return "configs/config.dev.yaml"
}
