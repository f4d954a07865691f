package main

import (
	"log"
	"os"
	"runtime"
	"time"

	"dungeon-art-studio/internal/config"
	"dungeon-art-studio/internal/gui"
	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/opencv"
	"dungeon-art-studio/internal/pipeline"
	"dungeon-art-studio/internal/processing/filters"
	"dungeon-art-studio/internal/processing/ops"
	"dungeon-art-studio/internal/shutdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Dungeon Art Studio"
	AppID      = "com.dungeonart.studio"
	AppVersion = "1.0.0"

	statsInterval = 30 * time.Second
)

type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  config.Config

	backend     filters.Operations
	coordinator *pipeline.Coordinator
	controller  *gui.Controller
	view        *gui.View
	shutdown    *shutdown.Manager
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	application := NewApplication(cfg)
	application.Run()

	log.Println("Application terminated successfully")
}

func newLogger(cfg config.Config) logger.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return logger.NewZerolog(os.Stderr, cfg.LogLevel)
	}
	return logger.NewConsoleLogger(cfg.LogLevel)
}

func newBackend(cfg config.Config) filters.Operations {
	if cfg.Backend == config.BackendOpenCV {
		return opencv.NewBackend()
	}
	return ops.NewImaging()
}

func NewApplication(cfg config.Config) *Application {
	appLogger := newLogger(cfg)
	for _, warning := range cfg.Warnings {
		appLogger.Warning("Config", warning, nil)
	}

	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(1000, 720))
	window.CenterOnScreen()

	backend := newBackend(cfg)
	coordinator := pipeline.NewCoordinator(backend, cfg.Options(), appLogger)

	controller := gui.NewController(coordinator, appLogger)
	view := gui.NewView(window)
	controller.SetView(view)
	view.SetController(controller)

	shutdownMgr := shutdown.NewManager(appLogger)
	shutdownMgr.Register("coordinator", coordinator)
	shutdownMgr.Register("controller", controller)

	application := &Application{
		fyneApp:     fyneApp,
		window:      window,
		logger:      appLogger,
		config:      cfg,
		backend:     backend,
		coordinator: coordinator,
		controller:  controller,
		view:        view,
		shutdown:    shutdownMgr,
	}
	application.setupWindowEvents()

	fields := cfg.Fields()
	fields["version"] = AppVersion
	fields["go_version"] = runtime.Version()
	fields["num_cpu"] = runtime.NumCPU()
	fields["backend_name"] = backend.Name()
	appLogger.Info("Application", "application initialized", fields)

	return application
}

func (a *Application) Run() {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	go a.startPerformanceMonitoring()

	a.view.Show()
	a.fyneApp.Run()

	a.shutdown.Shutdown()
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		a.view.ShowConfirm("Exit", "Quit Dungeon Art Studio?", func(confirmed bool) {
			if !confirmed {
				return
			}
			go func() {
				a.shutdown.Shutdown()
				fyne.Do(a.fyneApp.Quit)
			}()
		})
	})
}

func (a *Application) startPerformanceMonitoring() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logPerformanceMetrics()
		case <-a.shutdown.Done():
			return
		}
	}
}

func (a *Application) logPerformanceMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fields := a.coordinator.Stats().Fields()
	fields["go_memory_mb"] = memStats.Alloc / 1024 / 1024
	fields["go_gc_runs"] = memStats.NumGC
	fields["goroutine_count"] = runtime.NumGoroutine()

	if cv, ok := a.backend.(*opencv.Backend); ok {
		stats := cv.Stats()
		fields["opencv_mats_live"] = stats.Live()
		fields["opencv_mats_allocated"] = stats.Allocated
	}

	a.logger.Debug("Application", "performance metrics", fields)
	a.controller.RefreshStats()
}
