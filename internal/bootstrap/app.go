package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/handler"
	"github.com/locvowork/trial_report/internal/janitor"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Echo    *echo.Echo
	Env     *config.EnvConfig
	Report  *config.ReportConfig
	janitor *janitor.Janitor
}

func NewApp(env *config.EnvConfig) *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo: e,
		Env:  env,
	}
}

// DownloadPrefix is the part of a download link that precedes the file name.
func DownloadPrefix(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/download?link="
}

func (a *App) Initialize(ctx context.Context) error {
	logger.InitLogging(logger.Options{FilePath: a.Env.LOG_FILE_PATH})
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	reportCfg, err := config.LoadReportConfig(a.Env.REPORT_CONFIG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load report config: %w", err)
	}
	a.Report = reportCfg
	logger.InfoLog(ctx, "Report config loaded from %s", a.Env.REPORT_CONFIG_PATH)

	if err := os.MkdirAll(a.Env.UPLOAD_FOLDER, 0o755); err != nil {
		return fmt.Errorf("failed to create upload folder: %w", err)
	}

	// Initialize dependencies
	reportSvc := service.NewReportService(reportCfg, a.Env.UPLOAD_FOLDER, DownloadPrefix(a.Env.BASE_URL))
	reportHandler := handler.NewReportHandler(reportSvc)
	a.janitor = janitor.New(a.Env.FILE_MAX_LIFETIME, a.Env.CLEAN_INTERVAL, a.Env.UPLOAD_FOLDER)

	a.RegisterMiddlewares()
	a.RegisterRoutes(reportHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	if a.Env.REQUEST_TIMEOUT > 0 {
		a.Echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: a.Env.REQUEST_TIMEOUT,
		}))
	}
}

func (a *App) RegisterRoutes(h *handler.ReportHandler) {
	a.Echo.GET("/", h.IndexHandler)
	a.Echo.GET("/healthz", h.HealthHandler)

	a.Echo.GET("/merge-files", h.MergePageHandler)
	a.Echo.POST("/merge-files", h.MergeFilesHandler)
	a.Echo.GET("/format-file", h.FormatPageHandler)
	a.Echo.POST("/format-file", h.FormatFileHandler)
	a.Echo.GET("/download", h.DownloadHandler)
}

// Run serves HTTP and runs the janitor until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go a.janitor.Run(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(":" + a.Env.APP_PORT)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.InfoLog(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	}
}
