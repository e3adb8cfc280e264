package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"placementcell/internal/app"
	"placementcell/internal/config"
	apphttp "placementcell/internal/http"
	"placementcell/internal/http/handlers"
	"placementcell/internal/http/metrics"
	httpmw "placementcell/internal/http/middleware"
	"placementcell/internal/http/response"
	"placementcell/internal/integration/gemini"
	"placementcell/internal/integration/listmonk"
	"placementcell/internal/observability"
	"placementcell/internal/repository"
	"placementcell/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	serviceLogger := observability.NewServiceLogger(logger)

	startCtx, startCancel := context.WithTimeout(context.Background(), 45*time.Second)
	repos, err := repository.Open(startCtx, cfg, logger)
	if err != nil {
		startCancel()
		log.Fatal(err)
	}
	defer repos.Close(context.Background())

	limiter := newLimiter(startCtx, cfg.RedisURL, logger)
	startCancel()

	var mailer app.Mailer = listmonk.NewLogMailer(logger)
	if cfg.ListmonkBaseURL != "" {
		mailer = listmonk.NewClient(cfg.ListmonkBaseURL, cfg.ListmonkUsername, cfg.ListmonkToken, cfg.ListmonkTemplateID, &http.Client{Timeout: 10 * time.Second})
	}
	var drafter app.Drafter
	if cfg.GeminiAPIKey != "" {
		geminiDrafter, err := gemini.NewDrafter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("gemini drafter disabled", slog.String("error", err.Error()))
		} else {
			defer geminiDrafter.Close()
			drafter = geminiDrafter
		}
	}

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	admin := app.AdminCredentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword}

	studentService := app.NewStudentService(repos.Students, serviceLogger)
	companyService := app.NewCompanyService(repos.Companies, serviceLogger)
	notificationService := app.NewNotificationService(repos.Students, mailer, drafter, serviceLogger)
	driveService := app.NewDriveService(repos.Drives, repos.Companies, repos.Students, notificationService, serviceLogger)
	applicationService := app.NewApplicationService(repos.Applications, repos.Drives, repos.Companies, repos.Students, cfg.StrictRoundTransitions, serviceLogger)
	noticeService := app.NewNoticeService(repos.Notices, repos.Events, serviceLogger)
	authService := app.NewAuthService(repos.Students, repos.Companies, jwtProvider, admin, cfg.AccessTokenTTL, serviceLogger)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService, studentService, companyService, limiter, cfg.LoginRatePerMin),
		StudentHandler:      handlers.NewStudentHandler(studentService, driveService),
		CompanyHandler:      handlers.NewCompanyHandler(companyService),
		DriveHandler:        handlers.NewDriveHandler(driveService),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, limiter, cfg.ApplyRatePerMin),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
		NoticeHandler:       handlers.NewNoticeHandler(noticeService),
		AuthMiddleware:      httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:             collector,
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started", slog.String("addr", server.Addr), slog.String("db_driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
}

// newLimiter returns a Redis-backed limiter when REDIS_URL is reachable.
func newLimiter(ctx context.Context, redisURL string, logger *slog.Logger) httpmw.Limiter {
	if redisURL == "" {
		return httpmw.NewRateLimiter()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error("invalid REDIS_URL, using in-process limiter", slog.String("error", err.Error()))
		return httpmw.NewRateLimiter()
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis unavailable, using in-process limiter", slog.String("error", err.Error()))
		_ = client.Close()
		return httpmw.NewRateLimiter()
	}
	return httpmw.NewRedisLimiter(client)
}
