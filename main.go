package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy/config"
	"academy/database"
	"academy/docs"
	"academy/handlers/admin"
	"academy/handlers/teams"
	"academy/middleware"
	"academy/realtime"
	v1 "academy/routes/v1"
	"academy/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title IBP Academy API
// @version 1.0
// @description Stage progress of the teams of the IBP Academy competition
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	config.Init()
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	rdb := database.InitRedis(ctx)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.WithError(err).Warn("redis close error")
			}
		}()
	}

	store := database.NewStore(database.DB)
	snapshots := services.NewCachedSource(store, rdb, config.SnapshotCacheTTL)
	hub := realtime.NewHub()
	notifier := buildNotifier()

	teamService := services.NewTeamService(store)
	dashboardService := services.NewDashboardService(snapshots, services.NewDismissalStore(rdb, config.DismissalTTL), nil)
	submissionService := services.NewSubmissionService(store, snapshots, hub, nil)
	reviewService := services.NewReviewService(store, snapshots, hub, notifier, nil)
	exportService := services.NewExportService(store)

	go hub.Run(ctx)
	middleware.UpdateSystemMetrics(ctx, config.SystemMetricsInterval)
	if config.ReminderJobEnabled {
		reminders := services.NewReminderService(store, notifier, services.NewDeduper(rdb), nil)
		services.StartDeadlineReminderJob(ctx, reminders, config.ReminderJobInterval, config.ReminderJobTimeout)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	err := v1.Register(ctx, r, v1.Handlers{
		Teams: &teams.Handler{
			Catalog:     teamService,
			Dashboards:  dashboardService,
			Submissions: submissionService,
			Hub:         hub,
		},
		Admin: &admin.Handler{
			Teams:   teamService,
			Reviews: reviewService,
			Exports: exportService,
		},
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to register routes")
	}

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.Infof("academy api listening on %s", config.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown error")
	}
	logrus.Info("academy api stopped")
}

func setupLogging() {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if config.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// buildNotifier fans review and reminder messages out to every configured channel
func buildNotifier() services.Notifier {
	var channels []services.Channel

	if email := services.NewEmailService(); email.Configured() {
		channels = append(channels, services.Channel{Name: "email", Notifier: email})
	}

	if config.TelegramToken != "" {
		bot, err := services.NewTelegramBot(config.TelegramToken)
		if err != nil {
			logrus.WithError(err).Error("telegram bot disabled")
		} else {
			channels = append(channels, services.Channel{Name: "telegram", Notifier: services.NewTelegramNotifier(bot, config.TelegramChatID)})
		}
	}

	if len(channels) == 0 {
		logrus.Warn("no notification channel configured")
		return services.NoopNotifier{}
	}
	return services.NewMultiNotifier(channels...)
}
