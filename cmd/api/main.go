package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-seat-reservation/internal/api"
	"github.com/sanosuguru/go-train-seat-reservation/internal/api/handler"
	apimw "github.com/sanosuguru/go-train-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-train-seat-reservation/internal/application"
	"github.com/sanosuguru/go-train-seat-reservation/internal/config"
	"github.com/sanosuguru/go-train-seat-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-train-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-train-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-train-seat-reservation/internal/worker"
)

func main() {
	// .env があれば読み込む（ローカル開発用）
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	// メトリクス初期化
	m := metrics.Init()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, cfg.Booking.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続（空席数キャッシュ用、接続できなければキャッシュなしで起動）
	var cache application.AvailabilityCache
	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		logger.Warn("Redis接続に失敗、キャッシュなしで起動します", zap.Error(err))
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient)
		defer redisClient.Close()
	}

	// リポジトリとサービスの初期化
	bookingRepo := postgres.NewBookingRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	stationRepo := postgres.NewStationRepository(db)
	txManager := postgres.NewTxManager(db)
	lockManager := postgres.NewLockManager(m)

	bookingService := application.NewBookingService(
		txManager, bookingRepo, seatRepo, stationRepo, lockManager, cache, m, cfg.Booking.QueryTimeout)
	availabilityService := application.NewAvailabilityService(
		seatRepo, stationRepo, cache, cfg.Booking.QueryTimeout)
	stationService := application.NewStationService(stationRepo)

	bookingHandler := handler.NewBookingHandler(bookingService)
	seatHandler := handler.NewSeatHandler(availabilityService)
	stationHandler := handler.NewStationHandler(stationService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimw.SetupMiddleware(e)
	e.Use(apimw.PrometheusMiddleware(m))

	// ルーティング
	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.GET("/stations", stationHandler.List)
	v1.GET("/stations/:id", stationHandler.GetByID)
	v1.GET("/seats/availability", seatHandler.ListAvailability)
	v1.GET("/seats/availability/count", seatHandler.CountAvailable)
	v1.GET("/seats/:id/availability", seatHandler.CheckSeat)

	bookings := v1.Group("/bookings", apimw.JWTAuth(cfg.Auth.JWTSecret))
	bookings.POST("", bookingHandler.Create)
	bookings.POST("/batch", bookingHandler.CreateBatch)
	bookings.POST("/:id/cancel", bookingHandler.Cancel)
	bookings.GET("", bookingHandler.GetUserBookings)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimw.MetricsBasicAuth())

	// 予約統計ワーカー起動
	workerCtx, workerCancel := context.WithCancel(context.Background())
	statsCollector := worker.NewBookingStatsCollector(bookingService, m, cfg.Booking.StatsInterval)
	go statsCollector.Start(workerCtx)

	// サーバー起動
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
