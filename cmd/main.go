package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/vnkhanh/forohub-backend/config"
	"github.com/vnkhanh/forohub-backend/controllers"
	"github.com/vnkhanh/forohub-backend/middleware"
	"github.com/vnkhanh/forohub-backend/routes"
	"github.com/vnkhanh/forohub-backend/services"
	"github.com/vnkhanh/forohub-backend/store"
	"github.com/vnkhanh/forohub-backend/utils"
	"github.com/vnkhanh/forohub-backend/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := config.InitDB(cfg.DB, logger)
	if err != nil {
		return err
	}

	revoker, closeRevoker, err := newRevoker(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeRevoker()

	hub := ws.NewHub(logger)
	tx := store.NewTxManager(db)
	users := store.NewUserStore(db)
	courses := store.NewCourseStore(db)
	topics := store.NewTopicStore(db)
	replies := store.NewReplyStore(db)
	jwtManager := utils.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authOpts := []services.Option{services.WithBcryptCost(cfg.BcryptCost)}
	if cfg.GoogleClientID != "" {
		authOpts = append(authOpts, services.WithGoogleVerifier(utils.GoogleVerifier{ClientID: cfg.GoogleClientID}))
	}
	mailer := &utils.Mailer{Host: cfg.SMTP.Host, Port: cfg.SMTP.Port, From: cfg.SMTP.Email, Password: cfg.SMTP.Password}
	if mailer.Enabled() {
		authOpts = append(authOpts, services.WithMailer(mailer))
	}

	authService := services.NewAuthService(logger, tx, users, jwtManager, revoker, authOpts...)
	topicService := services.NewTopicService(logger, tx, topics, courses, replies, services.WithNotifier(hub))
	replyService := services.NewReplyService(logger, tx, replies, topics, services.WithNotifier(hub))
	courseService := services.NewCourseService(logger, tx, courses)

	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(logger), middleware.RequestLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id", "Location"},
		AllowCredentials: true,
	}))

	routes.SetupRouter(r, routes.Handlers{
		Auth:    controllers.NewAuthController(authService),
		Topics:  controllers.NewTopicController(topicService),
		Replies: controllers.NewReplyController(replyService),
		Courses: controllers.NewCourseController(courseService),
		Health:  controllers.NewHealthController(db, hub),
		WS:      ws.NewHandler(hub, authService, cfg.CORSOrigins),
	}, authService)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ForoHub server is running")
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRevoker uses redis when configured and falls back to process memory.
func newRevoker(cfg config.RedisConfig, logger *slog.Logger) (utils.TokenRevoker, func(), error) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set, token revocation is kept in memory")
		revoker := utils.NewMemoryTokenRevoker()
		ctx, cancel := context.WithCancel(context.Background())
		utils.StartCleanupJob(ctx, revoker, time.Hour, logger)
		return revoker, cancel, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("redis connected", slog.String("addr", cfg.Addr))
	return utils.NewRedisTokenRevoker(client), func() { _ = client.Close() }, nil
}
