package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"identity-service/internal/core/auth"
	"identity-service/internal/core/cache"
	"identity-service/internal/core/config"
	"identity-service/internal/core/database"
	"identity-service/internal/core/i18n"
	"identity-service/internal/core/logger"
	"identity-service/internal/core/mailer"
	"identity-service/internal/core/server"
	"identity-service/internal/repo"
	"identity-service/internal/service"
	"identity-service/internal/transport/http/router"
	"identity-service/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: cfg.App.Env == "local",
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	tr, err := i18n.NewBundle(cfg.I18n.DefaultLocale)
	if err != nil {
		log.Fatal("i18n bundle", zap.Error(err))
	}

	users := repo.NewUserRepo(db)
	hasher := utils.NewPasswordHasher(cfg.Security.BcryptCost)
	tokens := service.NewTokenService(
		auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL()),
		cfg.Token.ActivationBytes,
	)
	validator := service.NewValidator(users)
	authn := service.NewAuthentication(users, hasher, tokens, log)

	// redis 可选：未配置时直接查库
	var userCache cache.Store
	if cfg.Redis.Addr != "" {
		rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unavailable, user cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rc.Close()
		} else {
			userCache = rc
			defer rc.Close()
		}
		cancel()
	}

	r := router.NewAPIEngine(router.Deps{
		Log:          log,
		Translator:   tr,
		HTTP:         cfg.App.HTTP,
		Registration: service.NewRegistration(users, validator, tokens, hasher, newNotifier(cfg.Mail, log), log),
		Auth:         authn,
		Users:        service.NewUsers(users, validator, authn, userCache, cfg.Cache.UserTTL(), log),
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("identity api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+router.APIPrefix),
		zap.String("mail_driver", cfg.Mail.Driver),
		zap.Bool("user_cache", userCache != nil),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("identity api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("identity api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// newNotifier mail.driver=log 时只打日志，不连 SMTP
func newNotifier(m config.Mail, l *zap.Logger) service.Notifier {
	if m.Driver == "log" {
		return mailer.NewLog(m.ActivationURL, l)
	}
	return mailer.NewSMTP(mailer.Options{
		Host:               m.Host,
		Port:               m.Port,
		Username:           m.Username,
		Password:           m.Password,
		From:               m.From,
		InsecureSkipVerify: m.InsecureSkipVerify,
		ActivationURL:      m.ActivationURL,
	}, l)
}
