package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/api/handler"
	"github.com/joseggch15/inboundoutbound-sub000/internal/api/router"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/database"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/logger"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 1. configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. database
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}

	// 4. migrations
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("unwrap sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	// 5. redis (optional: without it logout blacklisting is disabled)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, log)
		if err != nil {
			log.Warn("redis unavailable, logout blacklist disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// 6. wiring
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, log)
	h := handler.New(svc, log)

	// 7. first-run admin account
	if err := svc.Auth.EnsureBootstrapAccount(context.Background()); err != nil {
		log.Fatal("bootstrap admin account", zap.Error(err))
	}

	// 8. HTTP server
	engine := router.New(cfg, h, jwtMgr, rdb, log)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	// 9. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
	log.Info("server stopped")
}
