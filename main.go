package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockroom/condb"
	"stockroom/inventory"
	"stockroom/routes"
	"stockroom/utils"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		cfg, err := condb.Read()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		mintToken(cfg, os.Args[2:])
		return
	}

	cfg, err := condb.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := condb.NewStore(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", cfg.Backend), zap.Error(err))
	}
	defer st.Close()

	svc := inventory.NewService(st, logger, cfg.LowStockThreshold)
	app := routes.NewApp(svc, logger, routes.Options{
		AllowOrigins:   cfg.AllowOrigins,
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("inventory server listening",
		zap.String("port", cfg.Port),
		zap.String("backend", cfg.Backend),
		zap.Bool("write_guard", cfg.JWTSecret != ""))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}

// mintToken prints an operator token for the write guard:
//
//	stockroom token <operator>
func mintToken(cfg *condb.Config, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: stockroom token <operator>")
	}
	token, err := utils.GenerateJWTToken(cfg.JWTSecret, args[0], utils.TokenTTL)
	if err != nil {
		log.Fatalf("token: %v", err)
	}
	fmt.Println(token)
}
