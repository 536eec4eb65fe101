// Package main は Web フロントエンドのエントリーポイントです。
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/authgate/internal/auth"
	"github.com/yourusername/authgate/internal/config"
	"github.com/yourusername/authgate/internal/logger"
	"github.com/yourusername/authgate/internal/metrics"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	m := metrics.New()
	provider, err := auth.NewHTTPProvider(cfg, m, logger)
	if err != nil {
		return err
	}

	flashSecret, err := resolveFlashSecret(cfg, logger)
	if err != nil {
		return err
	}

	router, err := newRouter(cfg, routerDeps{
		provider:    provider,
		metrics:     m,
		logger:      logger,
		flashSecret: flashSecret,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting web server",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.GinMode),
			zap.String("provider", cfg.ProviderURL),
		)
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

	logger.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// resolveFlashSecret はフラッシュ用クッキーの署名鍵を返します。
// 未設定の場合（開発時のみ許可）はプロセスごとの一時鍵を生成します。
func resolveFlashSecret(cfg *config.Config, logger *zap.Logger) ([]byte, error) {
	if cfg.FlashSecret != "" {
		return []byte(cfg.FlashSecret), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	logger.Warn("FLASH_SECRET is not set; using an ephemeral key")
	return buf, nil
}
