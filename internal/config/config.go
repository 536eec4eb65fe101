// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port            string        `env:"PORT" envDefault:"3000"`             // Webサーバーのポート番号
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`        // Ginの実行モード (debug, release, test)
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"` // グレースフルシャットダウンの猶予

	// 認証プロバイダー設定
	ProviderURL     string        `env:"AUTH_PROVIDER_URL" envDefault:"http://localhost:3001"` // 認証プロバイダーのベースURL
	ProviderTimeout time.Duration `env:"AUTH_PROVIDER_TIMEOUT" envDefault:"5s"`                // サーバー間通信のタイムアウト
	AuthBasePath    string        `env:"AUTH_BASE_PATH" envDefault:"/api/auth"`                // プロバイダーAPIのマウント先

	// CORS設定
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"` // CORS許可オリジン（カンマ区切り）

	// フラッシュ用クッキーの署名鍵
	FlashSecret string `env:"FLASH_SECRET"`

	// ログ設定
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"json"`
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env.local ファイルを読み込む（存在しない場合はスキップ）
	loadEnvFile()

	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.ProviderURL == "" {
		return errors.New("AUTH_PROVIDER_URL is required")
	}
	u, err := url.Parse(c.ProviderURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("AUTH_PROVIDER_URL is invalid: %q", c.ProviderURL)
	}
	if c.ProviderTimeout <= 0 {
		return errors.New("AUTH_PROVIDER_TIMEOUT must be positive")
	}
	if !strings.HasPrefix(c.AuthBasePath, "/") || strings.TrimRight(c.AuthBasePath, "/") == "" {
		return fmt.Errorf("AUTH_BASE_PATH must be an absolute path below '/': %q", c.AuthBasePath)
	}
	if len(c.AllowedOrigins()) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	// ローカル開発では署名鍵は任意（起動時に一時鍵を使う）
	if c.GinMode == "release" && c.FlashSecret == "" {
		return errors.New("FLASH_SECRET is required in release mode")
	}

	return nil
}

// AllowedOrigins は CORS 許可オリジンを配列で返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
