package main

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/authgate/internal/auth"
	"github.com/yourusername/authgate/internal/config"
	"github.com/yourusername/authgate/internal/metrics"
	"github.com/yourusername/authgate/internal/middleware"
	"github.com/yourusername/authgate/internal/web"
)

type routerDeps struct {
	provider    auth.Provider
	metrics     *metrics.Metrics
	logger      *zap.Logger
	flashSecret []byte
}

// newRouter はミドルウェアとルーティングを組み立てた gin.Engine を返します。
func newRouter(cfg *config.Config, deps routerDeps) (*gin.Engine, error) {
	pages, err := web.NewPages(deps.logger)
	if err != nil {
		return nil, err
	}
	authManager := auth.NewManager(deps.provider, deps.metrics, deps.logger)

	router := gin.New()
	router.Use(middleware.Recovery(deps.logger), middleware.Logger(deps.logger))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Cookie"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.Use(auth.FlashSessions(deps.flashSecret, cfg.GinMode == gin.ReleaseMode))

	// セッション解決は全ルートの前に必ず一度だけ走らせる
	router.Use(authManager.ResolveSession())

	router.GET("/health", handleHealth)
	if deps.metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.metrics.Handler()))
	}

	router.GET("/", pages.Home)
	router.GET("/about", pages.About)

	router.GET("/session", authManager.RequireUser(), authManager.Session)

	router.GET(auth.PathSignUp, pages.SignUp)
	router.POST(auth.PathSignUp, authManager.SignUp)
	router.GET(auth.PathSignIn, pages.SignIn)
	router.POST(auth.PathSignIn, authManager.SignIn)
	router.POST("/signout", authManager.SignOut)

	// プロバイダー固有の API はそのまま中継する
	router.Any(strings.TrimRight(cfg.AuthBasePath, "/")+"/*path", authManager.Passthrough())

	return router, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "authgate-web",
	})
}
