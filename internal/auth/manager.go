// Package auth は外部認証プロバイダーを前提としたセッション認証ゲートウェイです。
//
// リクエストごとのセッション解決、サインアップ/サインインの中継、
// セッションに依存するエンドポイントを提供します。
package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/authgate/internal/metrics"
)

// 画面のパス
const (
	PathHome   = "/"
	PathSignUp = "/signup"
	PathSignIn = "/signin"
)

const (
	contextUserKey    = "auth.user"
	contextSessionKey = "auth.session"
)

// ユーザーに表示するメッセージ
const (
	msgSignInFailed   = "Invalid email or password"
	msgSignUpFailed   = "Sign up failed"
	msgSignUpComplete = "Account created, please sign in"
	msgUnavailable    = "Authentication service is unavailable"
)

// Manager はセッション解決と資格情報の中継をまとめた構造体です。
type Manager struct {
	provider Provider
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewManager は認証マネージャーを作成します。metrics と logger は nil でも構いません。
func NewManager(provider Provider, m *metrics.Metrics, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// SignUp は POST /signup のハンドラーです。
// 検証に通った場合だけプロバイダーへ中継し、結果に応じてリダイレクトします。
func (m *Manager) SignUp(c *gin.Context) {
	payload, err := bindSignUp(c)
	if err != nil {
		m.metrics.ObserveRelay(opSignUp, metrics.OutcomeRejected)
		redirectWithMessage(c, PathSignUp, "error", err.Error())
		return
	}

	resp, err := m.provider.SignUpEmail(c.Request.Context(), *payload)
	if err != nil {
		m.relayFailed(c, opSignUp, PathSignUp, msgUnavailable, err)
		return
	}
	if !resp.OK() {
		rejection := newRejection(opSignUp, resp)
		message := rejection.Message
		if message == "" {
			message = msgSignUpFailed
		}
		m.relayFailed(c, opSignUp, PathSignUp, message, rejection)
		return
	}

	if err := rememberEmail(c, payload.Email); err != nil {
		// プリフィルは補助機能なのでリダイレクトは続ける
		m.logger.Warn("sign-up email flash was not stored", zap.Error(err))
	}
	m.metrics.ObserveRelay(opSignUp, metrics.OutcomeSucceeded)
	redirectWithMessage(c, PathSignIn, "success", msgSignUpComplete)
}

// SignIn は POST /signin のハンドラーです。
// 成功時はプロバイダーの Set-Cookie を順序どおりにすべて追加してからホームへリダイレクトします。
func (m *Manager) SignIn(c *gin.Context) {
	payload, err := bindSignIn(c)
	if err != nil {
		m.metrics.ObserveRelay(opSignIn, metrics.OutcomeRejected)
		redirectWithMessage(c, PathSignIn, "error", err.Error())
		return
	}

	resp, err := m.provider.SignInEmail(c.Request.Context(), *payload, c.Request.Header)
	if err != nil {
		m.relayFailed(c, opSignIn, PathSignIn, msgUnavailable, err)
		return
	}
	if !resp.OK() {
		// プロバイダーの詳細は返さない
		m.relayFailed(c, opSignIn, PathSignIn, msgSignInFailed, newRejection(opSignIn, resp))
		return
	}

	appendSetCookies(c, resp.SetCookies)
	m.metrics.ObserveRelay(opSignIn, metrics.OutcomeSucceeded)
	c.Redirect(http.StatusFound, PathHome)
}

func (m *Manager) relayFailed(c *gin.Context, op, page, message string, err error) {
	fields := []zap.Field{zap.String("operation", op), zap.Error(err)}
	var rejection *ProviderRejection
	if errors.As(err, &rejection) {
		fields = append(fields, zap.Int("provider_status", rejection.StatusCode))
	}
	m.logger.Warn("credential relay failed", fields...)

	m.metrics.ObserveRelay(op, metrics.OutcomeFailed)
	redirectWithMessage(c, page, "error", message)
}

// appendSetCookies は既存のヘッダーを置き換えずに Set-Cookie を追加します。
func appendSetCookies(c *gin.Context, cookies []string) {
	for _, cookie := range cookies {
		c.Writer.Header().Add("Set-Cookie", cookie)
	}
}

// redirectWithMessage は page?key=message へ 302 でリダイレクトします。
func redirectWithMessage(c *gin.Context, page, key, message string) {
	c.Redirect(http.StatusFound, page+"?"+key+"="+EncodeQueryValue(message))
}

// EncodeQueryValue はクエリ値をパーセントエンコードします。空白は %20 になります。
func EncodeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
