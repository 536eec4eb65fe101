package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session は GET /session のハンドラーです。RequireUser の後に置きます。
func (m *Manager) Session(c *gin.Context) {
	c.JSON(http.StatusOK, Identity{
		Session: CurrentSession(c),
		User:    CurrentUser(c),
	})
}

// SignOut は POST /signout のハンドラーです。
// クッキーの削除はプロバイダーに任せ、その Set-Cookie を中継してホームへ戻します。
// 匿名状態で呼ばれても、プロバイダーが失敗してもエラーにはしません。
func (m *Manager) SignOut(c *gin.Context) {
	resp, err := m.provider.SignOut(c.Request.Context(), c.Request.Header)
	switch {
	case err != nil:
		m.logger.Warn("sign-out call failed", zap.Error(err))
	case !resp.OK():
		m.logger.Debug("sign-out rejected by provider", zap.Int("provider_status", resp.StatusCode))
	}
	if resp != nil {
		appendSetCookies(c, resp.SetCookies)
	}
	c.Redirect(http.StatusFound, PathHome)
}

// Passthrough はプロバイダー固有の認証 API をそのまま中継するハンドラーです。
func (m *Manager) Passthrough() gin.HandlerFunc {
	return gin.WrapH(m.provider.Handler())
}
