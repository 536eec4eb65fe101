package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// FlashCookieName はフラッシュメッセージ用クッキーの名前です。
const FlashCookieName = "ag_flash"

const flashKeyEmail = "signup_email"

// FlashSessions は署名付きクッキーでフラッシュを保持するミドルウェアを返します。
// サーバー側には何も保存しません。
func FlashSessions(secret []byte, secure bool) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(FlashCookieName, store)
}

// rememberEmail はサインアップしたメールアドレスを次のサインイン画面用に残します。
// クッキーの上限を超える値は保存できず、エラーを返します。
func rememberEmail(c *gin.Context, email string) error {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	session.AddFlash(email, flashKeyEmail)
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save flash: %w", err)
	}
	return nil
}

// RecalledEmail はサインアップ直後に残したメールアドレスを一度だけ取り出します。
// 消費の保存に失敗してもメールアドレスは返します。
func RecalledEmail(c *gin.Context) (string, error) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return "", nil
	}
	session := sessions.Default(c)
	flashes := session.Flashes(flashKeyEmail)
	if len(flashes) == 0 {
		return "", nil
	}
	email, _ := flashes[0].(string)
	if err := session.Save(); err != nil {
		return email, fmt.Errorf("failed to clear flash: %w", err)
	}
	return email, nil
}
