package auth

import (
	"context"
	"net/http"
)

// プロバイダー操作名（ログ・メトリクスのラベルにも使います）
const (
	opGetSession = "get-session"
	opSignUp     = "sign-up"
	opSignIn     = "sign-in"
	opSignOut    = "sign-out"
)

// Provider は外部認証プロバイダーの機能セットです。
// ゲートウェイはこれらを呼び出すだけで、資格情報の保存やセッション発行は行いません。
type Provider interface {
	// GetSession はリクエストヘッダー（Cookie）に対応するセッションを返します。
	// セッションが無い場合は nil, nil を返します。
	GetSession(ctx context.Context, header http.Header) (*Identity, error)
	// SignUpEmail はメールアドレスでのアカウント登録を行います。
	SignUpEmail(ctx context.Context, payload CredentialPayload) (*ProviderResponse, error)
	// SignInEmail はメールアドレスでのサインインを行います。
	// header の Cookie はプロバイダーへそのまま転送されます。
	SignInEmail(ctx context.Context, payload CredentialPayload, header http.Header) (*ProviderResponse, error)
	// SignOut は header の Cookie に対応するセッションを破棄します。
	SignOut(ctx context.Context, header http.Header) (*ProviderResponse, error)
	// Handler はプロバイダー固有の認証 API をそのまま処理するハンドラーです。
	Handler() http.Handler
}

// ProviderResponse はプロバイダー呼び出しの結果です。
// 通信エラーは error として返し、ここには HTTP 応答が得られた場合だけを載せます。
type ProviderResponse struct {
	StatusCode int
	// SetCookies は応答の Set-Cookie ヘッダー値で、受信した順序を保ちます。
	SetCookies []string
	Body       []byte
}

// OK は 2xx 応答かどうかを返します。
func (r *ProviderResponse) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
