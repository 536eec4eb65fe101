package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/authgate/internal/config"
	"github.com/yourusername/authgate/internal/metrics"
)

// 応答本文の読み込み上限
const maxProviderBody = 1 << 20

// HTTPProvider は HTTP API 経由で外部認証プロバイダーを呼び出す Provider 実装です。
type HTTPProvider struct {
	baseURL  *url.URL
	basePath string
	client   *http.Client
	proxy    *httputil.ReverseProxy
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHTTPProvider は設定からプロバイダークライアントを作成します。
func NewHTTPProvider(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*HTTPProvider, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL, err := url.Parse(cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provider url: %w", err)
	}

	p := &HTTPProvider{
		baseURL:  baseURL,
		basePath: strings.TrimRight(cfg.AuthBasePath, "/"),
		client: &http.Client{
			Timeout: cfg.ProviderTimeout,
			// Set-Cookie を取りこぼさないよう、リダイレクトは追わない
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		metrics: m,
		logger:  logger,
	}

	// Host はプロバイダーのものに書き換え、元のホストは X-Forwarded-Host で渡す
	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(baseURL)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("auth provider passthrough failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return p, nil
}

// GetSession は get-session エンドポイントでセッションを照会します。
func (p *HTTPProvider) GetSession(ctx context.Context, header http.Header) (*Identity, error) {
	resp, err := p.do(ctx, opGetSession, http.MethodGet, "/get-session", header, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newRejection(opGetSession, resp)
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var body struct {
		Session *Session `json:"session"`
		User    *User    `json:"user"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return newIdentity(body.Session, body.User), nil
}

// SignUpEmail は sign-up/email エンドポイントを呼び出します。
func (p *HTTPProvider) SignUpEmail(ctx context.Context, payload CredentialPayload) (*ProviderResponse, error) {
	return p.do(ctx, opSignUp, http.MethodPost, "/sign-up/email", nil, payload)
}

// SignInEmail は sign-in/email エンドポイントを呼び出します。
func (p *HTTPProvider) SignInEmail(ctx context.Context, payload CredentialPayload, header http.Header) (*ProviderResponse, error) {
	// サインイン時は name を送らない
	payload.Name = ""
	return p.do(ctx, opSignIn, http.MethodPost, "/sign-in/email", header, payload)
}

// SignOut は sign-out エンドポイントを呼び出します。
func (p *HTTPProvider) SignOut(ctx context.Context, header http.Header) (*ProviderResponse, error) {
	return p.do(ctx, opSignOut, http.MethodPost, "/sign-out", header, struct{}{})
}

// Handler はプロバイダーへのリバースプロキシを返します。
func (p *HTTPProvider) Handler() http.Handler {
	return p.proxy
}

func (p *HTTPProvider) endpoint(path string) string {
	u := *p.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + p.basePath + path
	u.RawQuery = ""
	return u.String()
}

func (p *HTTPProvider) do(ctx context.Context, op, method, path string, header http.Header, payload any) (*ProviderResponse, error) {
	start := time.Now()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies := header.Values("Cookie"); len(cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(cookies, "; "))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.metrics.ObserveProviderCall(op, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	p.metrics.ObserveProviderCall(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read response: %v", ErrProviderUnavailable, op, err)
	}

	p.logger.Debug("auth provider responded",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("set_cookies", len(resp.Header.Values("Set-Cookie"))),
	)

	return &ProviderResponse{
		StatusCode: resp.StatusCode,
		SetCookies: resp.Header.Values("Set-Cookie"),
		Body:       data,
	}, nil
}
