package auth

import (
	"context"
	"net/http"
	"sync"
)

// stubProvider は Provider のテスト用実装です。
type stubProvider struct {
	mu sync.Mutex

	identity *Identity
	getErr   error

	signUpResp  *ProviderResponse
	signUpErr   error
	signInResp  *ProviderResponse
	signInErr   error
	signOutResp *ProviderResponse
	signOutErr  error

	handler http.Handler

	getCalls     int
	signUpCalls  int
	signInCalls  int
	signOutCalls int

	lastPayload CredentialPayload
	lastHeader  http.Header
}

func (s *stubProvider) GetSession(ctx context.Context, header http.Header) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	return s.identity, s.getErr
}

func (s *stubProvider) SignUpEmail(ctx context.Context, payload CredentialPayload) (*ProviderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signUpCalls++
	s.lastPayload = payload
	return s.signUpResp, s.signUpErr
}

func (s *stubProvider) SignInEmail(ctx context.Context, payload CredentialPayload, header http.Header) (*ProviderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signInCalls++
	s.lastPayload = payload
	s.lastHeader = header.Clone()
	return s.signInResp, s.signInErr
}

func (s *stubProvider) SignOut(ctx context.Context, header http.Header) (*ProviderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOutCalls++
	s.lastHeader = header.Clone()
	return s.signOutResp, s.signOutErr
}

func (s *stubProvider) Handler() http.Handler {
	if s.handler != nil {
		return s.handler
	}
	return http.NotFoundHandler()
}

func testIdentity() *Identity {
	return &Identity{
		Session: &Session{ID: "sess-1", UserID: "user-1", Token: "tok"},
		User:    &User{ID: "user-1", Email: "al@x.com", Name: "Al"},
	}
}
