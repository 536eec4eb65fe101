package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrProviderUnavailable はプロバイダーとの通信自体に失敗したことを表します。
var ErrProviderUnavailable = errors.New("auth provider unavailable")

// ValidationError はフォーム入力の検証エラーです。違反したフィールドすべてのメッセージを持ちます。
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// ProviderRejection はプロバイダーが成功以外のステータスを返したことを表します。
type ProviderRejection struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *ProviderRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected by provider: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s rejected by provider: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// newRejection はプロバイダーの応答からエラーを組み立てます。
// 本文が {"message": "..."} 形式ならそのメッセージを取り出します。
func newRejection(operation string, resp *ProviderResponse) *ProviderRejection {
	rejection := &ProviderRejection{
		Operation:  operation,
		StatusCode: resp.StatusCode,
	}
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		rejection.Message = strings.TrimSpace(body.Message)
	}
	return rejection
}
