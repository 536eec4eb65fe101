package auth

import (
	"encoding/json"
	"time"
)

// User はプロバイダーが発行したユーザー情報の読み取り専用ビューです。
// 必須とみなすのは id と email だけで、それ以外のフィールドは元の JSON のまま保持します。
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON は既知のフィールドを読み取りつつ、元の JSON を保持します。
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	u.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON はプロバイダーから受け取った JSON をそのまま返します。
func (u User) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}
	type plain User
	return json.Marshal(plain(u))
}

// DisplayName は画面表示用の名前です。名前が無ければメールアドレスを返します。
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Session はプロバイダーが発行・所有するセッションです。ゲートウェイは変更しません。
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`

	raw json.RawMessage
}

// UnmarshalJSON は既知のフィールドを読み取りつつ、元の JSON を保持します。
func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Session(p)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON はプロバイダーから受け取った JSON をそのまま返します。
func (s Session) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	type plain Session
	return json.Marshal(plain(s))
}

// Identity はセッションとユーザーの組です。
// 片方だけの Identity は匿名として扱います。
type Identity struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}

func newIdentity(session *Session, user *User) *Identity {
	if session == nil || user == nil {
		return nil
	}
	return &Identity{Session: session, User: user}
}

// complete はセッションとユーザーが両方そろっているかを返します。nil レシーバーでは false です。
func (i *Identity) complete() bool {
	return i != nil && i.Session != nil && i.User != nil
}

// CredentialPayload は検証済みのサインアップ/サインイン入力です。
// リクエスト処理中にだけ存在し、ゲートウェイは保存しません。
type CredentialPayload struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
