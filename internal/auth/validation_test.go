package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name    string
		form    SignUpForm
		wantErr string
	}{
		{
			name: "valid",
			form: SignUpForm{Name: "Al", Email: "al@x.com", Password: "password1"},
		},
		{
			name:    "short password",
			form:    SignUpForm{Name: "Al", Email: "al@x.com", Password: "short"},
			wantErr: "Password must be at least 8 characters",
		},
		{
			name:    "short name",
			form:    SignUpForm{Name: "A", Email: "al@x.com", Password: "password1"},
			wantErr: "Name must be at least 2 characters",
		},
		{
			name:    "long name",
			form:    SignUpForm{Name: strings.Repeat("a", 51), Email: "al@x.com", Password: "password1"},
			wantErr: "Name must be at most 50 characters",
		},
		{
			name:    "email without at sign",
			form:    SignUpForm{Name: "Al", Email: "al.x.com", Password: "password1"},
			wantErr: "Invalid email address",
		},
		{
			name:    "long password",
			form:    SignUpForm{Name: "Al", Email: "al@x.com", Password: strings.Repeat("p", 101)},
			wantErr: "Password must be at most 100 characters",
		},
		{
			name:    "every field invalid",
			form:    SignUpForm{Name: "", Email: "", Password: ""},
			wantErr: "Name must be at least 2 characters, Invalid email address, Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ValidateSignUp(tt.form)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, CredentialPayload{Name: tt.form.Name, Email: tt.form.Email, Password: tt.form.Password}, *payload)
				return
			}
			require.Error(t, err)
			assert.Nil(t, payload)
			assert.Equal(t, tt.wantErr, err.Error())

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidateSignUpBoundaries(t *testing.T) {
	_, err := ValidateSignUp(SignUpForm{Name: strings.Repeat("a", 50), Email: "a@b.co", Password: strings.Repeat("p", 100)})
	assert.NoError(t, err)

	_, err = ValidateSignUp(SignUpForm{Name: "ab", Email: "a@b.co", Password: "12345678"})
	assert.NoError(t, err)

	// 文字数はバイト数ではなくルーン数で数える
	_, err = ValidateSignUp(SignUpForm{Name: "山田", Email: "a@b.co", Password: "12345678"})
	assert.NoError(t, err)
}

func TestValidateSignIn(t *testing.T) {
	payload, err := ValidateSignIn(SignInForm{Email: "al@x.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "al@x.com", payload.Email)
	assert.Empty(t, payload.Name)

	_, err = ValidateSignIn(SignInForm{Email: "al@x.com"})
	require.Error(t, err)
	assert.Equal(t, "Password is required", err.Error())

	_, err = ValidateSignIn(SignInForm{Email: "nope", Password: ""})
	require.Error(t, err)
	assert.Equal(t, "Invalid email address, Password is required", err.Error())
}
