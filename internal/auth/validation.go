package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SignUpForm はサインアップフォームの入力です。
type SignUpForm struct {
	Name     string `form:"name" binding:"min=2,max=50"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"min=8,max=100"`
}

// SignInForm はサインインフォームの入力です。
type SignInForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// ValidateSignUp はサインアップ入力を検証します。
// 一つでも違反があれば、すべてのメッセージを含む *ValidationError を返します。
func ValidateSignUp(form SignUpForm) (*CredentialPayload, error) {
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		return nil, toValidationError(err)
	}
	return &CredentialPayload{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	}, nil
}

// ValidateSignIn はサインイン入力を検証します。
func ValidateSignIn(form SignInForm) (*CredentialPayload, error) {
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		return nil, toValidationError(err)
	}
	return &CredentialPayload{
		Email:    form.Email,
		Password: form.Password,
	}, nil
}

func bindSignUp(c *gin.Context) (*CredentialPayload, error) {
	return ValidateSignUp(SignUpForm{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	})
}

func bindSignIn(c *gin.Context) (*CredentialPayload, error) {
	return ValidateSignIn(SignInForm{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	})
}

func toValidationError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Messages: []string{"Invalid form submission"}}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return &ValidationError{Messages: messages}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field == "Email" {
		return "Invalid email address"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
