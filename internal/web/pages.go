// Package web は画面の描画を担当します。
// 各ページはリクエストに付与されたユーザー（匿名なら nil）だけを受け取って描画します。
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"

	"github.com/yourusername/authgate/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "about", "signup", "signin"}

// Pages はレイアウトと各ページのテンプレートを保持します。
type Pages struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

type pageData struct {
	Title   string
	User    *auth.User
	Error   string
	Success string
	Email   string
	Year    int
}

// NewPages は埋め込みテンプレートを読み込みます。logger は nil でも構いません。
func NewPages(logger *zap.Logger) (*Pages, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Pages{templates: templates, logger: logger}, nil
}

// Home は GET / のハンドラーです。
func (p *Pages) Home(c *gin.Context) {
	p.render(c, "home", "Home", pageData{})
}

// About は GET /about のハンドラーです。
func (p *Pages) About(c *gin.Context) {
	p.render(c, "about", "About", pageData{})
}

// SignUp は GET /signup のハンドラーです。
func (p *Pages) SignUp(c *gin.Context) {
	p.render(c, "signup", "Sign up", formData(c))
}

// SignIn は GET /signin のハンドラーです。
func (p *Pages) SignIn(c *gin.Context) {
	data := formData(c)
	// フラッシュの消費でクッキーを書き換えるため、描画より先に読む
	email, err := auth.RecalledEmail(c)
	if err != nil {
		p.logger.Warn("sign-up email flash was not cleared", zap.Error(err))
	}
	data.Email = email
	p.render(c, "signin", "Sign in", data)
}

// クエリの error / success は gin がデコード済みの値を返す
func formData(c *gin.Context) pageData {
	return pageData{
		Error:   c.Query("error"),
		Success: c.Query("success"),
	}
}

func (p *Pages) render(c *gin.Context, name, title string, data pageData) {
	data.Title = title
	data.User = auth.CurrentUser(c)
	data.Year = time.Now().Year()
	c.Render(http.StatusOK, render.HTML{
		Template: p.templates[name],
		Name:     "layout",
		Data:     data,
	})
}
