package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rememberThroughRouter(t *testing.T, email string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var saveErr error
	router := gin.New()
	router.Use(FlashSessions([]byte("test-secret"), false))
	router.GET("/remember", func(c *gin.Context) {
		saveErr = rememberEmail(c, email)
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/remember", nil))
	return rec, saveErr
}

func TestRememberEmailSetsFlashCookie(t *testing.T) {
	rec, err := rememberThroughRouter(t, "al@x.com")

	require.NoError(t, err)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), FlashCookieName+"=")
}

func TestRememberEmailReportsOversizedCookie(t *testing.T) {
	rec, err := rememberThroughRouter(t, strings.Repeat("a", 5000)+"@x.com")

	require.Error(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestFlashHelpersWithoutSessionsMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NoError(t, rememberEmail(c, "al@x.com"))
	email, err := RecalledEmail(c)
	assert.NoError(t, err)
	assert.Empty(t, email)
}
