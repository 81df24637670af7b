package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newCSRFTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.Use(CSRFProtection())

	r.GET("/token", func(c *gin.Context) {
		token, _ := c.Get(csrfTokenContextKey)
		c.JSON(http.StatusOK, gin.H{"csrfToken": token})
	})
	r.POST("/submit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestCSRFTokenIssuedOnGet(t *testing.T) {
	r := newCSRFTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.CSRFToken == "" {
		t.Error("expected a non-empty CSRF token")
	}
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	r := newCSRFTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCSRFAcceptsPostWithSessionToken(t *testing.T) {
	r := newCSRFTestRouter()

	// First request establishes the session and token.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	r.ServeHTTP(w, req)

	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req2.Header.Set(csrfTokenHeaderKey, body.CSRFToken)
	for _, c := range w.Result().Cookies() {
		req2.AddCookie(c)
	}
	r.ServeHTTP(w2, req2)

	if w2.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w2.Code)
	}
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	r := newCSRFTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	r.ServeHTTP(w, req)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req2.Header.Set(csrfTokenHeaderKey, "not-the-real-token")
	for _, c := range w.Result().Cookies() {
		req2.AddCookie(c)
	}
	r.ServeHTTP(w2, req2)

	if w2.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w2.Code)
	}
}
