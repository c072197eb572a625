package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

func sessionTestRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	var seen string
	router := gin.New()
	router.Use(NewSessionMiddleware(log, false).EnsureSession())
	router.GET("/", func(c *gin.Context) {
		seen = SessionID(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestEnsureSessionIssuesCookie(t *testing.T) {
	router, seen := sessionTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "cart_session" {
		t.Fatalf("expected one cart_session cookie, got %v", cookies)
	}
	if uuid.Validate(cookies[0].Value) != nil {
		t.Fatalf("cookie value is not a uuid: %q", cookies[0].Value)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
	if *seen != cookies[0].Value {
		t.Fatalf("handler saw %q, cookie holds %q", *seen, cookies[0].Value)
	}
}

func TestEnsureSessionKeepsExistingID(t *testing.T) {
	router, seen := sessionTestRouter(t)
	sid := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: sid})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("cookie reissued for a valid session: %v", w.Result().Cookies())
	}
	if *seen != sid {
		t.Fatalf("handler saw %q, want %q", *seen, sid)
	}
}

func TestEnsureSessionReplacesMalformedID(t *testing.T) {
	router, seen := sessionTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected replacement cookie, got %v", cookies)
	}
	if *seen == "not-a-uuid" || uuid.Validate(*seen) != nil {
		t.Fatalf("malformed id kept: %q", *seen)
	}
}
