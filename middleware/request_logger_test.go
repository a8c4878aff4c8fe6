package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestLoggerDoesNotAlterResponse(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger())

	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "payload")
	})

	req := httptest.NewRequest("GET", "/test?degree=btech", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "payload" {
		t.Errorf("Expected body payload, got %s", w.Body.String())
	}
}

func TestRequestLoggerErrorStatuses(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger())

	router.GET("/client-error", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	router.GET("/server-error", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	for _, path := range []string{"/client-error", "/server-error"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		// The logger must never rewrite the handler's status
		if w.Code != http.StatusBadRequest && w.Code != http.StatusBadGateway {
			t.Errorf("Unexpected status %d for %s", w.Code, path)
		}
	}
}
