package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinLogger_RecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	Init("info")
	SetOutput(&buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/equipment", func(c *gin.Context) {
		c.Set("user_id", "usuario-1")
		c.JSON(http.StatusNotFound, gin.H{"error": "x"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/equipment", nil)
	router.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, expected warn for 404", entry["level"])
	}
	if entry["path"] != "/equipment" {
		t.Errorf("path = %v", entry["path"])
	}
	if entry["user_id"] != "usuario-1" {
		t.Errorf("user_id = %v", entry["user_id"])
	}
}

func TestGinRecovery_ReturnsJSONError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Init("info")

	router := gin.New()
	router.Use(GinRecovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected error message in body")
	}
	if !bytes.Contains(buf.Bytes(), []byte("panic recovered")) {
		t.Error("panic should be logged")
	}
}
