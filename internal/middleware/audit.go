package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/pkg/logger"
)

const maxAuditBody = 2000

var sensitiveKeys = map[string]bool{
	"password": true,
	"secret":   true,
	"token":    true,
}

// AuditLog writes one log line per admin write (POST/PUT/DELETE) with the
// actor, the route and the masked request body.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		var body string
		if c.Request.Body != nil {
			raw, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			body = maskSensitiveFields(raw)
		}

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= http.StatusBadRequest {
			event = logger.Warn()
		}
		event.
			Bool("audit", true).
			Str("actor_id", GetUserID(c)).
			Str("actor", GetUsername(c)).
			Str("action", actionFor(method)).
			Str("route", c.FullPath()).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("ip", c.ClientIP()).
			Str("body", body).
			Msg("admin action")
	}
}

func actionFor(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return strings.ToLower(method)
}

// maskSensitiveFields replaces the values of credential-like top-level keys
// in a JSON object. Bodies that are not JSON objects are only truncated.
func maskSensitiveFields(raw []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err == nil {
		for key := range fields {
			if sensitiveKeys[strings.ToLower(key)] {
				fields[key] = "***"
			}
		}
		if masked, err := json.Marshal(fields); err == nil {
			raw = masked
		}
	}

	s := string(raw)
	if len(s) > maxAuditBody {
		s = s[:maxAuditBody] + "...[truncated]"
	}
	return s
}
