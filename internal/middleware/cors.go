package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/my-academia/academia-service/internal/response"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists the browser origins allowed to call the API.
	// An empty list allows any origin.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

// DefaultCORSConfig returns the methods and headers the API uses.
func DefaultCORSConfig(allowedOrigins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         10 * time.Minute,
	}
}

// CORS adapts go-chi/cors to gin. Requests from origins outside the allow
// list are rejected with 403 before reaching the CORS handler. Requests
// without an Origin header are not cross-origin and pass through.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool)
	origins := make([]string, 0, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		normalized := normalizeOrigin(origin)
		if normalized == "" || allowedSet[normalized] {
			continue
		}
		allowedSet[normalized] = true
		origins = append(origins, normalized)
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: config.AllowedMethods,
		AllowedHeaders: config.AllowedHeaders,
		MaxAge:         int(config.MaxAge.Seconds()),
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && len(allowedSet) > 0 && !allowedSet[normalizeOrigin(origin)] {
			c.Header("Vary", "Origin")
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorBody{Message: "Origin not allowed"})
			return
		}

		// Preflight requests are answered by the CORS handler and never call next.
		passed := false
		handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

// normalizeOrigin reduces an origin or URL to lowercase scheme://host[:port].
func normalizeOrigin(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return strings.ToLower(parsed.Scheme + "://" + parsed.Host)
}
