package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/repairpos/internal/config"
)

// requiredHeaders are sent by the register client on every write.
var requiredHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader, "X-Request-ID"}

// CORSMiddleware allows the register web client to call the API. Origins come
// from config; the headers the POS protocol depends on are always allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "OPTIONS"}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     mergeHeaders(cfg.AllowedHeaders, requiredHeaders),
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func mergeHeaders(configured, required []string) []string {
	seen := make(map[string]bool, len(configured)+len(required))
	out := make([]string, 0, len(configured)+len(required))
	for _, h := range append(append([]string{}, configured...), required...) {
		key := http.CanonicalHeaderKey(h)
		if h == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
