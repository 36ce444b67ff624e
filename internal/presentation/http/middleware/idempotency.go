package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long a recorded response is replayed
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// bodyRecorder tees the handler's response so it can be replayed
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency records the response of keyed requests and replays it when the
// key is sent again. Requests without a key pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, false)
}

// IdempotencyRequired is Idempotency that rejects POSTs without a key.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, true)
}

func idempotency(config IdempotencyConfig, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if required {
				response.BadRequest(c, "Idempotency-Key header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		employeeID := GetEmployeeID(c)
		if employeeID == uuid.Nil {
			response.Unauthorized(c, "Employee not authenticated")
			c.Abort()
			return
		}

		fingerprint, err := fingerprintRequest(c)
		if err != nil {
			response.BadRequest(c, "Failed to read request body")
			c.Abort()
			return
		}
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, employeeID)
		if err != nil {
			if !required {
				log.Warningf("idempotency lookup for %s failed, processing anyway: %v", key, err)
				c.Next()
				return
			}
			log.Errorf("idempotency lookup for %s failed: %v", key, err)
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.Endpoint != endpoint || (existing.RequestHash != "" && existing.RequestHash != fingerprint) {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
				c.Abort()
				return
			}
			log.Debugf("replaying %s for key %s", endpoint, key)
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		// Failures are not recorded so the client can retry with the same key.
		status := rec.Status()
		if status < 200 || status >= 300 {
			return
		}
		record := &entity.IdempotencyKey{
			Key:          key,
			EmployeeID:   employeeID,
			Endpoint:     endpoint,
			RequestHash:  fingerprint,
			ResponseCode: status,
			ResponseBody: rec.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(c.Request.Context(), record); err != nil {
			log.Warningf("failed to store idempotency key %s: %v", key, err)
		}
	}
}

// fingerprintRequest hashes the request body and puts it back for the handler.
func fingerprintRequest(c *gin.Context) (string, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
