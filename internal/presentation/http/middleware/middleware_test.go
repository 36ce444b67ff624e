package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (r *memoryIdempotencyRepo) GetByKey(ctx context.Context, key string, employeeID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[key+employeeID.String()], nil
}

func (r *memoryIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.Key+ikey.EmployeeID.String()] = ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

func token(t *testing.T, jwtManager *utils.JWTManager, roles ...string) (string, uuid.UUID) {
	t.Helper()
	employeeID := uuid.New()
	tok, err := jwtManager.GenerateAccessToken(utils.EmployeeClaims{
		EmployeeID: employeeID,
		Name:       "Sam",
		Roles:      roles,
		RegisterID: "reg-1",
	})
	require.NoError(t, err)
	return tok, employeeID
}

func do(router *gin.Engine, method, path, bearer string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"employee_id": GetEmployeeID(c).String(),
			"register_id": c.GetString(RegisterIDKey),
		})
	})

	assert.Equal(t, http.StatusUnauthorized, do(router, "GET", "/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, "GET", "/me", "garbage", nil).Code)

	other := utils.NewJWTManager("other-secret", time.Hour)
	forged, _ := token(t, other)
	assert.Equal(t, http.StatusUnauthorized, do(router, "GET", "/me", forged, nil).Code)

	tok, employeeID := token(t, jwtManager)
	w := do(router, "GET", "/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), employeeID.String())
	assert.Contains(t, w.Body.String(), "reg-1")
}

func TestRequireRole(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.PUT("/settings", RequireRole("manager"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cashier, _ := token(t, jwtManager, "cashier")
	assert.Equal(t, http.StatusForbidden, do(router, "PUT", "/settings", cashier, nil).Code)

	manager, _ := token(t, jwtManager, "cashier", "manager")
	assert.Equal(t, http.StatusNoContent, do(router, "PUT", "/settings", manager, nil).Code)
}

func TestEmployeeRateLimiter(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	limiter := NewEmployeeRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer limiter.Stop()

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager), limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first, _ := token(t, jwtManager)
	second, _ := token(t, jwtManager)

	assert.Equal(t, http.StatusOK, do(router, "GET", "/ping", first, nil).Code)
	assert.Equal(t, http.StatusOK, do(router, "GET", "/ping", first, nil).Code)
	w := do(router, "GET", "/ping", first, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(router, "GET", "/ping", second, nil).Code, "limits are per employee")
}

func TestEmployeeRateLimiterDropsIdleBuckets(t *testing.T) {
	limiter := NewEmployeeRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 1, EntryTTL: time.Minute})
	defer limiter.Stop()

	start := time.Now()
	busy, idle := uuid.New(), uuid.New()

	allowed, left := limiter.take(idle, start)
	assert.True(t, allowed)
	assert.Zero(t, left)
	allowed, _ = limiter.take(idle, start)
	assert.False(t, allowed)

	limiter.take(busy, start.Add(50*time.Second))
	assert.Equal(t, 1, limiter.sweep(start.Add(90*time.Second)))

	// A dropped employee starts again with a full bucket.
	allowed, _ = limiter.take(idle, start.Add(91*time.Second))
	assert.True(t, allowed)

	limiter.Stop()
	limiter.Stop()
}

func TestIdempotencyRequiredReplaysResponse(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	repo := &memoryIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}

	calls := 0
	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.POST("/transactions", IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	tok, _ := token(t, jwtManager)
	assert.Equal(t, http.StatusBadRequest, do(router, "POST", "/transactions", tok, nil).Code)

	key := map[string]string{IdempotencyKeyHeader: "sale-1"}
	first := do(router, "POST", "/transactions", tok, key)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := do(router, "POST", "/transactions", tok, key)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	other, _ := token(t, jwtManager)
	assert.Equal(t, http.StatusCreated, do(router, "POST", "/transactions", other, key).Code, "keys are scoped to the employee")
	assert.Equal(t, 2, calls)
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	repo := &memoryIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}

	calls := 0
	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.POST("/transactions/:id/refund", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": calls})
	})
	tok, _ := token(t, jwtManager)

	send := func(body string, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/transactions/abc/refund", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+tok)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send(`{"items":[]}`, "").Code)
	assert.Equal(t, http.StatusOK, send(`{"items":[]}`, "").Code)
	assert.Equal(t, 2, calls, "requests without a key are not recorded")

	assert.Equal(t, http.StatusOK, send(`{"items":[]}`, "refund-1").Code)
	assert.Equal(t, http.StatusOK, send(`{"items":[]}`, "refund-1").Code)
	assert.Equal(t, 3, calls)

	assert.Equal(t, http.StatusUnprocessableEntity, send(`{"items":[{"quantity":1}]}`, "refund-1").Code)
	assert.Equal(t, 3, calls)
}

func TestMergeHeadersKeepsProtocolHeaders(t *testing.T) {
	merged := mergeHeaders([]string{"x-request-id", "X-Register"}, requiredHeaders)
	assert.Equal(t, []string{"x-request-id", "X-Register", "Authorization", "Content-Type", IdempotencyKeyHeader}, merged)
}
