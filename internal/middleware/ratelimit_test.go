package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenity-app/serenity-backend/internal/logger"
)

type fakeCounter struct {
	count   int64
	err     error
	expires int
}

func (f *fakeCounter) Incr(ctx context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.count++
	return f.count, nil
}

func (f *fakeCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.expires++
	return nil
}

func limitRequest(t *testing.T, rl *RateLimitMiddleware, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/sessions/create", nil)
	c.Set(ContextUserIDKey, userID)
	rl.Limit()(c)
	return c, w
}

func TestLimit_NoCounterAllowsEverything(t *testing.T) {
	rl := NewRateLimitMiddleware(logger.NewNop(), nil)

	c, _ := limitRequest(t, rl, uuid.New())
	if c.IsAborted() {
		t.Fatalf("request must pass when no counter is configured")
	}
}

func TestLimit_UnderLimitPasses(t *testing.T) {
	counter := &fakeCounter{}
	rl := &RateLimitMiddleware{log: logger.NewNop(), counter: counter, limit: 10, window: time.Hour}
	userID := uuid.New()

	for i := 0; i < 10; i++ {
		c, _ := limitRequest(t, rl, userID)
		if c.IsAborted() {
			t.Fatalf("request %d within limit was aborted", i+1)
		}
	}
	if counter.expires != 1 {
		t.Fatalf("expected expiry set once on the first hit, got %d", counter.expires)
	}
}

func TestLimit_OverLimitAborts429(t *testing.T) {
	counter := &fakeCounter{count: 10}
	rl := &RateLimitMiddleware{log: logger.NewNop(), counter: counter, limit: 10, window: time.Hour}

	c, w := limitRequest(t, rl, uuid.New())
	if !c.IsAborted() {
		t.Fatalf("11th request in the window must be aborted")
	}
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestLimit_CounterErrorAllowsRequest(t *testing.T) {
	counter := &fakeCounter{err: errors.New("redis down")}
	rl := &RateLimitMiddleware{log: logger.NewNop(), counter: counter, limit: 10, window: time.Hour}

	c, _ := limitRequest(t, rl, uuid.New())
	if c.IsAborted() {
		t.Fatalf("counter failure must not block the request")
	}
}
