package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tdoan/go-travel-bot/internal/config"
	"github.com/tdoan/go-travel-bot/internal/domain"
	"github.com/tdoan/go-travel-bot/internal/guard"
	"github.com/tdoan/go-travel-bot/internal/http/handlers"
	"github.com/tdoan/go-travel-bot/internal/telegram"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.UpdateLog{}, &domain.RateLimit{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// countingDispatcher records how many updates reached the pipeline.
type countingDispatcher struct {
	n atomic.Int64
}

func (d *countingDispatcher) HandleUpdate(ctx context.Context, upd *telegram.Update) {
	d.n.Add(1)
}

// newTestEngine wires the full route table the way main does, with the edge
// limiter budget under test control.
func newTestEngine(t *testing.T, rps float64, burst int) (*gin.Engine, *countingDispatcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	g := guard.New(db, true, guard.RateWindow{Size: 30 * time.Second, Max: 1000})
	disp := &countingDispatcher{}
	wh := handlers.NewWebhookHandler(g, disp, 5*time.Second)

	cfg := config.Config{
		RateRPS:   rps,
		RateBurst: burst,
	}
	cfg.Telegram.WebhookSecret = "s3cret"
	cfg.OTEL.ServiceName = "router-test"

	r := gin.New()
	RegisterRoutes(r, db, wh, cfg)
	return r, disp
}

func postWebhook(r *gin.Engine, updateID int64) *httptest.ResponseRecorder {
	body := fmt.Sprintf(`{"update_id":%d,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42},"text":"hi","date":1}}`, updateID)
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRegisterRoutes_WebhookExemptFromEdgeLimiter(t *testing.T) {
	// A bucket this small would reject the second request from one IP.
	r, _ := newTestEngine(t, 0.001, 1)

	for i := int64(1); i <= 5; i++ {
		w := postWebhook(r, i)
		if w.Code != http.StatusOK {
			t.Fatalf("delivery %d: status = %d, want 200", i, w.Code)
		}
		if w.Body.String() != "OK" {
			t.Fatalf("delivery %d: body = %q", i, w.Body.String())
		}
	}

	// The same exhausted-bucket scenario on an operational route does 429:
	// the limiter is alive, it just does not front the webhook.
	if w := get(r, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz first: status = %d", w.Code)
	}
	if w := get(r, "/healthz"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("healthz second: status = %d, want 429", w.Code)
	}
}

func TestRegisterRoutes_OperationalEndpoints(t *testing.T) {
	r, _ := newTestEngine(t, 100, 100)

	if w := get(r, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("healthz: status = %d", w.Code)
	}
	w := get(r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatal("metrics exposition missing http_requests_total")
	}
}

func TestRegisterRoutes_Fallbacks(t *testing.T) {
	r, _ := newTestEngine(t, 100, 100)

	w := get(r, "/no/such/route")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: status = %d", w.Code)
	}
	var resp handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != handlers.ErrCodeNotFound {
		t.Fatalf("code = %q", resp.Code)
	}
	if resp.RequestID == "" {
		t.Fatal("fallback envelope missing request id")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/healthz", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: status = %d", w.Code)
	}
}

func TestRegisterRoutes_WebhookStillRunsAuth(t *testing.T) {
	r, disp := newTestEngine(t, 100, 100)

	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram",
		strings.NewReader(`{"update_id":9}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if disp.n.Load() != 0 {
		t.Fatal("dispatcher invoked despite auth failure")
	}
}
