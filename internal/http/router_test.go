package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shop-backend/internal/config"
	"github.com/tbourn/go-shop-backend/internal/domain"
	"github.com/tbourn/go-shop-backend/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     1000,
		RateBurst:   1000,
		OTEL:        config.OTELConfig{ServiceName: "go-shop-backend-test"},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), fmt.Sprintf("router_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&domain.Product{}, &domain.User{}, &domain.Order{},
		&domain.OrderItem{}, &domain.SeenEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRouter(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	r := gin.New()
	RegisterRoutes(r, db, session.NewManager(time.Hour), zerolog.Nop(), cfg)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
}

func TestNoRouteAndNoMethod(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(t, r, http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("non-JSON 404 body: %s", w.Body.String())
	}
	if body["code"] != "not_found" {
		t.Fatalf("404 body = %v", body)
	}

	w = doJSON(t, r, http.MethodDelete, "/health", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPostEvent_ProcessesAndDeduplicates(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	payload := `{
		"event_id": "upd-1",
		"inbound": {
			"user_id": 42,
			"full_name": "Alice A",
			"event": {"kind": "command", "command": "start"}
		}
	}`

	w := doJSON(t, r, http.MethodPost, "/api/v1/events", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Duplicate bool `json:"duplicate"`
		Replies   []struct {
			UserID int64  `json:"user_id"`
			Text   string `json:"text"`
		} `json:"replies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Duplicate || len(resp.Replies) == 0 {
		t.Fatalf("first delivery: %+v", resp)
	}
	if resp.Replies[0].UserID != 42 || !strings.Contains(resp.Replies[0].Text, "Alice A") {
		t.Fatalf("reply = %+v", resp.Replies[0])
	}

	// Same envelope redelivered: acknowledged, no replies, state untouched.
	w = doJSON(t, r, http.MethodPost, "/api/v1/events", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("redelivery status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Duplicate || len(resp.Replies) != 0 {
		t.Fatalf("redelivery: %+v", resp)
	}
}

func TestPostEvent_RejectsBadEnvelopes(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	cases := []struct {
		name, payload string
	}{
		{"missing event_id", `{"inbound":{"user_id":1,"event":{"kind":"command","command":"start"}}}`},
		{"unknown kind", `{"event_id":"e1","inbound":{"user_id":1,"event":{"kind":"sticker"}}}`},
		{"not json", `{{{`},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/v1/events", tc.payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, body = %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestListProducts(t *testing.T) {
	r, db := newTestRouter(t, testConfig())
	for _, p := range []domain.Product{
		{Name: "T-shirt", Price: decimal.RequireFromString("550.00"), Stock: 5},
		{Name: "Jeans", Price: decimal.RequireFromString("1099.00"), Stock: 0},
	} {
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The read endpoint shows the whole catalog, sold-out included.
	if len(resp.Products) != 2 {
		t.Fatalf("products = %+v", resp.Products)
	}
}

func TestListOrders_FilterValidationAndEmptyPage(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders?status=Bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/orders?limit=0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"orders":[]}` {
		t.Fatalf("empty page body = %s", got)
	}
}

func TestRateLimiter_Returns429(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 0
	cfg.RateBurst = 1
	r, _ := newTestRouter(t, cfg)

	if w := doJSON(t, r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}
