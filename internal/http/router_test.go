package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HansOheneba/airban-api/internal/config"
	"github.com/HansOheneba/airban-api/internal/http/middleware"
	"github.com/HansOheneba/airban-api/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newRouterDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.Open(config.DBConfig{
		Driver:       "sqlite",
		DSN:          "file:router_" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	}, repo.OpenOptions{LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig(base string) config.Config {
	return config.Config{
		APIBasePath:    base,
		RateRPS:        1000,
		RateBurst:      1000,
		IdempotencyTTL: time.Hour,
		DB:             config.DBConfig{AcquireTimeout: 5 * time.Second},
		Cache:          config.CacheConfig{CatalogTTL: time.Minute},
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{DB: newRouterDB(t)}, cfg)
	return r
}

func do(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_Health_Metrics_Fallbacks(t *testing.T) {
	r := newRouter(t, testConfig("/"))

	w := do(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatal("missing request id")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}

	w = do(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("GET /metrics code=%d", w.Code)
	}

	w = do(r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"code":"not_found"`) {
		t.Fatalf("GET /nope = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPut, "/doors", "", nil)
	if w.Code != http.StatusMethodNotAllowed || !strings.Contains(w.Body.String(), `"code":"method_not_allowed"`) {
		t.Fatalf("PUT /doors = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig("/")
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"https://airbandoors.com"}}
	r := newRouter(t, cfg)

	w := do(r, http.MethodGet, "/health", "", map[string]string{"Origin": "https://airbandoors.com"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://airbandoors.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_OrderFlow(t *testing.T) {
	r := newRouter(t, testConfig("/api"))

	w := do(r, http.MethodPost, "/api/doors",
		`{"name":"Oak","description":"Solid oak","price":"125.00","type":"Single","stock":3,"image_url":"https://i.ibb.co/oak.jpg","sub_images":["https://i.ibb.co/oak2.jpg"],"variants":[{"color":"Ash","orientation":"right","stock":2}]}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create door = %d %s", w.Code, w.Body.String())
	}
	var created struct {
		DoorID string `json:"door_id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = do(r, http.MethodGet, "/api/doors/"+created.DoorID, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "oak2.jpg") ||
		!strings.Contains(w.Body.String(), `"variants":[{"color":"Ash","orientation":"right","stock":2}]`) {
		t.Fatalf("get door = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPatch, "/api/doors/"+created.DoorID, `{"name":"Oak","stock":3}`, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "no changes were made") {
		t.Fatalf("same-value patch = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPatch, "/api/doors/"+created.DoorID,
		`{"sub_images_operations":{"add":["https://i.ibb.co/oak3.jpg"],"delete":["https://i.ibb.co/oak2.jpg"]}}`, nil)
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), "oak2.jpg") || !strings.Contains(w.Body.String(), "oak3.jpg") {
		t.Fatalf("sub-image patch = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/doors", "", nil)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("list doors = %d etag=%q", w.Code, etag)
	}
	if w = do(r, http.MethodGet, "/api/doors", "", map[string]string{"If-None-Match": etag}); w.Code != http.StatusNotModified {
		t.Fatalf("conditional list = %d", w.Code)
	}

	order := `{"name":"Ama","email":"ama@example.com","phone":"0245551234","address":"Accra","items":[{"door_id":"` + created.DoorID + `","quantity":2}]}`
	idem := map[string]string{middleware.HeaderIdempotencyKey: "checkout-1"}

	w = do(r, http.MethodPost, "/api/orders", order, idem)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit = %d %s", w.Code, w.Body.String())
	}
	var first struct {
		Order struct {
			ID         string `json:"id"`
			TotalPrice string `json:"total_price"`
		} `json:"order"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &first)
	if first.Order.TotalPrice != "250" {
		t.Fatalf("total = %q", first.Order.TotalPrice)
	}

	w = do(r, http.MethodPost, "/api/orders", order, idem)
	if w.Code != http.StatusCreated || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("replay = %d replayed=%q", w.Code, w.Header().Get(middleware.HeaderIdempotencyReplayed))
	}
	if !strings.Contains(w.Body.String(), first.Order.ID) {
		t.Fatalf("replay returned a different order: %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/orders", "", nil)
	var list []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 {
		t.Fatalf("orders = %d, want 1", len(list))
	}

	w = do(r, http.MethodPost, "/api/orders/complete/"+first.Order.ID, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"changed":true`) {
		t.Fatalf("complete = %d %s", w.Code, w.Body.String())
	}

	if w = do(r, http.MethodDelete, "/api/orders/"+first.Order.ID, "", nil); w.Code != http.StatusOK {
		t.Fatalf("delete order = %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/api/orders", order, idem)
	if w.Code != http.StatusCreated || w.Header().Get(middleware.HeaderIdempotencyReplayed) == "true" ||
		strings.Contains(w.Body.String(), first.Order.ID) {
		t.Fatalf("resubmit after delete = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/orders", `{"name":"Ama","email":"ama@example.com","phone":"1","address":"x","items":[{"door_id":"missing","quantity":1}]}`, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "missing") {
		t.Fatalf("unknown door = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/orders", order, map[string]string{middleware.HeaderIdempotencyKey: "bad key!"})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
		t.Fatalf("bad key = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_EnquiriesAndNewsletter(t *testing.T) {
	r := newRouter(t, testConfig("/"))

	w := do(r, http.MethodPost, "/contact", `{"first_name":"Kofi","last_name":"B","email":"k@example.com","phone":"1","enquiry_type":"Quote"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("contact = %d %s", w.Code, w.Body.String())
	}
	var enq struct {
		EnquiryID string `json:"enquiry_id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &enq)

	if w = do(r, http.MethodPost, "/contact/"+enq.EnquiryID+"/resolve", "", nil); w.Code != http.StatusOK {
		t.Fatalf("resolve = %d", w.Code)
	}
	w = do(r, http.MethodGet, "/contact/"+enq.EnquiryID, "", nil)
	if !strings.Contains(w.Body.String(), `"resolved":"yes"`) {
		t.Fatalf("enquiry = %s", w.Body.String())
	}
	if w = do(r, http.MethodGet, "/property/"+enq.EnquiryID, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("variants must not share ids: %d", w.Code)
	}

	if w = do(r, http.MethodPost, "/subscribe", `{"email":"Ama@Example.com"}`, nil); w.Code != http.StatusCreated {
		t.Fatalf("subscribe = %d %s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodPost, "/subscribe", `{"email":"ama@example.com"}`, nil); w.Code != http.StatusConflict {
		t.Fatalf("resubscribe = %d", w.Code)
	}
}

func TestRegisterRoutes_BodyLimit(t *testing.T) {
	r := newRouter(t, testConfig("/"))
	big := `{"name":"` + strings.Repeat("a", defaultBodyLimit) + `"}`
	w := do(r, http.MethodPost, "/doors", big, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body = %d", w.Code)
	}

	// uploads answer 503 until an image host is configured
	img := `{"image":"` + strings.Repeat("A", defaultBodyLimit+4) + `"}`
	w = do(r, http.MethodPost, "/images", img, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("image upload without host = %d %s", w.Code, w.Body.String())
	}
}

func Test_groupWithPrefix_And_joinPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/api/ping": "pong"} {
		w := do(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}

	if joinPath("/", "/orders") != "/orders" || joinPath("/api/v1", "/orders") != "/api/v1/orders" {
		t.Fatal("joinPath")
	}
}
