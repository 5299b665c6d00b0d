package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/services"
)

// ---------- stub services ----------

type stubCatalog struct {
	list   func(context.Context) ([]domain.Door, error)
	get    func(context.Context, string) (*domain.Door, error)
	create func(context.Context, services.NewDoor) (*domain.Door, error)
	update func(context.Context, string, services.DoorPatch) (*domain.Door, bool, error)
	del    func(context.Context, string) error
}

func (s stubCatalog) ListActive(ctx context.Context) ([]domain.Door, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubCatalog) Get(ctx context.Context, id string) (*domain.Door, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, services.ErrDoorNotFound
}

func (s stubCatalog) Create(ctx context.Context, in services.NewDoor) (*domain.Door, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Door{ID: "door-1"}, nil
}

func (s stubCatalog) Update(ctx context.Context, id string, p services.DoorPatch) (*domain.Door, bool, error) {
	if s.update != nil {
		return s.update(ctx, id, p)
	}
	return nil, false, nil
}

func (s stubCatalog) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubOrders struct {
	submit   func(context.Context, services.SubmitOrderInput) (*domain.Order, error)
	replay   func(context.Context, string) (*domain.Order, bool, error)
	get      func(context.Context, string) (*domain.Order, error)
	list     func(context.Context) ([]domain.Order, error)
	complete func(context.Context, string) (bool, error)
	del      func(context.Context, string) error
}

func (s stubOrders) Submit(ctx context.Context, in services.SubmitOrderInput) (*domain.Order, error) {
	if s.submit != nil {
		return s.submit(ctx, in)
	}
	return &domain.Order{ID: "order-1"}, nil
}

func (s stubOrders) Replay(ctx context.Context, key string) (*domain.Order, bool, error) {
	if s.replay != nil {
		return s.replay(ctx, key)
	}
	return nil, false, nil
}

func (s stubOrders) Get(ctx context.Context, id string) (*domain.Order, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, services.ErrOrderNotFound
}

func (s stubOrders) List(ctx context.Context) ([]domain.Order, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubOrders) Complete(ctx context.Context, id string) (bool, error) {
	if s.complete != nil {
		return s.complete(ctx, id)
	}
	return true, nil
}

func (s stubOrders) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubEnquiries[T any] struct {
	submit      func(context.Context, *T) (*T, error)
	list        func(context.Context) ([]T, error)
	get         func(context.Context, string) (*T, error)
	setResolved func(context.Context, string, bool) error
	del         func(context.Context, string) error
}

func (s stubEnquiries[T]) Submit(ctx context.Context, e *T) (*T, error) {
	if s.submit != nil {
		return s.submit(ctx, e)
	}
	return e, nil
}

func (s stubEnquiries[T]) List(ctx context.Context) ([]T, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubEnquiries[T]) Get(ctx context.Context, id string) (*T, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, services.ErrEnquiryNotFound
}

func (s stubEnquiries[T]) SetResolved(ctx context.Context, id string, resolved bool) error {
	if s.setResolved != nil {
		return s.setResolved(ctx, id, resolved)
	}
	return nil
}

func (s stubEnquiries[T]) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubNewsletter func(context.Context, string) (*domain.Subscriber, error)

func (f stubNewsletter) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	return f(ctx, email)
}

type stubUploader func(context.Context, []byte, string) (string, error)

func (f stubUploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	return f(ctx, data, name)
}

// ---------- harness ----------

// newTestHandlers fills unset services with zero-value stubs.
func newTestHandlers(s Services) *Handlers {
	if s.Catalog == nil {
		s.Catalog = stubCatalog{}
	}
	if s.Orders == nil {
		s.Orders = stubOrders{}
	}
	if s.Property == nil {
		s.Property = stubEnquiries[domain.PropertyEnquiry]{}
	}
	if s.Contact == nil {
		s.Contact = stubEnquiries[domain.ContactEnquiry]{}
	}
	if s.Newsletter == nil {
		s.Newsletter = stubNewsletter(func(context.Context, string) (*domain.Subscriber, error) {
			return &domain.Subscriber{ID: "sub-1"}, nil
		})
	}
	return New(s)
}

func serve(t *testing.T, method, path string, h gin.HandlerFunc, route string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withRequestScope("rid-test", nil))
	r.Handle(method, route, h)

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
}
