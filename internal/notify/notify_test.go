package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/HansOheneba/airban-api/internal/domain"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []Message
	fail  error
	block chan struct{}
}

func (f *fakeMailer) Send(ctx context.Context, m Message) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeMailer) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.sent...)
}

func testSettings() MailSettings {
	return MailSettings{
		FromOrders:   "Airban Doors <orders@example.com>",
		FromGeneral:  "Airban Doors <hello@example.com>",
		AdminEmail:   "admin@example.com",
		DashboardURL: "https://admin.example.com/",
	}
}

func sampleOrder() *domain.Order {
	notes := "Gate code 1234"
	return &domain.Order{
		ID:           "order-1",
		CustomerName: "kwame mensah",
		PhoneNumber:  "0240000000",
		Email:        "kwame@example.com",
		Location:     "Accra",
		Notes:        &notes,
		TotalPrice:   decimal.RequireFromString("250.00"),
		Items: []domain.OrderItem{
			{DoorID: "d1", DoorName: "Oak Single", Quantity: 2, UnitPrice: decimal.RequireFromString("100"), Orientation: domain.OrientationLeft},
			{DoorID: "d2", DoorName: "Pine Double", Quantity: 1, UnitPrice: decimal.RequireFromString("50"), Orientation: domain.OrientationRight},
		},
	}
}

func newComposer(t *testing.T, s MailSettings) *Composer {
	t.Helper()
	c, err := NewComposer(s)
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return c
}

func TestCompose_OrderPlaced(t *testing.T) {
	c := newComposer(t, testSettings())

	envs, err := c.Compose(Event{Kind: KindOrderPlaced, Order: sampleOrder()})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(envs) != 2 {
		t.Fatalf("want customer+admin, got %d", len(envs))
	}

	cust := envs[0]
	if cust.Recipient != RecipientCustomer || cust.Message.To[0] != "kwame@example.com" {
		t.Fatalf("unexpected customer envelope: %+v", cust)
	}
	if cust.Message.Subject != "Your Airban Doors Order Confirmation" {
		t.Fatalf("subject = %q", cust.Message.Subject)
	}
	for _, want := range []string{"Kwame Mensah", "Oak Single", "GHS 100.00", "GHS 200.00", "GHS 250.00"} {
		if !strings.Contains(cust.Message.HTML, want) {
			t.Fatalf("customer html missing %q", want)
		}
	}

	admin := envs[1]
	if admin.Message.Subject != "New Order Received from Kwame Mensah" {
		t.Fatalf("admin subject = %q", admin.Message.Subject)
	}
	if admin.Message.ReplyTo != "kwame@example.com" {
		t.Fatalf("reply-to = %q", admin.Message.ReplyTo)
	}
	for _, want := range []string{"Gate code 1234", "0240000000", "order-1", "https://admin.example.com/orders/order-1"} {
		if !strings.Contains(admin.Message.HTML, want) {
			t.Fatalf("admin html missing %q", want)
		}
	}
}

func TestCompose_EscapesUserInput(t *testing.T) {
	c := newComposer(t, testSettings())
	o := sampleOrder()
	o.Location = "<script>alert(1)</script>"

	envs, err := c.Compose(Event{Kind: KindOrderPlaced, Order: o})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if strings.Contains(envs[1].Message.HTML, "<script>") {
		t.Fatalf("admin html must escape user input")
	}
}

func TestCompose_NoAdminWhenUnset(t *testing.T) {
	s := testSettings()
	s.AdminEmail = ""
	c := newComposer(t, s)

	pe := &domain.PropertyEnquiry{
		Enquiry:          domain.Enquiry{ID: "e1", FirstName: "ama", LastName: "owusu", Email: "ama@example.com"},
		SelectedProperty: "Villa",
	}
	envs, err := c.Compose(Event{Kind: KindPropertyEnquiry, Property: pe})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(envs) != 1 || envs[0].Recipient != RecipientCustomer {
		t.Fatalf("want only customer envelope, got %+v", envs)
	}
}

func TestCompose_ContactAndWelcome(t *testing.T) {
	c := newComposer(t, testSettings())

	ce := &domain.ContactEnquiry{
		Enquiry:     domain.Enquiry{ID: "c1", FirstName: "Yaw", Email: "yaw@example.com"},
		EnquiryType: "Installation",
	}
	envs, err := c.Compose(Event{Kind: KindContactEnquiry, Contact: ce})
	if err != nil || len(envs) != 2 {
		t.Fatalf("contact: %d envelopes, %v", len(envs), err)
	}
	if !strings.Contains(envs[1].Message.HTML, "Installation") {
		t.Fatalf("admin html missing enquiry type")
	}

	envs, err = c.Compose(Event{Kind: KindSubscribed, Subscriber: &domain.Subscriber{ID: "s1", Email: "n@example.com"}})
	if err != nil || len(envs) != 1 || envs[0].Message.To[0] != "n@example.com" {
		t.Fatalf("welcome: %+v, %v", envs, err)
	}

	envs, err = c.Compose(Event{Kind: KindOrderPlaced})
	if err != nil || len(envs) != 0 {
		t.Fatalf("event without subject should yield nothing, got %d, %v", len(envs), err)
	}
}

func TestDispatcher_DeliversAndDrainsOnClose(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(m, newComposer(t, testSettings()), DispatcherOptions{Logger: zerolog.Nop()})
	d.Start(context.Background())

	for i := 0; i < 3; i++ {
		d.Notify(context.Background(), Event{Kind: KindOrderPlaced, Order: sampleOrder()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := len(m.messages()); got != 6 {
		t.Fatalf("sent %d messages; want 6", got)
	}
	if err := d.Close(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close: want ErrClosed, got %v", err)
	}

	// after close, Notify must not panic
	d.Notify(context.Background(), Event{Kind: KindOrderPlaced, Order: sampleOrder()})
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	m := &fakeMailer{block: make(chan struct{})}
	d := NewDispatcher(m, newComposer(t, testSettings()), DispatcherOptions{
		QueueSize: 1, Workers: 1, SendTimeout: time.Second, Logger: zerolog.Nop(),
	})
	d.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Notify(context.Background(), Event{Kind: KindSubscribed, Subscriber: &domain.Subscriber{Email: "x@example.com"}})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(m.block)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := len(m.messages()); got == 0 || got >= 10 {
		t.Fatalf("expected some but not all events delivered, got %d", got)
	}
}

func TestDispatcher_MailerFailureIsSwallowed(t *testing.T) {
	m := &fakeMailer{fail: errors.New("provider down")}
	d := NewDispatcher(m, newComposer(t, testSettings()), DispatcherOptions{Logger: zerolog.Nop()})
	d.Start(context.Background())
	d.Notify(context.Background(), Event{Kind: KindOrderPlaced, Order: sampleOrder()})
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishesEventJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, zerolog.Nop())

	ev := Event{Kind: KindOrderPlaced, OccurredAt: time.Now().UTC(), Order: sampleOrder()}
	p.Notify(context.Background(), ev)

	if len(w.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "order.placed-order-1" {
		t.Fatalf("key = %q", msg.Key)
	}
	if headerValue(msg, "kind") != "order.placed" {
		t.Fatalf("missing kind header")
	}
	var decoded struct {
		Kind  string `json:"kind"`
		Order struct {
			ID         string `json:"id"`
			TotalPrice string `json:"total_price"`
		} `json:"order"`
	}
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != "order.placed" || decoded.Order.ID != "order-1" || decoded.Order.TotalPrice != "250" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}

	w.err = errors.New("broker down")
	p.Notify(context.Background(), ev) // logged, not returned

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("Close: %v (closed=%v)", err, w.closed)
	}
}

type notifierFunc func(ctx context.Context, ev Event)

func (f notifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

func TestFanout_SkipsNilAndForwards(t *testing.T) {
	var got []Kind
	rec := notifierFunc(func(_ context.Context, ev Event) { got = append(got, ev.Kind) })

	Fanout{rec, nil, Discard, rec}.Notify(context.Background(), Event{Kind: KindSubscribed})
	if len(got) != 2 {
		t.Fatalf("want 2 deliveries, got %d", len(got))
	}
}
