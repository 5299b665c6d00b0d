package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HansOheneba/airban-api/internal/domain"
	"github.com/HansOheneba/airban-api/internal/notify"
)

func TestPropertyEnquiry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc := NewPropertyEnquiryService(newServiceDB(t), rec, 5*time.Second)

	e, err := svc.Submit(ctx, &domain.PropertyEnquiry{
		Enquiry:          domain.Enquiry{FirstName: " Esi ", LastName: "Quaye", Email: "esi@example.com", Phone: "0201234567"},
		SelectedProperty: "Airport Residential",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if e.ID == "" || e.Resolved != domain.ResolvedNo || e.FirstName != "Esi" {
		t.Fatalf("unexpected stored enquiry: %+v", e.Enquiry)
	}
	if kinds := rec.kinds(); len(kinds) != 1 || kinds[0] != notify.KindPropertyEnquiry {
		t.Fatalf("events = %v", kinds)
	}

	if err := svc.SetResolved(ctx, e.ID, true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := svc.SetResolved(ctx, e.ID, true); err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	got, err := svc.Get(ctx, e.ID)
	if err != nil || got.Resolved != domain.ResolvedYes {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if err := svc.SetResolved(ctx, e.ID, false); err != nil {
		t.Fatalf("unresolve: %v", err)
	}
	if err := svc.SetResolved(ctx, "missing", true); !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("want ErrEnquiryNotFound, got %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %d, %v", len(list), err)
	}

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, e.ID); !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("second Delete: want ErrEnquiryNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, e.ID); !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("Get after delete: want ErrEnquiryNotFound, got %v", err)
	}
}

func TestEnquiry_RequiredFields(t *testing.T) {
	ctx := context.Background()
	db := newServiceDB(t)
	props := NewPropertyEnquiryService(db, nil, time.Second)
	contacts := NewContactEnquiryService(db, nil, time.Second)

	header := func() domain.Enquiry {
		return domain.Enquiry{FirstName: "Kojo", LastName: "Annan", Email: "kojo@example.com", Phone: "024"}
	}
	var ve *ValidationError

	h := header()
	h.LastName = ""
	if _, err := props.Submit(ctx, &domain.PropertyEnquiry{Enquiry: h, SelectedProperty: "X"}); !errors.As(err, &ve) || ve.Field != "last_name" {
		t.Fatalf("want last_name validation, got %v", err)
	}
	h = header()
	h.Email = "kojo"
	if _, err := contacts.Submit(ctx, &domain.ContactEnquiry{Enquiry: h, EnquiryType: "General"}); !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("want email validation, got %v", err)
	}
	if _, err := props.Submit(ctx, &domain.PropertyEnquiry{Enquiry: header()}); !errors.As(err, &ve) || ve.Field != "selected_property" {
		t.Fatalf("want selected_property validation, got %v", err)
	}
	if _, err := contacts.Submit(ctx, &domain.ContactEnquiry{Enquiry: header()}); !errors.As(err, &ve) || ve.Field != "enquiry_type" {
		t.Fatalf("want enquiry_type validation, got %v", err)
	}

	c, err := contacts.Submit(ctx, &domain.ContactEnquiry{Enquiry: header(), EnquiryType: "Installation"})
	if err != nil {
		t.Fatalf("contact Submit: %v", err)
	}
	if _, err := props.Get(ctx, c.ID); !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("variants must not share ids, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc := &NewsletterService{DB: newServiceDB(t), Notifier: rec, AcquireTimeout: time.Second}

	s, err := svc.Subscribe(ctx, "  Reader@Example.com ")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if s.Email != "reader@example.com" {
		t.Fatalf("email = %q; want normalized", s.Email)
	}
	if _, err := svc.Subscribe(ctx, "reader@example.com"); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("want ErrAlreadySubscribed, got %v", err)
	}

	var n int64
	svc.DB.Model(&domain.Subscriber{}).Where("email = ?", "reader@example.com").Count(&n)
	if n != 1 {
		t.Fatalf("subscriber rows = %d; want 1", n)
	}
	if kinds := rec.kinds(); len(kinds) != 1 || kinds[0] != notify.KindSubscribed {
		t.Fatalf("events = %v", kinds)
	}

	var ve *ValidationError
	if _, err := svc.Subscribe(ctx, "nope"); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}
