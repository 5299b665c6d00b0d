package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/HansOheneba/airban-api/internal/domain"
)

func TestEnquiryLifecycle_Property(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	pe := &domain.PropertyEnquiry{
		Enquiry:          domain.Enquiry{FirstName: "Ama", LastName: "Mensah", Email: "ama@example.com", Phone: "020"},
		SelectedProperty: "East Legon Villa",
		Message:          "Is it still available?",
	}
	if err := CreateEnquiry(ctx, db, pe); err != nil {
		t.Fatalf("CreateEnquiry: %v", err)
	}
	if pe.ID == "" || pe.Resolved != domain.ResolvedNo || pe.SubmittedAt.IsZero() {
		t.Fatalf("header not populated: %+v", pe.Enquiry)
	}

	got, err := GetEnquiry[domain.PropertyEnquiry](ctx, db, pe.ID)
	if err != nil {
		t.Fatalf("GetEnquiry: %v", err)
	}
	if got.SelectedProperty != "East Legon Villa" || got.FirstName != "Ama" {
		t.Fatalf("unexpected enquiry: %+v", got)
	}

	if err := SetEnquiryResolved[domain.PropertyEnquiry](ctx, db, pe.ID, domain.ResolvedYes); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := SetEnquiryResolved[domain.PropertyEnquiry](ctx, db, pe.ID, domain.ResolvedYes); err != nil {
		t.Fatalf("resolve twice should be fine: %v", err)
	}
	got, _ = GetEnquiry[domain.PropertyEnquiry](ctx, db, pe.ID)
	if got.Resolved != domain.ResolvedYes {
		t.Fatalf("resolved = %q; want yes", got.Resolved)
	}
	if err := SetEnquiryResolved[domain.PropertyEnquiry](ctx, db, "nope", domain.ResolvedYes); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing enquiry: want ErrNotFound, got %v", err)
	}

	list, err := ListEnquiries[domain.PropertyEnquiry](ctx, db)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListEnquiries: %d, %v", len(list), err)
	}

	if err := DeleteEnquiry[domain.PropertyEnquiry](ctx, db, pe.ID); err != nil {
		t.Fatalf("DeleteEnquiry: %v", err)
	}
	if err := DeleteEnquiry[domain.PropertyEnquiry](ctx, db, pe.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
	if _, err := GetEnquiry[domain.PropertyEnquiry](ctx, db, pe.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("hard-deleted enquiry: want ErrNotFound, got %v", err)
	}
}

func TestEnquiryVariants_AreSeparateTables(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ce := &domain.ContactEnquiry{
		Enquiry:     domain.Enquiry{FirstName: "Yaw", LastName: "Asante", Email: "yaw@example.com", Phone: "024"},
		EnquiryType: "Installation",
	}
	if err := CreateEnquiry(ctx, db, ce); err != nil {
		t.Fatalf("CreateEnquiry: %v", err)
	}

	props, err := ListEnquiries[domain.PropertyEnquiry](ctx, db)
	if err != nil || len(props) != 0 {
		t.Fatalf("property list should be empty, got %d (%v)", len(props), err)
	}
	contacts, err := ListEnquiries[domain.ContactEnquiry](ctx, db)
	if err != nil || len(contacts) != 1 || contacts[0].EnquiryType != "Installation" {
		t.Fatalf("unexpected contacts: %+v (%v)", contacts, err)
	}
	if _, err := GetEnquiry[domain.PropertyEnquiry](ctx, db, ce.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("contact id must not resolve as property, got %v", err)
	}
}
