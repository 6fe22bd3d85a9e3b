package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCustomerStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	created := mustCreateCustomer(t, customers, 1, "Ada", "ada@x.com")
	if created.ID == 0 {
		t.Fatalf("expected store-assigned id")
	}
	if created.OwnerID != 1 {
		t.Fatalf("expected owner id 1, got %d", created.OwnerID)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}

	got, leads, err := customers.Get(ctx, 1, created.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.Name != "Ada" || got.Email != "ada@x.com" {
		t.Fatalf("round-trip mismatch: %q %q", got.Name, got.Email)
	}
	if len(leads) != 0 {
		t.Fatalf("expected no leads, got %d", len(leads))
	}
}

func TestCustomerStore_OwnerIdInjected(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	// Owner id always comes from the authenticated identity, never the
	// payload: CustomerInput has no owner field to smuggle one in.
	created, err := customers.Create(ctx, 7, CustomerInput{Name: "Bo", Email: "bo@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.OwnerID != 7 {
		t.Fatalf("expected owner id 7, got %d", created.OwnerID)
	}
}

func TestCustomerStore_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	mine := mustCreateCustomer(t, customers, 1, "Ada", "ada@x.com")

	if _, _, err := customers.Get(ctx, 2, mine.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("get as other owner: expected ErrCustomerNotFound, got %v", err)
	}
	input := CustomerInput{Name: "Eve", Email: "eve@x.com"}
	if _, err := customers.Update(ctx, 2, mine.ID, input); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("update as other owner: expected ErrCustomerNotFound, got %v", err)
	}
	if err := customers.Delete(ctx, 2, mine.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("delete as other owner: expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := customers.FindByEmail(ctx, 2, "ada@x.com"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("find by email as other owner: expected ErrCustomerNotFound, got %v", err)
	}

	page, err := customers.List(ctx, 2, ListParams{})
	if err != nil {
		t.Fatalf("list as other owner: %v", err)
	}
	if len(page.Customers) != 0 || page.TotalCustomers != 0 {
		t.Fatalf("expected empty list for other owner, got %d/%d", len(page.Customers), page.TotalCustomers)
	}

	// A failed foreign delete must not have removed the record.
	if _, _, err := customers.Get(ctx, 1, mine.ID); err != nil {
		t.Fatalf("customer gone after foreign delete attempt: %v", err)
	}
}

func TestCustomerStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	mustCreateCustomer(t, customers, 1, "Ada", "x@y.com")

	if _, err := customers.Create(ctx, 1, CustomerInput{Name: "Twin", Email: "x@y.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("same-owner duplicate: expected ErrDuplicateEmail, got %v", err)
	}

	// The same address under a different owner is fine.
	if _, err := customers.Create(ctx, 2, CustomerInput{Name: "Other", Email: "x@y.com"}); err != nil {
		t.Fatalf("cross-owner duplicate should succeed: %v", err)
	}
}

func TestCustomerStore_UpdateEmailCollision(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	mustCreateCustomer(t, customers, 1, "Ada", "ada@x.com")
	other := mustCreateCustomer(t, customers, 1, "Bo", "bo@x.com")

	input := CustomerInput{Name: "Bo", Email: "ada@x.com"}
	if _, err := customers.Update(ctx, 1, other.ID, input); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCustomerStore_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	created := mustCreateCustomer(t, customers, 1, "Ada", "ada@x.com")

	updated, err := customers.Update(ctx, 1, created.ID, CustomerInput{
		Name:    "Ada L",
		Email:   "ada@x.com",
		Phone:   "",
		Company: "",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ada L" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	got, _, err := customers.Get(ctx, 1, created.ID)
	if err != nil {
		t.Fatalf("re-fetch: %v", err)
	}
	if got.Name != "Ada L" || got.Email != "ada@x.com" {
		t.Fatalf("update not persisted: %q %q", got.Name, got.Email)
	}
	if got.OwnerID != 1 || got.ID != created.ID {
		t.Fatalf("identity fields changed by update")
	}
}

func TestCustomerStore_Validation(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	tests := []struct {
		name  string
		input CustomerInput
		field string
	}{
		{"missing name", CustomerInput{Email: "a@x.com"}, "name"},
		{"short name", CustomerInput{Name: "A", Email: "a@x.com"}, "name"},
		{"long name", CustomerInput{Name: strings.Repeat("a", 51), Email: "a@x.com"}, "name"},
		{"missing email", CustomerInput{Name: "Ada"}, "email"},
		{"bad email", CustomerInput{Name: "Ada", Email: "not-an-email"}, "email"},
		// Both fields invalid: only the first is reported.
		{"first violation wins", CustomerInput{Name: "", Email: "also-bad"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customers.Create(ctx, 1, tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestCustomerStore_ListPagination(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	for i := 0; i < 25; i++ {
		mustCreateCustomer(t, customers, 1, fmt.Sprintf("Customer %02d", i), fmt.Sprintf("c%02d@x.com", i))
	}

	page, err := customers.List(ctx, 1, ListParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Customers) != 10 {
		t.Fatalf("expected 10 customers, got %d", len(page.Customers))
	}
	if page.TotalCustomers != 25 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	// Newest first.
	if page.Customers[0].Email != "c24@x.com" {
		t.Fatalf("expected newest customer first, got %q", page.Customers[0].Email)
	}

	last, err := customers.List(ctx, 1, ListParams{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Customers) != 5 {
		t.Fatalf("expected 5 customers on last page, got %d", len(last.Customers))
	}

	// Past the end: empty page, not an error.
	beyond, err := customers.List(ctx, 1, ListParams{Page: 4, Limit: 10})
	if err != nil {
		t.Fatalf("list past the end: %v", err)
	}
	if len(beyond.Customers) != 0 || beyond.TotalPages != 3 {
		t.Fatalf("expected empty page past the end, got %d", len(beyond.Customers))
	}

	// Defaults: page and limit below 1 fall back to 1 and 10.
	defaults, err := customers.List(ctx, 1, ListParams{})
	if err != nil {
		t.Fatalf("list with defaults: %v", err)
	}
	if defaults.CurrentPage != 1 || len(defaults.Customers) != 10 {
		t.Fatalf("unexpected defaults: page %d count %d", defaults.CurrentPage, len(defaults.Customers))
	}

	// Oversized limit is capped back to the default.
	capped, err := customers.List(ctx, 1, ListParams{Limit: 1000})
	if err != nil {
		t.Fatalf("list with oversized limit: %v", err)
	}
	if len(capped.Customers) != 10 {
		t.Fatalf("expected capped limit, got %d customers", len(capped.Customers))
	}
}

func TestCustomerStore_ListSearch(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	mustCreateCustomer(t, customers, 1, "Ada Lovelace", "ada@example.com")
	mustCreateCustomer(t, customers, 1, "Grace Hopper", "grace@navy.mil")
	mustCreateCustomer(t, customers, 1, "Alan Turing", "alan@bletchley.uk")

	// Case-insensitive substring against the name.
	page, err := customers.List(ctx, 1, ListParams{Search: "LOVE"})
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(page.Customers) != 1 || page.Customers[0].Name != "Ada Lovelace" {
		t.Fatalf("unexpected search result: %+v", page.Customers)
	}

	// Substring against the email as well.
	page, err = customers.List(ctx, 1, ListParams{Search: "navy"})
	if err != nil {
		t.Fatalf("search by email: %v", err)
	}
	if len(page.Customers) != 1 || page.Customers[0].Name != "Grace Hopper" {
		t.Fatalf("unexpected search result: %+v", page.Customers)
	}

	// Matches across both fields are combined.
	page, err = customers.List(ctx, 1, ListParams{Search: "a"})
	if err != nil {
		t.Fatalf("broad search: %v", err)
	}
	if len(page.Customers) != 3 {
		t.Fatalf("expected all three, got %d", len(page.Customers))
	}

	page, err = customers.List(ctx, 1, ListParams{Search: "nobody"})
	if err != nil {
		t.Fatalf("search with no hits: %v", err)
	}
	if len(page.Customers) != 0 || page.TotalCustomers != 0 {
		t.Fatalf("expected no results, got %d", len(page.Customers))
	}
}

func TestCustomerStore_FindByEmailExactMatch(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	mustCreateCustomer(t, customers, 1, "Ada", "ada@x.com")

	found, err := customers.FindByEmail(ctx, 1, "ada@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.Name != "Ada" {
		t.Fatalf("unexpected customer: %+v", found)
	}

	// Exact match only, no substring semantics.
	if _, err := customers.FindByEmail(ctx, 1, "ada"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound for partial email, got %v", err)
	}
}

func TestCustomerStore_DeleteCascadesLeads(t *testing.T) {
	ctx := context.Background()
	customers, leads := newTestStores(t)

	doomed := mustCreateCustomer(t, customers, 1, "Bo", "bo@x.com")
	kept := mustCreateCustomer(t, customers, 1, "Ada", "ada@x.com")

	l1 := mustCreateLead(t, leads, 1, LeadInput{Title: "Intro", Status: "New", Value: 100, CustomerID: doomed.ID})
	l2 := mustCreateLead(t, leads, 1, LeadInput{Title: "Deal", Status: "Converted", Value: 500, CustomerID: doomed.ID})
	survivor := mustCreateLead(t, leads, 1, LeadInput{Title: "Other", Status: "New", CustomerID: kept.ID})

	if err := customers.Delete(ctx, 1, doomed.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}

	if _, _, err := customers.Get(ctx, 1, doomed.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected customer gone, got %v", err)
	}
	if _, err := leads.Get(ctx, 1, l1.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected lead %d gone, got %v", l1.ID, err)
	}
	if _, err := leads.Get(ctx, 1, l2.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected lead %d gone, got %v", l2.ID, err)
	}

	// Exactly the dependent leads disappear.
	remaining, err := leads.List(ctx, 1, LeadFilter{})
	if err != nil {
		t.Fatalf("list remaining leads: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != survivor.ID {
		t.Fatalf("expected only the unrelated lead to remain, got %+v", remaining)
	}
}

func TestCustomerStore_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	customers, _ := newTestStores(t)

	if err := customers.Delete(ctx, 1, 12345); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
