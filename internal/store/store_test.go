package store

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Abhi4906/mini-crm/internal/model"
)

// newTestDB opens an in-memory SQLite database with the same error
// translation the production Postgres connection uses. The pool is pinned
// to one connection so the memory database survives across calls.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Customer{}, &model.Lead{}); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return db
}

func newTestStores(t *testing.T) (*CustomerStore, *LeadStore) {
	t.Helper()
	db := newTestDB(t)
	return NewCustomerStore(db), NewLeadStore(db)
}

func mustCreateCustomer(t *testing.T, s *CustomerStore, owner uint, name, email string) *model.Customer {
	t.Helper()
	customer, err := s.Create(context.Background(), owner, CustomerInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("create customer %q: %v", email, err)
	}
	return customer
}

func mustCreateLead(t *testing.T, s *LeadStore, owner uint, in LeadInput) *model.Lead {
	t.Helper()
	lead, err := s.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create lead %q: %v", in.Title, err)
	}
	return lead
}
