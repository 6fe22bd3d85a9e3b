package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Abhi4906/mini-crm/internal/model"
	"github.com/Abhi4906/mini-crm/prometheus"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// CustomerStore owns customer records. Every operation is scoped to the
// owner id resolved by the auth middleware.
type CustomerStore struct {
	db *gorm.DB
}

// NewCustomerStore creates a customer store backed by db.
func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// ListParams control pagination and search for List.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// CustomerPage is one page of customers plus pagination totals.
type CustomerPage struct {
	Customers      []model.Customer
	CurrentPage    int
	TotalPages     int
	TotalCustomers int64
}

// List returns a page of the owner's customers, newest first, optionally
// narrowed by a case-insensitive substring match on name or email. Pages
// past the end come back empty, not as an error.
func (s *CustomerStore) List(ctx context.Context, ownerID uint, params ListParams) (*CustomerPage, error) {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Customer{}).Where("owner_id = ?", ownerID)
		if search := strings.TrimSpace(params.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	customers := make([]model.Customer, 0, limit)
	err := scope().
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	return &CustomerPage{
		Customers:      customers,
		CurrentPage:    page,
		TotalPages:     int(math.Ceil(float64(total) / float64(limit))),
		TotalCustomers: total,
	}, nil
}

// FindByEmail is the point lookup used as an existence check before
// creating a customer. The match is exact, scoped to the owner.
func (s *CustomerStore) FindByEmail(ctx context.Context, ownerID uint, email string) (*model.Customer, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var customer model.Customer
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND email = ?", ownerID, email).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return &customer, nil
}

// Get returns the owner's customer plus the leads referencing it.
func (s *CustomerStore) Get(ctx context.Context, ownerID, id uint) (*model.Customer, []model.Lead, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var customer model.Customer
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get customer: %w", err)
	}

	leads := make([]model.Lead, 0)
	err = s.db.WithContext(ctx).
		Where("owner_id = ? AND customer_id = ?", ownerID, id).
		Order("created_at DESC, id DESC").
		Find(&leads).Error
	if err != nil {
		return nil, nil, fmt.Errorf("get customer leads: %w", err)
	}

	return &customer, leads, nil
}

// Create validates in and persists a new customer for ownerID. The owner id
// always comes from the authenticated identity; any client-supplied value is
// ignored. A same-owner email collision is reported by the database unique
// index, not pre-checked, so concurrent creates race safely.
func (s *CustomerStore) Create(ctx context.Context, ownerID uint, in CustomerInput) (*model.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	customer := model.Customer{
		OwnerID: ownerID,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &customer, nil
}

// Update replaces every validated field of the owner's customer. ID, owner
// and creation time are never touched.
func (s *CustomerStore) Update(ctx context.Context, ownerID, id uint, in CustomerInput) (*model.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var customer model.Customer
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load customer for update: %w", err)
	}

	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Company = in.Company

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.db.WithContext(ctx).Save(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return &customer, nil
}

// Delete removes the owner's customer and every lead referencing it. Both
// deletes run in one transaction: if the lead sweep fails the customer
// delete rolls back, so this path cannot orphan leads.
func (s *CustomerStore) Delete(ctx context.Context, ownerID, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Customer{})
		if res.Error != nil {
			return fmt.Errorf("delete customer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCustomerNotFound
		}
		err := tx.Where("customer_id = ? AND owner_id = ?", id, ownerID).Delete(&model.Lead{}).Error
		if err != nil {
			return fmt.Errorf("delete dependent leads: %w", err)
		}
		return nil
	})
}
