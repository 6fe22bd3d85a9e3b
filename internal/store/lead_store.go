package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Abhi4906/mini-crm/internal/model"
	"github.com/Abhi4906/mini-crm/prometheus"
)

// LeadStore owns lead records. Reads come back enriched with the
// denormalized view of each lead's customer; writes re-resolve the customer
// reference against the same owner.
type LeadStore struct {
	db *gorm.DB
}

// NewLeadStore creates a lead store backed by db.
func NewLeadStore(db *gorm.DB) *LeadStore {
	return &LeadStore{db: db}
}

// LeadFilter narrows List by exact status and/or customer id. Zero values
// mean no filter.
type LeadFilter struct {
	Status     model.LeadStatus
	CustomerID uint
}

// List returns the owner's leads, newest first, enriched with customer
// name and email.
func (s *LeadStore) List(ctx context.Context, ownerID uint, filter LeadFilter) ([]model.Lead, error) {
	query := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	leads := make([]model.Lead, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if err := s.attachCustomers(ctx, ownerID, leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Get returns a single enriched lead of the owner.
func (s *LeadStore) Get(ctx context.Context, ownerID, id uint) (*model.Lead, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var lead model.Lead
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	ref, err := s.resolveCustomer(ctx, ownerID, lead.CustomerID)
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}
	lead.Customer = ref
	return &lead, nil
}

// Create validates in, resolves the referenced customer under the same
// owner, and persists a new lead. The owner id always comes from the
// authenticated identity.
func (s *LeadStore) Create(ctx context.Context, ownerID uint, in LeadInput) (*model.Lead, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ref, err := s.resolveCustomer(ctx, ownerID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	lead := model.Lead{
		OwnerID:     ownerID,
		CustomerID:  in.CustomerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Value:       in.Value,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	lead.Customer = ref
	return &lead, nil
}

// Update replaces every validated field of the owner's lead. Re-pointing the
// lead at another customer is allowed, but only to one the same owner
// controls; the reference is resolved before the lead itself is looked up.
func (s *LeadStore) Update(ctx context.Context, ownerID, id uint, in LeadInput) (*model.Lead, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ref, err := s.resolveCustomer(ctx, ownerID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	var lead model.Lead
	err = s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load lead for update: %w", err)
	}

	lead.CustomerID = in.CustomerID
	lead.Title = in.Title
	lead.Description = in.Description
	lead.Status = in.Status
	lead.Value = in.Value

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.db.WithContext(ctx).Save(&lead).Error; err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	lead.Customer = ref
	return &lead, nil
}

// Delete removes the owner's lead.
func (s *LeadStore) Delete(ctx context.Context, ownerID, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Lead{})
	if res.Error != nil {
		return fmt.Errorf("delete lead: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Stats groups the owner's leads by status, with a count and value sum per
// group. Statuses without leads are omitted; present groups come back in
// pipeline order so the output is deterministic.
func (s *LeadStore) Stats(ctx context.Context, ownerID uint) ([]model.LeadStatGroup, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var rows []model.LeadStatGroup
	err := s.db.WithContext(ctx).
		Model(&model.Lead{}).
		Select("status, COUNT(*) AS count, SUM(value) AS total_value").
		Where("owner_id = ?", ownerID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate lead stats: %w", err)
	}

	byStatus := make(map[model.LeadStatus]model.LeadStatGroup, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}
	groups := make([]model.LeadStatGroup, 0, len(rows))
	for _, status := range model.LeadStatuses {
		if group, ok := byStatus[status]; ok {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// resolveCustomer enforces the referential rule: a lead may only point at a
// customer of the same owner.
func (s *LeadStore) resolveCustomer(ctx context.Context, ownerID, customerID uint) (*model.CustomerRef, error) {
	var customer model.Customer
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", customerID, ownerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve lead customer: %w", err)
	}
	return &model.CustomerRef{ID: customer.ID, Name: customer.Name, Email: customer.Email}, nil
}

// attachCustomers fills the denormalized customer view on each lead with a
// single lookup over the distinct customer ids.
func (s *LeadStore) attachCustomers(ctx context.Context, ownerID uint, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	seen := make(map[uint]bool, len(leads))
	ids := make([]uint, 0, len(leads))
	for _, lead := range leads {
		if !seen[lead.CustomerID] {
			seen[lead.CustomerID] = true
			ids = append(ids, lead.CustomerID)
		}
	}

	var customers []model.Customer
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&customers).Error
	if err != nil {
		return fmt.Errorf("load lead customers: %w", err)
	}

	refs := make(map[uint]*model.CustomerRef, len(customers))
	for _, c := range customers {
		refs[c.ID] = &model.CustomerRef{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	for i := range leads {
		leads[i].Customer = refs[leads[i].CustomerID]
	}
	return nil
}
