package model

import "time"

// LeadStatus is the sales pipeline stage of a lead. Any stage may move to
// any other stage; no transition ordering is enforced.
type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusContacted LeadStatus = "Contacted"
	StatusConverted LeadStatus = "Converted"
	StatusLost      LeadStatus = "Lost"
)

// LeadStatuses lists every valid status in pipeline order. Aggregations
// return groups in this order.
var LeadStatuses = []LeadStatus{StatusNew, StatusContacted, StatusConverted, StatusLost}

// Valid reports whether s is one of the four pipeline stages.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusLost:
		return true
	}
	return false
}

// CustomerRef is the denormalized customer view attached to lead responses.
type CustomerRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Lead represents a sales opportunity tied to a customer of the same owner.
// The customer reference is checked when the lead is written, not enforced
// as a database constraint.
type Lead struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OwnerID     uint       `json:"ownerId" gorm:"index;not null"`
	CustomerID  uint       `json:"customerId" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"type:varchar(100);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      LeadStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	Value       float64    `json:"value" gorm:"default:0"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Customer is populated by the store on enriched reads; not a column.
	Customer *CustomerRef `json:"customer,omitempty" gorm:"-"`
}

// LeadStatGroup is one bucket of the status aggregation. The _id key is the
// group key expected by the reporting client.
type LeadStatGroup struct {
	Status     LeadStatus `json:"_id"`
	Count      int64      `json:"count"`
	TotalValue float64    `json:"totalValue"`
}
