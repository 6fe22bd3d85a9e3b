package store

import (
	"net/mail"
	"strings"

	"github.com/Abhi4906/mini-crm/internal/model"
)

// CustomerInput is the payload for creating or replacing a customer.
// Updates are full replacements; callers resend every field. Binding into
// this struct drops unknown request fields.
type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// Validate checks required fields and bounds, reporting only the first
// violation.
func (in *CustomerInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" {
		return invalid("name", "name is required")
	}
	if len(in.Name) < 2 || len(in.Name) > 50 {
		return invalid("name", "name must be between 2 and 50 characters")
	}
	if in.Email == "" {
		return invalid("email", "email is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalid("email", "email must be a valid email address")
	}
	return nil
}

// LeadInput is the payload for creating or replacing a lead. Value defaults
// to 0 when omitted.
type LeadInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.LeadStatus `json:"status"`
	Value       float64          `json:"value"`
	CustomerID  uint             `json:"customerId"`
}

// Validate checks required fields and bounds, reporting only the first
// violation. Ownership of the referenced customer is resolved separately by
// the store.
func (in *LeadInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)

	if in.Title == "" {
		return invalid("title", "title is required")
	}
	if len(in.Title) < 2 || len(in.Title) > 100 {
		return invalid("title", "title must be between 2 and 100 characters")
	}
	if in.Status == "" {
		return invalid("status", "status is required")
	}
	if !in.Status.Valid() {
		return invalid("status", "status must be one of New, Contacted, Converted, Lost")
	}
	if in.Value < 0 {
		return invalid("value", "value must not be negative")
	}
	if in.CustomerID == 0 {
		return invalid("customerId", "customerId is required")
	}
	return nil
}
