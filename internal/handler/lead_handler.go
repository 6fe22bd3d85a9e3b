package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Abhi4906/mini-crm/internal/model"
	"github.com/Abhi4906/mini-crm/internal/store"
	"github.com/Abhi4906/mini-crm/pkg/logger"
	"github.com/Abhi4906/mini-crm/prometheus"
)

// LeadHandler maps lead store operations to the REST contract.
type LeadHandler struct {
	store *store.LeadStore
}

// NewLeadHandler creates a lead handler over s.
func NewLeadHandler(s *store.LeadStore) *LeadHandler {
	return &LeadHandler{store: s}
}

// List handles GET /api/leads with optional exact ?status= and ?customerId=
// filters. The response is a bare array of enriched leads.
func (h *LeadHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("list")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	filter := store.LeadFilter{
		Status: model.LeadStatus(c.QueryParam("status")),
	}
	if raw := c.QueryParam("customerId"); raw != "" {
		customerID, err := parseID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
		}
		filter.CustomerID = customerID
	}

	leads, err := h.store.List(c.Request().Context(), owner, filter)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Leads retrieved", zap.Int("count", len(leads)), zap.Uint("owner_id", owner))

	return c.JSON(http.StatusOK, leads)
}

// Get handles GET /api/leads/:id.
func (h *LeadHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("get")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid lead ID"})
	}

	lead, err := h.store.Get(c.Request().Context(), owner, id)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	return c.JSON(http.StatusOK, lead)
}

// Create handles POST /api/leads. The referenced customer must belong to
// the caller; a cross-owner reference reads as "Customer not found".
func (h *LeadHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("create")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var in store.LeadInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	lead, err := h.store.Create(c.Request().Context(), owner, in)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Lead created",
		zap.Uint("lead_id", lead.ID),
		zap.Uint("customer_id", lead.CustomerID),
		zap.String("status", string(lead.Status)),
		zap.Uint("owner_id", owner))

	return c.JSON(http.StatusCreated, lead)
}

// Update handles PUT /api/leads/:id. The payload is a full replacement and
// the customer reference is re-resolved, so a lead can be re-pointed, but
// only at a customer of the same owner.
func (h *LeadHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("update")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid lead ID"})
	}

	var in store.LeadInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	lead, err := h.store.Update(c.Request().Context(), owner, id, in)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Lead updated", zap.Uint("lead_id", lead.ID), zap.Uint("owner_id", owner))

	return c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /api/leads/:id.
func (h *LeadHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("delete")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid lead ID"})
	}

	if err := h.store.Delete(c.Request().Context(), owner, id); err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Lead removed", zap.Uint("lead_id", id), zap.Uint("owner_id", owner))

	return c.JSON(http.StatusOK, echo.Map{"message": "Lead removed"})
}

// Stats handles GET /api/leads/stats: the owner's leads grouped by status
// with counts and value totals, as a bare array in pipeline order.
func (h *LeadHandler) Stats(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("stats")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	stats, err := h.store.Stats(c.Request().Context(), owner)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	return c.JSON(http.StatusOK, stats)
}
