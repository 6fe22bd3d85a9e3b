package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Abhi4906/mini-crm/internal/store"
	"github.com/Abhi4906/mini-crm/pkg/logger"
	"github.com/Abhi4906/mini-crm/prometheus"
)

// CustomerHandler maps customer store operations to the REST contract.
type CustomerHandler struct {
	store *store.CustomerStore
}

// NewCustomerHandler creates a customer handler over s.
func NewCustomerHandler(s *store.CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: s}
}

// List handles GET /api/customers. An exact ?email= lookup short-circuits
// pagination and search: the client uses it as an existence check before
// creating a customer, and expects {"customer": null} rather than a 404.
func (h *CustomerHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCustomerOperation("list")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	if email := c.QueryParam("email"); email != "" {
		customer, err := h.store.FindByEmail(c.Request().Context(), owner, email)
		if err != nil && !errors.Is(err, store.ErrCustomerNotFound) {
			log.Error("Failed to look up customer by email", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"customer": customer})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.store.List(c.Request().Context(), owner, store.ListParams{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Customers retrieved",
		zap.Int("count", len(result.Customers)),
		zap.Int64("total", result.TotalCustomers),
		zap.Uint("owner_id", owner))

	return c.JSON(http.StatusOK, echo.Map{
		"customers":      result.Customers,
		"currentPage":    result.CurrentPage,
		"totalPages":     result.TotalPages,
		"totalCustomers": result.TotalCustomers,
	})
}

// Get handles GET /api/customers/:id, returning the customer together with
// its leads.
func (h *CustomerHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCustomerOperation("get")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
	}

	customer, leads, err := h.store.Get(c.Request().Context(), owner, id)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"customer": customer, "leads": leads})
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCustomerOperation("create")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var in store.CustomerInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	customer, err := h.store.Create(c.Request().Context(), owner, in)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.String("email", customer.Email),
		zap.Uint("owner_id", owner))

	return c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /api/customers/:id. The payload is a full replacement
// of the validated fields.
func (h *CustomerHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCustomerOperation("update")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
	}

	var in store.CustomerInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	customer, err := h.store.Update(c.Request().Context(), owner, id, in)
	if err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Customer updated", zap.Uint("customer_id", customer.ID), zap.Uint("owner_id", owner))

	return c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id, cascading to the customer's
// leads.
func (h *CustomerHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCustomerOperation("delete")

	owner, ok := ownerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
	}

	if err := h.store.Delete(c.Request().Context(), owner, id); err != nil {
		return writeStoreError(c, log, err)
	}

	log.Info("Customer removed", zap.Uint("customer_id", id), zap.Uint("owner_id", owner))

	return c.JSON(http.StatusOK, echo.Map{"message": "Customer removed"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
