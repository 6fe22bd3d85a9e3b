package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Abhi4906/mini-crm/internal/store"
)

// ownerID pulls the authenticated user id set by the auth middleware.
func ownerID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}

// writeStoreError maps store failures to the wire contract: 400 for
// validation and email conflicts, 404 for absent or not-owned records (the
// two are indistinguishable so callers cannot probe other owners' data),
// 500 with an opaque message for everything else. Internal detail is only
// ever logged.
func writeStoreError(c echo.Context, log *zap.Logger, err error) error {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": verr.Message})
	case errors.Is(err, store.ErrDuplicateEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already exists"})
	case errors.Is(err, store.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
	case errors.Is(err, store.ErrLeadNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Lead not found"})
	default:
		log.Error("Store operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
}
