package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Abhi4906/mini-crm/pkg/jwtutil"
	"github.com/Abhi4906/mini-crm/pkg/logger"
	"github.com/Abhi4906/mini-crm/prometheus"
)

// AuthMiddleware verifies the JWT token and resolves the owner identity.
// Handlers only ever see the resolved user id, never the credential.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		prometheus.RecordAuthAttempt()

		// Extract the token from the Authorization header
		tokenString := c.Request().Header.Get("Authorization")
		if tokenString == "" {
			log.Warn("Missing authorization token")
			prometheus.RecordAuthError()
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
		}

		// Remove "Bearer " prefix if present
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
			tokenString = tokenString[7:]
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid token", zap.Error(err))
			prometheus.RecordAuthError()
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
		}

		prometheus.RecordAuthSuccess()

		// Store the resolved identity in the context
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		log = log.With(
			zap.Uint("user_id", claims.UserID),
			zap.String("email", claims.Email),
		)
		c.Set("logger", log)

		return next(c)
	}
}
