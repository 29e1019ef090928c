package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/paygate/internal/pkg/constants"
)

const maxRequestIDLength = 128

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns a new
// one, echoing it on the response and tagging the New Relic transaction.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(constants.HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.NewString()
			}

			c.Set(constants.ContextKeyRequestID, id)
			c.Response().Header().Set(constants.HeaderRequestID, id)

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				txn.AddAttribute("request_id", id)
			}

			return next(c)
		}
	}
}
