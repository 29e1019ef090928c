package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestResponses(t *testing.T) {
	tests := []struct {
		name       string
		send       func(c echo.Context) error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "message",
			send:       func(c echo.Context) error { return MessageResponseHandler(c, http.StatusOK, "Webhook received successfully") },
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Webhook received successfully"}`,
		},
		{
			name: "bad request with details",
			send: func(c echo.Context) error {
				return BadRequestResponse(c, "Validation failed", map[string][]string{"amount": {"The amount field is required."}})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Validation failed","details":{"amount":["The amount field is required."]}}`,
		},
		{
			name:       "bad request without details",
			send:       func(c echo.Context) error { return BadRequestResponse(c, "Failed to initiate payment", nil) },
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Failed to initiate payment"}`,
		},
		{
			name:       "not found default message",
			send:       func(c echo.Context) error { return NotFoundResponse(c, "") },
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Resource not found"}`,
		},
		{
			name:       "conflict",
			send:       func(c echo.Context) error { return ConflictResponse(c, "Request already in progress") },
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"Request already in progress"}`,
		},
		{
			name:       "internal",
			send:       func(c echo.Context) error { return InternalServerErrorResponse(c, "db down") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"An unexpected error occurred","details":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext()
			require.NoError(t, tt.send(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
