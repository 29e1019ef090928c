package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/internal/utils"
	"github.com/piresc/paygate/services/payment"
)

// TransactionResponse is the body of a successful status lookup
type TransactionResponse struct {
	Message string              `json:"message"`
	Data    *models.Transaction `json:"data"`
}

// TransactionHandler serves transaction status lookups
type TransactionHandler struct {
	paymentUC payment.PaymentUC
}

// NewTransactionHandler creates a new transaction HTTP handler
func NewTransactionHandler(paymentUC payment.PaymentUC) *TransactionHandler {
	return &TransactionHandler{
		paymentUC: paymentUC,
	}
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, MessageInvalidTransactionID, nil)
	}

	txn, err := h.paymentUC.GetTransaction(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			return utils.NotFoundResponse(c, MessageTransactionNotFound)
		}
		var ierr *payment.InternalError
		if errors.As(err, &ierr) {
			return utils.InternalServerErrorResponse(c, ierr.Message)
		}
		return utils.InternalServerErrorResponse(c, err.Error())
	}

	return utils.JSONResponse(c, http.StatusOK, TransactionResponse{
		Message: MessageTransactionRetrieved,
		Data:    txn,
	})
}
