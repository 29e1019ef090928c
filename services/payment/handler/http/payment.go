package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/paygate/internal/pkg/constants"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/models"
	nrpkg "github.com/piresc/paygate/internal/pkg/newrelic"
	"github.com/piresc/paygate/internal/pkg/validation"
	"github.com/piresc/paygate/internal/utils"
	"github.com/piresc/paygate/services/payment"
)

const (
	MessageValidationFailed     = "Validation failed"
	MessageEasyMoneyFailed      = "Failed to process payment"
	MessageSuperWalletzFailed   = "Failed to initiate payment"
	MessageDuplicateRequest     = "A request with this Idempotency-Key is already in progress"
	MessageAbandonedRequest     = "A request with this Idempotency-Key reached the provider but could not be recorded"
	MessageInvalidTransactionID = "Invalid transaction id"
	MessageTransactionNotFound  = "Transaction not found"
	MessageTransactionRetrieved = "Transaction retrieved successfully"
)

// PaymentHandler handles HTTP requests that initiate payments
type PaymentHandler struct {
	paymentUC payment.PaymentUC
}

// NewPaymentHandler creates a new payment HTTP handler
func NewPaymentHandler(paymentUC payment.PaymentUC) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
	}
}

// EasyMoney handles POST /easy-money
func (h *PaymentHandler) EasyMoney(c echo.Context) error {
	return h.pay(c, &models.EasyMoneyRequest{}, MessageEasyMoneyFailed)
}

// SuperWalletz handles POST /super-walletz
func (h *PaymentHandler) SuperWalletz(c echo.Context) error {
	return h.pay(c, &models.SuperWalletzRequest{}, MessageSuperWalletzFailed)
}

func (h *PaymentHandler) pay(c echo.Context, input models.PaymentInput, providerFailure string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return utils.BadRequestResponse(c, MessageValidationFailed, validation.FieldErrors{
			"body": {"The request body could not be read."},
		})
	}

	if err := validation.Bind(body, input); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return utils.BadRequestResponse(c, MessageValidationFailed, verr.Fields)
		}
		return h.internalError(c, err, err.Error())
	}

	ctx := c.Request().Context()
	result, err := h.paymentUC.Pay(ctx, input, c.Request().Header.Get(constants.HeaderIdempotencyKey))
	if err != nil {
		return h.handleError(c, err, providerFailure)
	}

	nrpkg.AddTransactionAttribute(nrpkg.FromEchoContext(c), "payment.provider", input.Provider().String())
	return utils.JSONResponse(c, http.StatusOK, result)
}

func (h *PaymentHandler) handleError(c echo.Context, err error, providerFailure string) error {
	var (
		verr *payment.ValidationError
		perr *payment.ProviderError
		ierr *payment.InternalError
	)

	switch {
	case errors.As(err, &verr):
		return utils.BadRequestResponse(c, MessageValidationFailed, verr.Details)
	case errors.As(err, &perr):
		return utils.BadRequestResponse(c, providerFailure, perr.ResponseDetails())
	case errors.Is(err, payment.ErrDuplicateRequest):
		return utils.ConflictResponse(c, MessageDuplicateRequest)
	case errors.Is(err, payment.ErrIdempotencyKeyAbandoned):
		return utils.ConflictResponse(c, MessageAbandonedRequest)
	case errors.As(err, &ierr):
		return h.internalError(c, err, ierr.Message)
	default:
		return h.internalError(c, err, err.Error())
	}
}

func (h *PaymentHandler) internalError(c echo.Context, err error, details string) error {
	nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
	logger.ErrorCtx(c.Request().Context(), "Payment request failed",
		logger.String("path", c.Path()),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, details)
}
