package handler

import (
	"github.com/labstack/echo/v4"
	nrpkg "github.com/piresc/paygate/internal/pkg/newrelic"
	"github.com/piresc/paygate/services/payment"
	httpHandler "github.com/piresc/paygate/services/payment/handler/http"
)

// Handler combines all handlers for the payment gateway
type Handler struct {
	paymentHTTP     *httpHandler.PaymentHandler
	webhookHTTP     *httpHandler.WebhookHandler
	transactionHTTP *httpHandler.TransactionHandler
}

// NewHandler creates a new combined handler
func NewHandler(paymentUC payment.PaymentUC, webhookUC payment.WebhookUC) *Handler {
	return &Handler{
		paymentHTTP:     httpHandler.NewPaymentHandler(paymentUC),
		webhookHTTP:     httpHandler.NewWebhookHandler(webhookUC),
		transactionHTTP: httpHandler.NewTransactionHandler(paymentUC),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Payment initiation
	e.POST("/easy-money", nrpkg.TraceHandler("PaymentHandler.EasyMoney", h.paymentHTTP.EasyMoney))
	e.POST("/super-walletz", nrpkg.TraceHandler("PaymentHandler.SuperWalletz", h.paymentHTTP.SuperWalletz))

	// Provider callbacks
	e.POST("/super-walletz/webhook", nrpkg.TraceHandler("WebhookHandler.SuperWalletz", h.webhookHTTP.SuperWalletz))

	// Status lookup
	e.GET("/transactions/:id", nrpkg.TraceHandler("TransactionHandler.GetTransaction", h.transactionHTTP.GetTransaction))
}
