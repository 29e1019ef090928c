package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/models"
	nrpkg "github.com/piresc/paygate/internal/pkg/newrelic"
	"github.com/piresc/paygate/internal/utils"
	"github.com/piresc/paygate/services/payment"
)

// WebhookHandler handles provider callbacks
type WebhookHandler struct {
	webhookUC payment.WebhookUC
}

// NewWebhookHandler creates a new webhook HTTP handler
func NewWebhookHandler(webhookUC payment.WebhookUC) *WebhookHandler {
	return &WebhookHandler{
		webhookUC: webhookUC,
	}
}

// SuperWalletz handles POST /super-walletz/webhook. Every outcome is
// acknowledged with 200; only store failures answer 500 so the provider redelivers.
func (h *WebhookHandler) SuperWalletz(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to read webhook body", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "failed to read request body")
	}

	outcome, err := h.webhookUC.HandleWebhook(ctx, models.ProviderSuperWalletz, body)
	if err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
		details := err.Error()
		var ierr *payment.InternalError
		if errors.As(err, &ierr) {
			details = ierr.Message
		}
		return utils.InternalServerErrorResponse(c, details)
	}

	nrpkg.AddTransactionAttribute(nrpkg.FromEchoContext(c), "webhook.outcome", string(outcome.Kind))
	return utils.MessageResponseHandler(c, http.StatusOK, outcome.Message)
}
