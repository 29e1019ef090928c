package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/piresc/paygate/services/payment"
	"github.com/piresc/paygate/services/payment/mocks"
)

func TestWebhookHandler_SuperWalletz(t *testing.T) {
	raw := `{"status":"failed","transaction_id":"sw999"}`

	testCases := []struct {
		name       string
		outcome    *models.WebhookOutcome
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "applied",
			outcome:    &models.WebhookOutcome{Kind: models.WebhookApplied, Message: "Webhook received successfully"},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Webhook received successfully"}`,
		},
		{
			name:       "not found is still acknowledged",
			outcome:    &models.WebhookOutcome{Kind: models.WebhookNotFound, Message: "Transaction not found for transaction_id: sw999"},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Transaction not found for transaction_id: sw999"}`,
		},
		{
			name:       "malformed is still acknowledged",
			outcome:    &models.WebhookOutcome{Kind: models.WebhookMalformed, Message: "Webhook payload is malformed"},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Webhook payload is malformed"}`,
		},
		{
			name:       "store failure asks for redelivery",
			err:        payment.NewInternalError(errors.New("failed to insert webhook")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"An unexpected error occurred","details":"failed to insert webhook"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockWebhookUC := mocks.NewMockWebhookUC(ctrl)
			mockWebhookUC.EXPECT().
				HandleWebhook(gomock.Any(), models.ProviderSuperWalletz, []byte(raw)).
				Return(tc.outcome, tc.err)
			handler := NewWebhookHandler(mockWebhookUC)

			c, recorder := newContext(http.MethodPost, "/super-walletz/webhook", raw)

			err := handler.SuperWalletz(c)

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, recorder.Code)
			assert.JSONEq(t, tc.wantBody, recorder.Body.String())
		})
	}
}
