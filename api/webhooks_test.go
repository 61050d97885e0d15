package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/paypal"
	"github.com/leopoldus11/vibecoding/internal/service/reconcile"
)

// MockReconcilerUseCase is a mock implementation of reconcile.ReconcilerUseCase
type MockReconcilerUseCase struct {
	mock.Mock
}

func (m *MockReconcilerUseCase) Process(ctx context.Context, event *paypal.Event) (reconcile.Outcome, *domain.Booking, error) {
	args := m.Called(ctx, event)
	if args.Get(1) == nil {
		return args.Get(0).(reconcile.Outcome), nil, args.Error(2)
	}
	return args.Get(0).(reconcile.Outcome), args.Get(1).(*domain.Booking), args.Error(2)
}

func webhookContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/webhooks/paypal", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestWebhookHandler_paypal_success(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	payload := `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-1","custom_id":"booking-1"}}`
	c, w := webhookContext(t, payload)

	completed := &domain.Booking{ID: "booking-1", PaymentStatus: domain.PaymentStatusCompleted}
	mockService.On("Process", c.Request.Context(), mock.MatchedBy(func(e *paypal.Event) bool {
		id, ok := e.BookingID()
		return ok && id == "booking-1"
	})).Return(reconcile.OutcomeCompleted, completed, nil)

	handler.paypal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true")

	mockService.AssertExpectations(t)
}

func TestWebhookHandler_paypal_malformedBody(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, "{not json")

	handler.paypal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Process")
}

func TestWebhookHandler_paypal_ignoredEvent(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, `{"event_type":"PAYMENT.CAPTURE.DENIED"}`)

	mockService.On("Process", c.Request.Context(), mock.Anything).Return(reconcile.OutcomeIgnored, nil, nil)

	handler.paypal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "non-relevant")
}

func TestWebhookHandler_paypal_duplicate(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"custom_id":"booking-1"}}`)

	mockService.On("Process", c.Request.Context(), mock.Anything).Return(reconcile.OutcomeDuplicate, nil, nil)

	handler.paypal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already completed")
}

func TestWebhookHandler_paypal_noCorrelationID(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-1"}}`)

	mockService.On("Process", c.Request.Context(), mock.Anything).Return(reconcile.OutcomeIgnored, nil, reconcile.ErrNoCorrelationID)

	handler.paypal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_paypal_unknownBooking(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"custom_id":"ghost"}}`)

	mockService.On("Process", c.Request.Context(), mock.Anything).Return(reconcile.OutcomeIgnored, nil, domain.ErrBookingNotFound)

	handler.paypal(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookHandler_paypal_capacityConflict(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"custom_id":"booking-1"}}`)

	mockService.On("Process", c.Request.Context(), mock.Anything).Return(reconcile.OutcomeIgnored, nil, domain.ErrBatchFull)

	handler.paypal(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWebhookHandler_paypal_storageFailureAsksForRetry(t *testing.T) {
	mockService := &MockReconcilerUseCase{}
	handler := NewWebhookHandler(mockService, zerolog.Nop())

	c, w := webhookContext(t, `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"custom_id":"booking-1"}}`)

	mockService.On("Process", c.Request.Context(), mock.Anything).Return(reconcile.OutcomeIgnored, nil, assert.AnError)

	handler.paypal(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
