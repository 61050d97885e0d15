package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/paypal"
	"github.com/leopoldus11/vibecoding/internal/service/reconcile"
)

type WebhookHandler struct {
	service reconcile.ReconcilerUseCase
	log     zerolog.Logger
}

func NewWebhookHandler(service reconcile.ReconcilerUseCase, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, log: log}
}

func (h *WebhookHandler) Register(router *gin.RouterGroup) {
	router.POST("/paypal", h.paypal)
}

// paypal is invoked by the payment provider, not a browser; error responses
// here only steer the provider's retry machinery. 4xx is terminal for the
// delivery, 5xx asks for a retry.
func (h *WebhookHandler) paypal(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var event paypal.Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.log.Error().Err(err).Msg("malformed webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON body"})
		return
	}

	outcome, _, err := h.service.Process(c.Request.Context(), &event)
	switch {
	case errors.Is(err, reconcile.ErrNoCorrelationID):
		// Keep the full payload in the log for manual reconciliation.
		h.log.Error().Str("event_type", event.EventType).RawJSON("payload", body).Msg("webhook payload carries no booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrBatchFull), errors.Is(err, domain.ErrBookingCancelled):
		h.log.Error().Str("event_type", event.EventType).RawJSON("payload", body).Err(err).Msg("payment completed for a booking that cannot be honored")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		// Storage failure: the conditional update is keyed by booking id, so
		// the provider's redelivery is safe.
		h.log.Error().Err(err).Msg("webhook reconciliation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch outcome {
	case reconcile.OutcomeIgnored:
		c.JSON(http.StatusOK, gin.H{"message": "ignoring non-relevant event"})
	case reconcile.OutcomeDuplicate:
		c.JSON(http.StatusOK, gin.H{"message": "booking already completed"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
