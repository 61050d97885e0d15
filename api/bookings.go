package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/leopoldus11/vibecoding/internal/checkout"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	BatchID string `json:"batch_id"`
	Email   string `json:"email"`
}

type bookingResponse struct {
	BookingID   string          `json:"booking_id"`
	BatchID     string          `json:"batch_id"`
	Status      string          `json:"status"`
	Email       string          `json:"email"`
	LockedAt    string          `json:"seat_locked_at"`
	ExpiresAt   string          `json:"seat_lock_expires_at"`
	AmountCents int64           `json:"amount_cents"`
	Checkout    *checkout.Order `json:"checkout,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		BatchID: req.BatchID,
		Email:   req.Email,
	})
	if err != nil {
		c.JSON(statusForBookingError(err), gin.H{"error": err.Error()})
		return
	}

	order := checkout.NewOrder(b)
	resp := toBookingResponse(b)
	resp.Checkout = &order
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForBookingError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForBookingError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:   b.ID,
		BatchID:     b.BatchID,
		Status:      string(b.PaymentStatus),
		Email:       b.PreferredEmail,
		LockedAt:    b.SeatLockedAt.Format(time.RFC3339),
		ExpiresAt:   b.SeatLockExpiresAt.Format(time.RFC3339),
		AmountCents: b.PaymentAmountCents,
	}
}

func statusForBookingError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBatchNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBatchFull),
		errors.Is(err, domain.ErrBatchInactive),
		errors.Is(err, domain.ErrCheckoutInFlight),
		errors.Is(err, domain.ErrAlreadyCompleted):
		return http.StatusConflict
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		// Storage failures are retryable from the client's side.
		return http.StatusServiceUnavailable
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
