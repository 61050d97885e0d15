package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leopoldus11/vibecoding/internal/checkout"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/service/batches"
)

type BatchHandler struct {
	service batches.BatchUseCase
}

type sessionResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type batchResponse struct {
	ID        string            `json:"id"`
	Topic     string            `json:"topic"`
	Date      string            `json:"date"`
	Sessions  []sessionResponse `json:"sessions"`
	TimeSlots string            `json:"time_slots"`
	MaxSeats  int               `json:"max_seats"`
	SeatsLeft int               `json:"seats_left"`
	Full      bool              `json:"full"`
	Price     string            `json:"price"`
	Currency  string            `json:"currency"`
}

func NewBatchHandler(service batches.BatchUseCase) *BatchHandler {
	return &BatchHandler{service: service}
}

func (h *BatchHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *BatchHandler) list(c *gin.Context) {
	available, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]batchResponse, 0, len(available))
	for _, a := range available {
		out = append(out, toBatchResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BatchHandler) get(c *gin.Context) {
	available, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBatchResponse(*available))
}

func toBatchResponse(a domain.BatchAvailability) batchResponse {
	sessions := make([]sessionResponse, 0, len(a.Sessions))
	for _, s := range a.Sessions {
		sessions = append(sessions, sessionResponse{Start: s.Start, End: s.End})
	}
	return batchResponse{
		ID:        a.ID,
		Topic:     a.Topic,
		Date:      a.Date,
		Sessions:  sessions,
		TimeSlots: a.TimeSlots,
		MaxSeats:  a.MaxSeats,
		SeatsLeft: a.SeatsLeft,
		Full:      a.Full(),
		Price:     checkout.FormatAmount(a.PriceCents),
		Currency:  checkout.DefaultCurrency,
	}
}
