package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/kafka"
)

func TestRenderBody(t *testing.T) {
	event := kafka.NotificationEvent{
		BookingID: "booking-1",
		Email:     "a@b.com",
		Topic:     "AI VibeCoding Intensive",
		Date:      "Oct 18-19, 2025",
		Sessions: []domain.Session{
			{Start: "20251018T070000Z", End: "20251018T150000Z"},
			{Start: "20251019T070000Z", End: "20251019T150000Z"},
		},
		PayPalOrderID: "3C679366HH908993F",
		AmountCents:   33300,
	}

	body := renderBody(event)

	assert.Contains(t, body, "Confirmed for: AI VibeCoding Intensive")
	assert.Contains(t, body, "Oct 18-19, 2025")
	assert.Contains(t, body, "EUR 333.00")
	assert.Contains(t, body, "Order Ref: booking-1 | Trans ID: 3C679366HH908993F")
	assert.Contains(t, body, "Add Session 1 to Google Calendar")
	assert.Contains(t, body, "Add Session 2 to Google Calendar")
}

func TestRenderBody_MissingOrderRef(t *testing.T) {
	body := renderBody(kafka.NotificationEvent{BookingID: "booking-1", Topic: "AI VibeCoding"})

	assert.Contains(t, body, "Trans ID: N/A")
}

func TestCalendarLink(t *testing.T) {
	link := calendarLink("AI VibeCoding Intensive", 1, "20251018T070000Z", "20251018T150000Z")

	assert.Contains(t, link, "https://www.google.com/calendar/render?action=TEMPLATE")
	assert.Contains(t, link, "text=AI+VibeCoding+Intensive+-+Session+1")
	assert.Contains(t, link, "dates=20251018T070000Z/20251018T150000Z")
	assert.Contains(t, link, "location=Online")
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("noreply@vibecoding.dev", "a@b.com", "Welcome!", "<div>hi</div>")

	assert.Contains(t, msg, "From: noreply@vibecoding.dev\r\n")
	assert.Contains(t, msg, "To: a@b.com\r\n")
	assert.Contains(t, msg, "Subject: Welcome!\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "\r\n\r\n<div>hi</div>")
}
