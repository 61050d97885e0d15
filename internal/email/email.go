package email

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/leopoldus11/vibecoding/config"
	"github.com/leopoldus11/vibecoding/internal/checkout"
	"github.com/leopoldus11/vibecoding/internal/kafka"
)

type Sender struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

func NewSender(cfg config.SMTPConfig, log zerolog.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Send delivers the single confirmation mail for a completed booking: batch
// topic and dates, per-session calendar-add links, order reference.
func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	if event.Email == "" {
		return fmt.Errorf("notification for booking %s has no recipient", event.BookingID)
	}

	subject := fmt.Sprintf("Welcome to %s!", event.Topic)
	msg := buildMessage(s.cfg.From, event.Email, subject, renderBody(event))

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(s.cfg.Addr(), auth, s.cfg.From, []string{event.Email}, []byte(msg)); err != nil {
		s.log.Warn().Err(err).Str("booking_id", event.BookingID).Msg("failed to send confirmation email")
		return fmt.Errorf("send email: %w", err)
	}

	s.log.Info().Str("booking_id", event.BookingID).Str("to", event.Email).Msg("confirmation email sent")
	return nil
}

func buildMessage(from, to, subject, htmlBody string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, htmlBody)
}

func renderBody(event kafka.NotificationEvent) string {
	var links strings.Builder
	for i, session := range event.Sessions {
		links.WriteString(fmt.Sprintf(`<p><a href="%s">+ Add Session %d to Google Calendar</a></p>`, calendarLink(event.Topic, i+1, session.Start, session.End), i+1))
	}

	orderRef := event.PayPalOrderID
	if orderRef == "" {
		orderRef = "N/A"
	}

	return fmt.Sprintf(`<div>
  <h1>READY TO SHIP.</h1>
  <p>Confirmed for: %s</p>
  <p><strong>Intake dates:</strong> %s</p>
  %s
  <p>Your seat is secured (EUR %s). See you in the workroom.</p>
  <p style="font-size:10px;color:#888;">Order Ref: %s | Trans ID: %s</p>
</div>`, event.Topic, event.Date, links.String(), checkout.FormatAmount(event.AmountCents), event.BookingID, orderRef)
}

// calendarLink builds a Google Calendar template URL for one session.
// Start/End are already compact UTC stamps, they go into the URL verbatim.
func calendarLink(topic string, n int, start, end string) string {
	return "https://www.google.com/calendar/render?action=TEMPLATE" +
		"&text=" + url.QueryEscape(fmt.Sprintf("%s - Session %d", topic, n)) +
		"&dates=" + start + "/" + end +
		"&location=Online&sf=true&output=xml"
}
