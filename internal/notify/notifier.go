package notify

import (
	"context"

	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/leopoldus11/vibecoding/internal/kafka"
)

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// KafkaNotifier hands confirmed bookings to the notifications topic; the
// worker turns them into emails. Delivery is fire-and-forget from the
// reconciler's point of view.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

func NewKafkaNotifier(producer Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) BookingConfirmed(ctx context.Context, booking *domain.Booking, batch *domain.Batch) error {
	event := kafka.NotificationEvent{
		BookingID:     booking.ID,
		BatchID:       booking.BatchID,
		Email:         targetEmail(booking),
		Topic:         batch.Topic,
		Date:          batch.Date,
		Sessions:      batch.Sessions,
		PayPalOrderID: booking.PayPalOrderID,
		AmountCents:   booking.PaymentAmountCents,
	}
	return n.producer.PublishWithRetry(ctx, n.topic, booking.ID, event, 3)
}

func targetEmail(booking *domain.Booking) string {
	if booking.PreferredEmail != "" {
		return booking.PreferredEmail
	}
	return booking.PayPalEmail
}
