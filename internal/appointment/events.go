package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const EventTypeBooked = "appointment.booked"

// Publisher announces committed bookings to downstream consumers
// (reminders, receipts). It is called after the insert succeeded.
type Publisher interface {
	Booked(ctx context.Context, a *Appointment) error
	Close() error
}

// BookedEvent is the wire payload of an appointment.booked message.
type BookedEvent struct {
	EventID       string    `json:"event_id"`
	AppointmentID string    `json:"appointment_id"`
	StudentID     string    `json:"student_id"`
	InstructorID  string    `json:"instructor_id"`
	ServiceID     string    `json:"service_id"`
	LocationID    string    `json:"location_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        Status    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newBookedEvent(a *Appointment, now time.Time) BookedEvent {
	return BookedEvent{
		EventID:       uuid.NewString(),
		AppointmentID: a.ID,
		StudentID:     a.StudentID,
		InstructorID:  a.InstructorID,
		ServiceID:     a.ServiceID,
		LocationID:    a.LocationID,
		Date:          a.Date,
		StartTime:     a.StartTime.String(),
		EndTime:       a.EndTime.String(),
		Status:        a.Status,
		OccurredAt:    now.UTC(),
	}
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes to topic, keyed by location so one branch's
// bookings stay ordered within a partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Booked(ctx context.Context, a *Appointment) error {
	evt := newBookedEvent(a, time.Now())
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal booked event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(a.LocationID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.EventID)},
			{Key: "event_type", Value: []byte(EventTypeBooked)},
		},
	}
	carrier := &headerCarrier{headers: msg.Headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	msg.Headers = carrier.headers

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish booked event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier lets the trace context ride along in Kafka headers.
type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Booked(context.Context, *Appointment) error { return nil }
func (NopPublisher) Close() error                                { return nil }
