package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"staffhub/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

const StaffEventQueue = "staff_events"

const (
	EventUserRegistered  = "user.registered"
	EventPasswordChanged = "user.password_changed"
	EventSuspiciousLogin = "user.suspicious_login"
	EventEmployeeCreated = "employee.created"
	EventTaskAssigned    = "task.assigned"
	EventAnnouncement    = "announcement.published"
)

// StaffEvent is the wire model pushed to the staff_events queue.
type StaffEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	UserID    string         `json:"user_id,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// RabbitMQConnection wraps an AMQP connection and an open channel.
type RabbitMQConnection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

func NewRabbitMQConnection(url string) (*RabbitMQConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &RabbitMQConnection{Conn: conn, Channel: ch}, nil
}

func (c *RabbitMQConnection) Close() {
	if c.Channel != nil {
		c.Channel.Close()
	}
	if c.Conn != nil {
		c.Conn.Close()
	}
}

type StaffEventPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewStaffEventPublisher creates a new staff event publisher
func NewStaffEventPublisher(conn *RabbitMQConnection) *StaffEventPublisher {
	return &StaffEventPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// Publish pushes a staff event to the staff_events queue.
func (p *StaffEventPublisher) Publish(ctx context.Context, ev StaffEvent) error {
	_, err := p.conn.Channel.QueueDeclare(
		StaffEventQueue, // queue name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if ev.ID == "" {
		ev.ID = "EV" + utils.GenerateRandomStringWithLength(6)
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal staff event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",              // exchange
		StaffEventQueue, // routing key (queue name)
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish staff event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Staff event published",
		"queue", StaffEventQueue,
		"type", ev.Type,
	)

	return nil
}
