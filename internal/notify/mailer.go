package notify

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"boutique/internal/models"
)

//go:embed templates/*.txt
var templateFS embed.FS

var confirmationTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

const publishTimeout = 5 * time.Second

// EmailJob is the message the mail worker consumes off the queue. The worker
// owns actual SMTP delivery; this service only renders and enqueues.
type EmailJob struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// queuePublisher is the one method of an AMQP channel the mailer needs;
// *amqp.Channel satisfies it.
type queuePublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Mailer renders order confirmations and enqueues them for delivery.
type Mailer struct {
	ch    queuePublisher
	queue string
	from  string
}

// Connect dials the broker and declares the durable mail queue. The caller
// owns closing both returned handles.
func Connect(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

func NewMailer(ch queuePublisher, queue, from string) *Mailer {
	return &Mailer{ch: ch, queue: queue, from: from}
}

// SendConfirmation renders the order confirmation email and publishes it as a
// persistent message on the mail queue.
func (m *Mailer) SendConfirmation(ctx context.Context, order *models.Order) error {
	subject, body, err := renderConfirmation(order, m.from)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(EmailJob{
		Type:    "order_confirmation",
		To:      order.Email,
		From:    m.from,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return m.ch.PublishWithContext(ctx, "", m.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         payload,
	})
}

func renderConfirmation(order *models.Order, contactEmail string) (string, string, error) {
	data := struct {
		Order        *models.Order
		ContactEmail string
	}{order, contactEmail}

	var subject, body strings.Builder
	if err := confirmationTemplates.ExecuteTemplate(&subject, "confirmation_subject.txt", data); err != nil {
		return "", "", err
	}
	if err := confirmationTemplates.ExecuteTemplate(&body, "confirmation_body.txt", data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}

// LogMailer stands in when no broker is configured: it logs the confirmation
// and drops it, so checkout keeps working in development environments.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) SendConfirmation(ctx context.Context, order *models.Order) error {
	m.Log.Info("mail queue not configured, confirmation dropped",
		"orderNumber", order.OrderNumber, "email", order.Email)
	return nil
}
