package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"boutique/internal/models"
)

type capturePublisher struct {
	key string
	msg amqp.Publishing
	err error
}

func (p *capturePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.key = key
	p.msg = msg
	return p.err
}

func confirmationOrder() *models.Order {
	return &models.Order{
		ID:             primitive.NewObjectID(),
		OrderNumber:    "A1B2C3D4E5F60718293A4B5C6D7E8F90",
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "555-0100",
		Country:        "US",
		TownOrCity:     "San Francisco",
		StreetAddress1: "1 Market St",
		OrderTotal:     39.98,
		DeliveryCost:   10.01,
		GrandTotal:     49.99,
		CreatedAt:      time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}
}

func TestSendConfirmationPublishesPersistentJob(t *testing.T) {
	pub := &capturePublisher{}
	mailer := NewMailer(pub, "email_jobs", "orders@boutique.example")

	if err := mailer.SendConfirmation(context.Background(), confirmationOrder()); err != nil {
		t.Fatalf("SendConfirmation: %v", err)
	}
	if pub.key != "email_jobs" {
		t.Errorf("routing key = %q, want email_jobs", pub.key)
	}
	if pub.msg.DeliveryMode != amqp.Persistent {
		t.Errorf("delivery mode = %d, want persistent", pub.msg.DeliveryMode)
	}
	if pub.msg.ContentType != "application/json" {
		t.Errorf("content type = %q", pub.msg.ContentType)
	}
	if pub.msg.MessageId == "" {
		t.Error("message id not set")
	}

	var job EmailJob
	if err := json.Unmarshal(pub.msg.Body, &job); err != nil {
		t.Fatalf("job payload: %v", err)
	}
	if job.Type != "order_confirmation" {
		t.Errorf("job type = %q", job.Type)
	}
	if job.To != "jane@example.com" || job.From != "orders@boutique.example" {
		t.Errorf("addressing = %q -> %q", job.From, job.To)
	}
	if !strings.Contains(job.Subject, "A1B2C3D4E5F60718293A4B5C6D7E8F90") {
		t.Errorf("subject = %q, want order number in it", job.Subject)
	}
}

func TestSendConfirmationBodyContents(t *testing.T) {
	pub := &capturePublisher{}
	mailer := NewMailer(pub, "email_jobs", "orders@boutique.example")

	if err := mailer.SendConfirmation(context.Background(), confirmationOrder()); err != nil {
		t.Fatalf("SendConfirmation: %v", err)
	}
	var job EmailJob
	if err := json.Unmarshal(pub.msg.Body, &job); err != nil {
		t.Fatalf("job payload: %v", err)
	}

	for _, want := range []string{
		"Hello Jane Doe!",
		"Order Number: A1B2C3D4E5F60718293A4B5C6D7E8F90",
		"Order Date: 09/03/2024",
		"Grand Total: $49.99",
		"shipped to 1 Market St in San Francisco, US",
		"phone number on file as 555-0100",
		"contact us at orders@boutique.example",
	} {
		if !strings.Contains(job.Body, want) {
			t.Errorf("body missing %q\nbody:\n%s", want, job.Body)
		}
	}
}

func TestSendConfirmationSurfacesPublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("channel closed")}
	mailer := NewMailer(pub, "email_jobs", "orders@boutique.example")

	if err := mailer.SendConfirmation(context.Background(), confirmationOrder()); err == nil {
		t.Fatal("expected publish error")
	}
}
