package queue

import (
	"context"
	"errors"
	"reflect"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := NewScreeningCompleted("run-123", "request-456", "job-1", 3, 50, "exports/screened_candidates.xlsx", "2026-01-30T22:00:00Z")

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeMessageRejectsNewerVersion(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"type":"screening.completed","version":2}`)); err == nil {
		t.Fatal("expected error for unsupported version")
	}
	if _, err := DecodeMessage([]byte(`{`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

type fakePublisher struct {
	key string
	msg amqp.Publishing
	err error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, _ string, key string, _, _ bool, msg amqp.Publishing) error {
	f.key = key
	f.msg = msg
	return f.err
}

func TestRabbitMQClientSend(t *testing.T) {
	pub := &fakePublisher{}
	client := &RabbitMQClient{ch: pub, queue: "screening_events"}

	msg := NewScreeningCompleted("run-1", "", "", 2, 16.67, "", "2026-01-30T22:00:00Z")
	if err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if pub.key != "screening_events" {
		t.Fatalf("expected routing key screening_events, got %s", pub.key)
	}
	if pub.msg.DeliveryMode != amqp.Persistent || pub.msg.Type != TypeScreeningCompleted || pub.msg.MessageId != "run-1" {
		t.Fatalf("unexpected publishing %+v", pub.msg)
	}
	decoded, err := DecodeMessage(pub.msg.Body)
	if err != nil || decoded.RunID != "run-1" {
		t.Fatalf("unexpected body %s (%v)", pub.msg.Body, err)
	}

	pub.err = errors.New("channel closed")
	if err := client.Send(context.Background(), msg); err == nil {
		t.Fatal("expected publish error")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close without connection: %v", err)
	}
}

func TestNopDiscards(t *testing.T) {
	if err := (Nop{}).Send(context.Background(), Message{}); err != nil {
		t.Fatalf("nop send: %v", err)
	}
}
