package queue

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestJSONHandlerDecodesPayload(t *testing.T) {
	var got SendMessagePayload
	handler := JSONHandler(func(ctx context.Context, p SendMessagePayload) error {
		got = p
		return nil
	})

	d := amqp.Delivery{Body: []byte(`{"chatMessageId":"msg-1"}`)}
	if err := handler(context.Background(), d); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got.ChatMessageID != "msg-1" {
		t.Fatalf("expected chatMessageId msg-1, got %q", got.ChatMessageID)
	}
}

func TestJSONHandlerPoisonOnBadJSON(t *testing.T) {
	handler := JSONHandler(func(ctx context.Context, p SendMessagePayload) error {
		t.Fatal("handler should not run for undecodable payload")
		return nil
	})

	d := amqp.Delivery{Body: []byte(`{not json`)}
	err := handler(context.Background(), d)
	if !errors.Is(err, ErrPoison) {
		t.Fatalf("expected ErrPoison, got %v", err)
	}
}

func TestJSONHandlerPropagatesHandlerError(t *testing.T) {
	want := errors.New("downstream unavailable")
	handler := JSONHandler(func(ctx context.Context, p SendMessagePayload) error {
		return want
	})

	d := amqp.Delivery{Body: []byte(`{"chatMessageId":"msg-1"}`)}
	if err := handler(context.Background(), d); !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestDeathCount(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp.Table
		queue   string
		want    int
	}{
		{
			name:    "no header",
			headers: amqp.Table{},
			queue:   "send-message",
			want:    0,
		},
		{
			name: "matching queue",
			headers: amqp.Table{
				"x-death": []any{
					amqp.Table{"queue": "send-message", "count": int64(3)},
				},
			},
			queue: "send-message",
			want:  3,
		},
		{
			name: "other queue only",
			headers: amqp.Table{
				"x-death": []any{
					amqp.Table{"queue": "process-inbound-message", "count": int64(5)},
				},
			},
			queue: "send-message",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := amqp.Delivery{Headers: tt.headers}
			if got := deathCount(d, tt.queue); got != tt.want {
				t.Fatalf("deathCount = %d, want %d", got, tt.want)
			}
		})
	}
}
