package sample

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/platform"
)

func TestHandleWebhookTokenRequired(t *testing.T) {
	t.Parallel()

	adapter := New(config.SampleConfig{Token: "tok-1"}, slog.Default())
	body := []byte(`{"userId":"u1","workspaceId":"w1","text":"hi"}`)

	_, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if !errors.Is(err, platform.ErrAuthFailed) {
		t.Fatalf("expected auth failure without token, got %v", err)
	}

	headers := http.Header{}
	headers.Set(headerToken, "tok-1")
	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: headers, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event == nil || result.Event.PlatformUserID != "u1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestHandleWebhookNoTokenConfigured(t *testing.T) {
	t.Parallel()

	adapter := New(config.SampleConfig{}, slog.Default())
	body := []byte(`{"userId":"u1","workspaceId":"w1","channelId":"c1","messageId":"m1","text":"hi"}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event == nil {
		t.Fatal("expected event")
	}
	if result.Event.WorkspaceID != "w1" || result.Event.ChannelID != "c1" {
		t.Fatalf("unexpected event: %+v", result.Event)
	}
}

func TestHandleWebhookMissingIdentity(t *testing.T) {
	t.Parallel()

	adapter := New(config.SampleConfig{}, slog.Default())
	body := []byte(`{"workspaceId":"w1","text":"hi"}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("expected benign ack, got error: %v", err)
	}
	if result.Event != nil {
		t.Fatal("expected no event")
	}
	if len(result.Ack) != 0 {
		t.Fatalf("expected empty ack, got %v", result.Ack)
	}
}

func TestHandleWebhookEmptyTextIgnored(t *testing.T) {
	t.Parallel()

	adapter := New(config.SampleConfig{}, slog.Default())
	body := []byte(`{"userId":"u1","workspaceId":"w1","text":"   "}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event != nil {
		t.Fatal("expected no event for blank text")
	}
	if result.Ack["status"] != "ignored" {
		t.Fatalf("unexpected ack: %v", result.Ack)
	}
}
