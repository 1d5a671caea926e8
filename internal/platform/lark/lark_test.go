package lark

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/platform"
)

// encryptEvent is the inverse of decryptEvent, used to build test fixtures.
func encryptEvent(t *testing.T, plaintext []byte, encryptKey string) string {
	t.Helper()

	key := sha256.Sum256([]byte(encryptKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append([]byte(nil), plaintext...)
	for i := 0; i < pad; i++ {
		padded = append(padded, byte(pad))
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		t.Fatalf("rand iv: %v", err)
	}

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(append(iv, out...))
}

func newTestAdapter(cfg config.LarkConfig) *Adapter {
	return New(cfg, slog.Default())
}

const messageEventBody = `{
  "schema": "2.0",
  "header": {"event_id": "ev1", "event_type": "im.message.receive_v1", "tenant_key": "tk1"},
  "event": {
    "sender": {"sender_id": {"open_id": "ou_1"}},
    "message": {
      "message_id": "om_1",
      "chat_id": "oc_1",
      "chat_type": "p2p",
      "message_type": "text",
      "content": "{\"text\":\"hello\"}"
    }
  }
}`

func TestDecryptEventRoundTrip(t *testing.T) {
	t.Parallel()

	encrypted := encryptEvent(t, []byte(messageEventBody), "ek-1")
	plain, err := decryptEvent(encrypted, "ek-1")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(plain) != messageEventBody {
		t.Fatalf("round trip mismatch: %s", plain)
	}
}

func TestDecryptEventWrongKey(t *testing.T) {
	t.Parallel()

	encrypted := encryptEvent(t, []byte(messageEventBody), "ek-1")
	if plain, err := decryptEvent(encrypted, "ek-2"); err == nil {
		// CBC with a wrong key usually breaks padding; if padding happens to
		// survive, the plaintext cannot match.
		if string(plain) == messageEventBody {
			t.Fatal("wrong key produced the original plaintext")
		}
	}
}

func TestHandleWebhookEncryptedMessageEvent(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{EncryptKey: "ek-1"})
	body := []byte(`{"encrypt":"` + encryptEvent(t, []byte(messageEventBody), "ek-1") + `"}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event == nil {
		t.Fatal("expected a normalized event")
	}
	if result.Event.WorkspaceID != "tk1" || result.Event.PlatformUserID != "ou_1" {
		t.Fatalf("unexpected identity: %+v", result.Event)
	}
	if result.Event.ChannelID != "oc_1" || result.Event.MessageID != "om_1" {
		t.Fatalf("unexpected routing: %+v", result.Event)
	}
	if result.Event.Text != "hello" {
		t.Fatalf("unexpected text: %q", result.Event.Text)
	}
}

func TestHandleWebhookEncryptedWithoutKey(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{})
	body := []byte(`{"encrypt":"` + encryptEvent(t, []byte(messageEventBody), "ek-1") + `"}`)

	_, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if !errors.Is(err, platform.ErrAuthFailed) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestHandleWebhookURLVerification(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{VerificationToken: "vt-1"})
	body := []byte(`{"type":"url_verification","challenge":"abc","token":"vt-1"}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Ack["challenge"] != "abc" {
		t.Fatalf("unexpected ack: %v", result.Ack)
	}
}

func TestHandleWebhookURLVerificationTokenMismatch(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{VerificationToken: "vt-1"})
	body := []byte(`{"type":"url_verification","challenge":"abc","token":"wrong"}`)

	_, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if !errors.Is(err, platform.ErrAuthFailed) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestHandleWebhookSignature(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{EncryptKey: "ek-1"})
	body := []byte(`{"encrypt":"` + encryptEvent(t, []byte(messageEventBody), "ek-1") + `"}`)

	headers := http.Header{}
	headers.Set(headerTimestamp, "1700000000")
	headers.Set(headerNonce, "n0nce")
	headers.Set(headerSignature, calcSignature("1700000000", "n0nce", "ek-1", body))

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: headers, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event == nil {
		t.Fatal("expected event")
	}

	headers.Set(headerSignature, "deadbeef")
	_, err = adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: headers, Body: body})
	if !errors.Is(err, platform.ErrAuthFailed) {
		t.Fatalf("expected auth failure for bad signature, got %v", err)
	}
}

func TestHandleWebhookIgnoresOtherEventTypes(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{})
	body := []byte(`{"schema":"2.0","header":{"event_type":"im.message.read_v1","tenant_key":"tk1"},"event":{}}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Event != nil {
		t.Fatal("expected no event")
	}
	if result.Ack["status"] != "ignored" {
		t.Fatalf("unexpected ack: %v", result.Ack)
	}
}

func TestHandleWebhookMissingFieldsBenignAck(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(config.LarkConfig{})
	body := []byte(`{"schema":"2.0","header":{"event_type":"im.message.receive_v1"},"event":{"sender":{"sender_id":{"open_id":"ou_1"}},"message":{"message_id":"om_1","chat_id":"oc_1","chat_type":"p2p","message_type":"text","content":"{\"text\":\"x\"}"}}}`)

	result, err := adapter.HandleWebhook(context.Background(), platform.WebhookRequest{Headers: http.Header{}, Body: body})
	if err != nil {
		t.Fatalf("expected benign ack, got error: %v", err)
	}
	if result.Event != nil {
		t.Fatal("expected no event without tenant key")
	}
	if len(result.Ack) != 0 {
		t.Fatalf("expected empty ack, got %v", result.Ack)
	}
}
