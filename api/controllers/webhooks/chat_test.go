package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type fakeChatService struct {
	from string
	body string
}

func (f *fakeChatService) HandleMessage(_ context.Context, from, body string) {
	f.from = from
	f.body = body
}

func TestChatVerificationEchoesChallenge(t *testing.T) {
	handler := ChatVerification("token123", nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=token123&hub.challenge=abc42", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "abc42" {
		t.Fatalf("body = %q, want challenge echo", rec.Body.String())
	}
}

func TestChatVerificationRejectsBadToken(t *testing.T) {
	handler := ChatVerification("token123", nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=wrong&hub.challenge=abc42", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestChatMessageDispatchesForm(t *testing.T) {
	svc := &fakeChatService{}
	handler := ChatMessage(svc, nil)

	form := url.Values{}
	form.Set("From", "whatsapp:+911234567890")
	form.Set("Body", "confirm")
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
	if svc.from != "whatsapp:+911234567890" || svc.body != "confirm" {
		t.Fatalf("service got %q / %q", svc.from, svc.body)
	}
}

func TestChatMessageWithoutSenderStillAcks(t *testing.T) {
	svc := &fakeChatService{}
	handler := ChatMessage(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("Body=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.from != "" {
		t.Fatalf("service should not be called without a sender")
	}
}
