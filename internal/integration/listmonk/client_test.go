package listmonk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"placementcell/internal/domain/notification"
)

func TestSendPostsTransactionalMessage(t *testing.T) {
	var got txRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tx" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "api", "secret", 4, server.Client())
	err := client.Send(context.Background(), notification.Message{
		Recipients: []notification.Recipient{{Email: "a@nfsu.test"}, {Email: "b@nfsu.test"}},
		Subject:    "Drive",
		Body:       "Apply now",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "token api:secret" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.TemplateID != 4 || len(got.SubscriberEmails) != 2 || got.Data["subject"] != "Drive" || got.Data["body"] != "Apply now" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"subscriber not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 1, server.Client())
	err := client.Send(context.Background(), notification.Message{Recipients: []notification.Recipient{{Email: "a@nfsu.test"}}})
	if err == nil || !strings.Contains(err.Error(), "subscriber not found") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestSendWithoutBaseURL(t *testing.T) {
	client := NewClient("", "", "", 0, nil)
	err := client.Send(context.Background(), notification.Message{Recipients: []notification.Recipient{{Email: "a@nfsu.test"}}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
