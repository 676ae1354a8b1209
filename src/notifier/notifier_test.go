package notifier

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(url string) Config {
	return Config{
		WebhookURL: url,
		Timeout:    2 * time.Second,
		RetryCount: 0,
	}
}

func TestNewNotifierRequiresURL(t *testing.T) {
	if _, err := NewNotifier(testConfig("")); err == nil {
		t.Fatalf("expected error for missing webhook URL")
	}
}

func TestNotifyPostsPayload(t *testing.T) {
	var received Payload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n, err := NewNotifier(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.Notify(errors.New("boom"), "REPORT"); err != nil {
		t.Fatalf("unexpected error notifying: %v", err)
	}

	if received.Message != "boom" || received.Report != "REPORT" {
		t.Fatalf("unexpected payload: %+v", received)
	}
	if received.ID == "" {
		t.Fatalf("payload must carry a report ID")
	}
}

func TestNotifyRejectsErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer ts.Close()

	n, err := NewNotifier(testConfig(ts.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.Notify(errors.New("boom"), "REPORT"); err == nil {
		t.Fatalf("expected error for HTTP 400 response")
	}
}
