package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/obidov404/ZetShopUZ/internal/history"
)

func TestSinkSend(t *testing.T) {
	var receivedBody []byte
	var receivedPath string
	var receivedMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedPath = r.URL.Path
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"x","_index":"supervisor-history","result":"created"}`))
	}))
	defer server.Close()

	sink := New(server.URL, "supervisor-history")
	event := history.Event{
		Type:       history.EventRestart,
		OccurredAt: time.Now().UTC(),
		Name:       "zetshop-bot",
		PID:        4242,
		ExitCode:   1,
	}
	if err := sink.Send(context.Background(), event); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if receivedMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", receivedMethod)
	}
	if receivedPath != "/supervisor-history/_doc" {
		t.Errorf("path = %s", receivedPath)
	}

	var got history.Event
	if err := json.Unmarshal(receivedBody, &got); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if got.Type != history.EventRestart || got.Name != "zetshop-bot" || got.PID != 4242 || got.ExitCode != 1 {
		t.Fatalf("indexed event = %+v", got)
	}
}

func TestSinkSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := New(server.URL, "supervisor-history")
	if err := sink.Send(context.Background(), history.Event{Type: history.EventStart}); err == nil {
		t.Fatal("expected error for 5xx response")
	}
}

func TestSinkSendTransportError(t *testing.T) {
	sink := New("http://127.0.0.1:1", "supervisor-history")
	if err := sink.Send(context.Background(), history.Event{Type: history.EventStart}); err == nil {
		t.Fatal("expected transport error")
	}
}
