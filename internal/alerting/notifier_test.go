package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func competitorEvent() Event {
	return Event{
		Kind: KindCompetitor,
		Pair: "FOCUS/USDC",
		Findings: []Finding{{
			Price:    decimal.RequireFromString("0.4"),
			Quantity: decimal.NewFromInt(150000),
			Owner:    "BC1YLrivalwallet",
		}},
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), competitorEvent()); err != nil {
		t.Fatalf("telegram notify should succeed: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("wrong chat_id: %#v", received)
	}
	if !strings.Contains(received["text"], "FOCUS/USDC") {
		t.Fatalf("text should mention pair: %q", received["text"])
	}
}

func TestTelegramNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), competitorEvent()); err == nil {
		t.Fatal("ok=false should fail")
	}
}

func TestBarkNotifier(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "success"})
	}))
	defer srv.Close()

	notifier := NewBarkNotifier("devicekey", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), competitorEvent()); err != nil {
		t.Fatalf("bark notify should succeed: %v", err)
	}
	if !strings.HasPrefix(gotPath, "/devicekey/Order competition/") {
		t.Fatalf("unexpected bark path %q", gotPath)
	}
	if !strings.Contains(gotPath, "Wallet: BC1YLr...") {
		t.Fatalf("bark body should carry truncated wallet: %q", gotPath)
	}
}

func TestBarkNotifierStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	notifier := NewBarkNotifier("devicekey", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), competitorEvent()); err == nil {
		t.Fatal("HTTP 400 should fail")
	}
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestMultiNotifierContinuesAfterFailure(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("boom")}
	healthy := &recordingNotifier{}

	multi := NewMultiNotifier(failing, nil, healthy)
	if multi.Len() != 2 {
		t.Fatalf("nil notifiers should be dropped, got %d", multi.Len())
	}

	err := multi.Notify(context.Background(), competitorEvent())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected joined failure, got %v", err)
	}
	if len(healthy.events) != 1 {
		t.Fatalf("healthy channel should still receive the event")
	}
}

func TestRenderMessage(t *testing.T) {
	arb := Event{
		Kind:  KindArbitrage,
		Pair:  "OPEN/USDC",
		Quote: "USDC",
		Findings: []Finding{{
			Price:          decimal.RequireFromString("3"),
			ConvertedPrice: decimal.RequireFromString("0.06"),
			Quantity:       decimal.NewFromInt(150),
			Owner:          "rival",
		}},
	}
	msg := RenderMessage(arb)
	for _, want := range []string{"OPEN/USDC arbitrage opportunity", "Price: 0.0600 USDC (raw 3)", "Quantity: 150.0", "Wallet: rival"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q should contain %q", msg, want)
		}
	}
	if Title(arb) != "Arbitrage opportunity" {
		t.Fatalf("unexpected title %q", Title(arb))
	}

	errEv := NewErrorEvent("FOCUS/USDC", errors.New("node timeout"), time.Time{})
	if got := RenderMessage(errEv); got != "FOCUS/USDC check failed: node timeout" {
		t.Fatalf("unexpected error message %q", got)
	}
	if Title(errEv) != "Monitor error" {
		t.Fatalf("unexpected title %q", Title(errEv))
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
