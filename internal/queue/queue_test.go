package queue

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent(BookingCreated, 7, 3, map[string]string{"service": "SEO"})
	if _, err := uuid.Parse(ev.ID); err != nil {
		t.Fatalf("id %q: %v", ev.ID, err)
	}
	if ev.Type != BookingCreated || ev.SubjectID != 7 || ev.ActorID != 3 || ev.OccurredAt == "" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if NewEvent(BookingCreated, 7, 3, nil).ID == ev.ID {
		t.Fatal("ids must be unique")
	}
}

func TestFormatLineSortsData(t *testing.T) {
	ev := Event{ID: "e1", Type: QueryStatusChanged, SubjectID: 4, OccurredAt: "2026-05-01T09:00:00Z",
		Data: map[string]string{"to": "Closed", "from": "New"}}
	got := FormatLine(ev)
	want := `[2026-05-01T09:00:00Z] query.status_changed | id=e1 | subject_id=4 | from="New" | to="Closed"` + "\n"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}

	ev.ActorID = 9
	if !strings.Contains(FormatLine(ev), "| actor_id=9 |") {
		t.Fatalf("actor missing: %q", FormatLine(ev))
	}
}

func TestHandleAppendsLines(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "logs", "events.log"), Log: zap.NewNop()}

	for _, typ := range []string{UserRegistered, ReviewCreated} {
		body, err := json.Marshal(NewEvent(typ, 1, 0, nil))
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Handle(body); err != nil {
			t.Fatalf("handle %s: %v", typ, err)
		}
	}

	raw, err := os.ReadFile(c.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], UserRegistered) || !strings.Contains(lines[1], ReviewCreated) {
		t.Fatalf("log contents: %q", raw)
	}
}

func TestHandleRejectsBadMessages(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "events.log"), Log: zap.NewNop()}
	if err := c.Handle([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
	if err := c.Handle([]byte(`{"id":"x"}`)); err == nil {
		t.Fatal("expected error for missing type")
	}
	if _, err := os.Stat(c.LogPath); !os.IsNotExist(err) {
		t.Fatalf("log file should not exist: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	if err := (Discard{}).Publish(context.Background(), NewEvent(UserRegistered, 1, 0, nil)); err != nil {
		t.Fatal(err)
	}
}

func TestPublisherDialTimeout(t *testing.T) {
	p := NewPublisher("amqp://localhost/", zap.NewNop())
	if got := p.dialTimeout(context.Background()); got != DefaultDialTimeout {
		t.Fatalf("no deadline: %v", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if got := p.dialTimeout(ctx); got > 500*time.Millisecond || got <= 0 {
		t.Fatalf("with deadline: %v", got)
	}
}

func TestPublishGivesUpOnSilentBroker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close() // accept and never answer the handshake
		}
	}()

	p := NewPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", zap.NewNop())
	p.DialTimeout = 200 * time.Millisecond

	start := time.Now()
	if err := p.Publish(context.Background(), NewEvent(BookingCreated, 1, 1, nil)); err == nil {
		t.Fatal("expected an error from a silent broker")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("publish blocked for %v", elapsed)
	}
}
