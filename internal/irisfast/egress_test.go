package irisfast

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNewEgressModeSelection(t *testing.T) {
	c := NewClient("http://localhost:3000")
	ws := NewWebSocket("ws://localhost:3000/ws", 0, time.Second)

	if _, ok := NewEgress("http", false, c, ws).(*httpEgress); !ok {
		t.Fatal("http mode must pick the HTTP transport")
	}
	if _, ok := NewEgress("ws", false, c, ws).(*wsEgress); !ok {
		t.Fatal("ws mode must pick the websocket transport")
	}
	if _, ok := NewEgress("auto", false, c, ws).(*autoEgress); !ok {
		t.Fatal("auto mode must pick the fallback transport")
	}
	if _, ok := NewEgress("bogus", false, c, ws).(*httpEgress); !ok {
		t.Fatal("unknown mode must fall back to HTTP")
	}
}

func TestWSEgressDryrun(t *testing.T) {
	ws := NewWebSocket("ws://localhost:3000/ws", 0, time.Second)
	e := &wsEgress{ws: ws, dryrun: true}

	if err := e.SendText(context.Background(), "room", "hello"); err != nil {
		t.Fatalf("dryrun text: %v", err)
	}
	if err := e.SendImage(context.Background(), "room", "aGk="); err != nil {
		t.Fatalf("dryrun image: %v", err)
	}
}

func TestWSEgressRejectsDisconnected(t *testing.T) {
	ws := NewWebSocket("ws://localhost:3000/ws", 0, time.Second)
	e := &wsEgress{ws: ws}

	if e.connected() {
		t.Fatal("fresh socket must not report connected")
	}
	if err := e.SendText(context.Background(), "room", "hello"); err == nil {
		t.Fatal("send on disconnected socket must fail")
	}

	// Replies come from concurrent dispatch goroutines; the connectivity
	// check must hold up under that.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.SendText(context.Background(), "room", "hello"); err == nil {
				t.Error("send on disconnected socket must fail")
			}
		}()
	}
	wg.Wait()
}
