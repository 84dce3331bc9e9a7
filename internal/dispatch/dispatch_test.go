package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"
)

type replyLog struct {
	mu    sync.Mutex
	texts []string
}

func (r *replyLog) responder() Responder {
	return func(ctx context.Context, chatID, text string) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.texts = append(r.texts, text)
		return nil
	}
}

func (r *replyLog) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func TestDispatchRoutesCommands(t *testing.T) {
	var got Command
	replies := &replyLog{}
	d := NewDispatcher("/", replies.responder())
	d.Register("gen", func(ctx context.Context, cmd Command, reply Responder) error {
		got = cmd
		return nil
	})

	d.Dispatch(context.Background(), Message{ChatID: "c1", UserID: "u1", Text: "/GEN hollywood easy"})
	if got.Name != "gen" {
		t.Fatalf("command name: got %q", got.Name)
	}
	if len(got.Args) != 2 || got.Args[0] != "hollywood" || got.Args[1] != "easy" {
		t.Fatalf("args: %v", got.Args)
	}
}

func TestDispatchFallback(t *testing.T) {
	var fallbackTexts []string
	d := NewDispatcher("/", nil)
	d.Fallback(func(ctx context.Context, cmd Command, reply Responder) error {
		fallbackTexts = append(fallbackTexts, cmd.Msg.Text)
		return nil
	})
	d.Register("gen", func(ctx context.Context, cmd Command, reply Responder) error {
		t.Fatal("gen must not run")
		return nil
	})

	ctx := context.Background()
	d.Dispatch(ctx, Message{ChatID: "c1", Text: "titanic"})        // plain guess
	d.Dispatch(ctx, Message{ChatID: "c1", Text: "/nosuchcommand"}) // unknown command
	d.Dispatch(ctx, Message{ChatID: "c1", Text: "   "})            // blank, dropped

	if len(fallbackTexts) != 2 {
		t.Fatalf("fallback calls: got %d, want 2 (%v)", len(fallbackTexts), fallbackTexts)
	}
}

func TestAdminOnly(t *testing.T) {
	replies := &replyLog{}
	ran := 0
	d := NewDispatcher("/", replies.responder())
	d.Register("reload", func(ctx context.Context, cmd Command, reply Responder) error {
		ran++
		return nil
	}, AdminOnly("owner", "denied"))

	ctx := context.Background()
	d.Dispatch(ctx, Message{ChatID: "c1", UserID: "intruder", Text: "/reload"})
	d.Dispatch(ctx, Message{ChatID: "c1", UserID: "owner", Text: "/reload"})

	if ran != 1 {
		t.Fatalf("handler runs: got %d, want 1", ran)
	}
	if got := replies.all(); len(got) != 1 || got[0] != "denied" {
		t.Fatalf("replies: %v", got)
	}
}

func TestRateLimit(t *testing.T) {
	replies := &replyLog{}
	ran := 0
	d := NewDispatcher("/", replies.responder(), RateLimit(2, time.Minute, "slow down"))
	d.Register("gen", func(ctx context.Context, cmd Command, reply Responder) error {
		ran++
		return nil
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.Dispatch(ctx, Message{ChatID: "c1", UserID: "u1", Text: "/gen"})
	}
	// A different user has an independent budget.
	d.Dispatch(ctx, Message{ChatID: "c1", UserID: "u2", Text: "/gen"})

	if ran != 3 {
		t.Fatalf("handler runs: got %d, want 3", ran)
	}
	// Only the first rejection in the window is answered.
	if got := replies.all(); len(got) != 1 || got[0] != "slow down" {
		t.Fatalf("replies: %v", got)
	}
}
