// Package dispatch routes prefixed chat commands to handlers through a
// middleware chain. It is transport-agnostic: the websocket layer feeds it
// Messages, handlers reply through the Responder.
package dispatch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
)

// Message is one inbound chat message, already decoded from the transport.
type Message struct {
	ChatID     string
	UserID     string
	UserName   string
	Text       string
	ReceivedAt int64 // unix milliseconds, as delivered by the transport
}

// Command is a parsed bot command: the name without the prefix plus the
// remaining whitespace-split arguments.
type Command struct {
	Name string
	Args []string
	Msg  Message
}

// Responder sends a reply back to the chat the command came from.
type Responder func(ctx context.Context, chatID, text string) error

// Handler executes one command.
type Handler func(ctx context.Context, cmd Command, reply Responder) error

// Middleware wraps a handler. Returning without calling next drops the
// command.
type Middleware func(next Handler) Handler

// Dispatcher parses prefixed messages and routes them. A fallback handler, if
// set, catches both unprefixed messages (guesses go there) and unknown
// commands.
type Dispatcher struct {
	prefix   string
	reply    Responder
	handlers map[string]Handler
	fallback Handler
	chain    []Middleware
}

func NewDispatcher(prefix string, reply Responder, chain ...Middleware) *Dispatcher {
	if strings.TrimSpace(prefix) == "" {
		prefix = "/"
	}
	return &Dispatcher{
		prefix:   prefix,
		reply:    reply,
		handlers: make(map[string]Handler),
		chain:    chain,
	}
}

// Register binds a handler to a command name. The middleware chain is applied
// outermost-first at registration time.
func (d *Dispatcher) Register(name string, h Handler, extra ...Middleware) {
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = d.chain[i](h)
	}
	d.handlers[strings.ToLower(name)] = h
}

// Fallback receives every message that is not a registered command. It runs
// outside the middleware chain: plain chat must never be rate limited.
func (d *Dispatcher) Fallback(h Handler) { d.fallback = h }

// Dispatch routes one message. Handler errors are logged, not returned; the
// transport loop has nothing useful to do with them.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if !strings.HasPrefix(text, d.prefix) {
		d.runFallback(ctx, msg)
		return
	}

	parts := strings.Fields(strings.TrimPrefix(text, d.prefix))
	if len(parts) == 0 {
		d.runFallback(ctx, msg)
		return
	}
	name := strings.ToLower(parts[0])
	h, ok := d.handlers[name]
	if !ok {
		d.runFallback(ctx, msg)
		return
	}

	cmd := Command{Name: name, Args: parts[1:], Msg: msg}
	if err := h(ctx, cmd, d.reply); err != nil {
		obslog.L().Error("command_failed",
			zap.String("command", name),
			zap.String("chat_id", msg.ChatID),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) runFallback(ctx context.Context, msg Message) {
	if d.fallback == nil {
		return
	}
	cmd := Command{Msg: msg}
	if err := d.fallback(ctx, cmd, d.reply); err != nil {
		obslog.L().Error("fallback_failed",
			zap.String("chat_id", msg.ChatID),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
	}
}
