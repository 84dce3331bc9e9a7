package irisfast

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket/wsjson"

	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
)

// Egress abstracts reply delivery over HTTP or the websocket.
type Egress interface {
	SendText(ctx context.Context, room, message string) error
	SendImage(ctx context.Context, room, imageBase64 string) error
}

type transportMode string

const (
	transportHTTP transportMode = "http"
	transportWS   transportMode = "ws"
	transportAuto transportMode = "auto"
)

// NewEgress selects the delivery transport. In auto mode the websocket is
// preferred while connected, falling back to HTTP per message.
func NewEgress(mode string, dryrun bool, c *Client, ws *WebSocket) Egress {
	switch transportMode(mode) {
	case transportWS:
		return &wsEgress{ws: ws, dryrun: dryrun}
	case transportAuto:
		return &autoEgress{ws: &wsEgress{ws: ws, dryrun: dryrun}, http: &httpEgress{c: c}}
	default:
		return &httpEgress{c: c}
	}
}

type httpEgress struct{ c *Client }

func (h *httpEgress) SendText(ctx context.Context, room, message string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendMessage(ctx, room, message)
}

func (h *httpEgress) SendImage(ctx context.Context, room, imageBase64 string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendImage(ctx, room, imageBase64)
}

// wsEgress writes ReplyRequest frames over the websocket connection.
type wsEgress struct {
	ws     *WebSocket
	dryrun bool
}

func (w *wsEgress) SendText(ctx context.Context, room, message string) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	if w.dryrun {
		obslog.L().Info("ws_egress_dryrun", zap.String("type", "text"), zap.String("room", room))
		return nil
	}
	return w.writeJSON(ctx, &ReplyRequest{Type: "text", Room: room, Data: message})
}

func (w *wsEgress) SendImage(ctx context.Context, room, imageBase64 string) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	if w.dryrun {
		obslog.L().Info("ws_egress_dryrun", zap.String("type", "image"), zap.String("room", room))
		return nil
	}
	return w.writeJSON(ctx, &ReplyRequest{Type: "image", Room: room, Data: imageBase64})
}

// connected reports whether the websocket link is up. State and conn are read
// under the connection's state lock.
func (w *wsEgress) connected() bool {
	if w == nil || w.ws == nil {
		return false
	}
	w.ws.stateM.RLock()
	defer w.ws.stateM.RUnlock()
	return w.ws.conn != nil && w.ws.state == WSStateConnected
}

func (w *wsEgress) writeJSON(ctx context.Context, v any) error {
	w.ws.stateM.RLock()
	conn := w.ws.conn
	up := w.ws.state == WSStateConnected
	w.ws.stateM.RUnlock()
	if conn == nil || !up {
		return errors.New("ws not connected")
	}
	// Replies arrive from concurrent dispatch goroutines; the connection
	// serializes writers internally.
	dctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return wsjson.Write(dctx, conn, v)
}

// autoEgress prefers the websocket, with per-message HTTP fallback.
type autoEgress struct {
	ws   *wsEgress
	http *httpEgress
}

func (a *autoEgress) SendText(ctx context.Context, room, message string) error {
	if a.ws.connected() {
		if err := a.ws.SendText(ctx, room, message); err == nil {
			return nil
		}
		obslog.L().Warn("egress_fallback", zap.String("type", "text"), zap.String("room", room))
	}
	return a.http.SendText(ctx, room, message)
}

func (a *autoEgress) SendImage(ctx context.Context, room, imageBase64 string) error {
	if a.ws.connected() {
		if err := a.ws.SendImage(ctx, room, imageBase64); err == nil {
			return nil
		}
		obslog.L().Warn("egress_fallback", zap.String("type", "image"), zap.String("room", room))
	}
	return a.http.SendImage(ctx, room, imageBase64)
}
