// Package irisfast talks to the Iris bridge: outbound replies over fasthttp
// or the websocket, inbound chat messages over the websocket.
package irisfast

import "context"

// Message is one inbound chat event as the bridge delivers it.
type Message struct {
	Room   string       `json:"room"`
	Msg    string       `json:"msg"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageMeta `json:"json,omitempty"`
}

// MessageMeta carries the bridge's extended sender fields.
type MessageMeta struct {
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	ChatID   string `json:"chat_id,omitempty"`
	LogID    string `json:"log_id,omitempty"`
	Time     int64  `json:"t,omitempty"`
}

// ReplyRequest is the outbound frame for both HTTP and websocket egress.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)

func (s WebSocketState) String() string { return string(s) }

type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

// WSClient is the inbound side of the bridge connection.
type WSClient interface {
	Connect(ctx context.Context) error
	OnMessage(cb MessageCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}
