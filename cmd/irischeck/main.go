// irischeck probes the Iris bridge: it hits the HTTP reply endpoint with an
// optional test message and observes the websocket for a short window. Run it
// before pointing the bot at a new bridge deployment.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kapu/emoji-movie-bot-go/internal/irisfast"
)

func main() {
	baseURL := os.Getenv("IRIS_BASE_URL")
	wsURL := os.Getenv("IRIS_WS_URL")
	testRoom := os.Getenv("IRIS_TEST_ROOM")
	userID := os.Getenv("X_USER_ID")
	userEmail := os.Getenv("X_USER_EMAIL")
	sessionID := os.Getenv("X_SESSION_ID")

	if baseURL == "" {
		log.Fatal("IRIS_BASE_URL is required")
	}

	headers := func() map[string]string {
		m := map[string]string{}
		if userID != "" {
			m["X-User-Id"] = userID
		}
		if userEmail != "" {
			m["X-User-Email"] = userEmail
		}
		if sessionID != "" {
			m["X-Session-Id"] = sessionID
		}
		return m
	}

	if testRoom != "" {
		client := irisfast.NewClient(baseURL,
			irisfast.WithHeaderProvider(headers),
			irisfast.WithTimeout(8*time.Second),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.SendMessage(ctx, testRoom, "irischeck ping")
		cancel()
		if err != nil {
			log.Printf("/reply error: %v", err)
		} else {
			log.Printf("/reply ok: room=%s", testRoom)
		}
	} else {
		log.Println("IRIS_TEST_ROOM not set; skipping reply check")
	}

	if wsURL == "" {
		log.Println("IRIS_WS_URL not set; skipping WS check")
		return
	}

	ws := irisfast.NewWebSocket(wsURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		log.Printf("WS state: %s", state)
	})
	ws.OnMessage(func(msg *irisfast.Message) {
		from := "?"
		if msg.JSON != nil && msg.JSON.UserID != "" {
			from = msg.JSON.UserID
		} else if msg.Sender != nil {
			from = *msg.Sender
		}
		fmt.Printf("WS msg room=%s from=%s text=%q\n", msg.Room, from, msg.Msg)
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		log.Printf("WS connect error: %v", err)
		return
	}

	// Observe inbound traffic for a short window, then close.
	t := time.NewTimer(10 * time.Second)
	<-t.C

	_ = ws.Close(context.Background())
}
