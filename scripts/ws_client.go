// Package main runs a demo WebSocket client against the optimize stream.
package main

import (
	"encoding/json"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/optimize/stream"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	// a pin set with a crossing in the greedy tour, so the stream carries
	// visible improvement frames
	payload := json.RawMessage(`{"coords":[[0,0],[10,0],[10,10],[0,10],[5,0.5],[2,8],[8,2],[3,3]]}`)
	if err := c.WriteJSON(wsMessage{Type: "solve", ID: "1", Payload: payload}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
			if m.Type == "result" || m.Type == "error" {
				return
			}
		}
	}()

	select {
	case <-time.After(10 * time.Second):
		log.Print("timed out waiting for result")
	case <-done:
	}
}
