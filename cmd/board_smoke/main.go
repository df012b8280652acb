package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Connects two sessions to one board channel, creates a column and a task from
// the first, and prints what the second receives. Expects a running server,
// BOARD_ID and TOKEN env vars.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	boardID := os.Getenv("BOARD_ID")
	if boardID == "" {
		log.Fatal("BOARD_ID not set")
	}
	token := os.Getenv("TOKEN")
	if token == "" {
		log.Fatal("TOKEN not set")
	}

	url := fmt.Sprintf("ws://localhost:%s/ws/%s?token=%s", port, boardID, token)

	a, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial session a: %v", err)
	}
	defer a.Close()

	b, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial session b: %v", err)
	}
	defer b.Close()

	// drain ready + state from both
	for i := 0; i < 2; i++ {
		if _, _, err := a.ReadMessage(); err != nil {
			log.Fatalf("session a handshake: %v", err)
		}
		if _, _, err := b.ReadMessage(); err != nil {
			log.Fatalf("session b handshake: %v", err)
		}
	}

	send := func(typ string, payload any) {
		raw, _ := json.Marshal(payload)
		msg, _ := json.Marshal(map[string]any{"type": typ, "payload": json.RawMessage(raw)})
		if err := a.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Fatalf("send %s: %v", typ, err)
		}
	}

	send("createColumn", map[string]any{"id": "smoke-col", "title": "Smoke"})
	send("createTask", map[string]any{"id": "smoke-task", "column_id": "smoke-col", "content": "hello"})

	b.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 2; i++ {
		_, msg, err := b.ReadMessage()
		if err != nil {
			log.Fatalf("session b read: %v", err)
		}
		fmt.Printf("session b received: %s\n", msg)
	}

	log.Println("smoke ok")
}
