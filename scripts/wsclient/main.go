package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8080", "relay host:port")
	fileID := flag.String("file", "", "file id to join")
	token := flag.String("token", os.Getenv("TEST_TOKEN"), "jwt (defaults to $TEST_TOKEN)")
	flag.Parse()

	if *fileID == "" || *token == "" {
		fmt.Println("Usage: go run ./scripts/wsclient -file <file_id> -token <jwt>")
		os.Exit(1)
	}

	// build WebSocket URL
	u := url.URL{
		Scheme: "ws",
		Host:   *host,
		Path:   "/api/v1/ws",
	}
	q := u.Query()
	q.Set("file_id", *fileID)
	q.Set("token", *token)
	u.RawQuery = q.Encode()

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	fmt.Println("Connected")

	// handle interrupt
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	// read messages
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("Received: %s\n", message)
		}
	}()

	time.Sleep(1 * time.Second)

	frames := []map[string]any{
		{"type": "content", "content": map[string]any{"insert": "s(\"bd sd\")", "at": 0}},
		{"type": "cursor", "cursor": map[string]any{"line": 0, "ch": 9}},
	}

	for _, frame := range frames {
		encoded, _ := json.Marshal(frame)
		fmt.Printf("Sending: %s\n", encoded)

		if err := c.WriteMessage(websocket.TextMessage, encoded); err != nil {
			log.Println("write:", err)
			return
		}
	}

	// wait for interrupt or done
	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nInterrupt received, closing connection...")

		// cleanly close the connection
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
