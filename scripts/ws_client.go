// Package main runs a demo WebSocket client that streams a scheduling run.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
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

// demoWorld: 2 vehicles, 3 rides, bonus 2, horizon 10.
const demoWorld = `3 4 2 3 2 10
0 0 1 3 2 9
1 2 1 0 0 9
2 0 2 2 0 9
`

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	world := demoWorld
	if len(os.Args) > 1 {
		b, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		world = string(b)
	}

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/plan/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	pl, _ := json.Marshal(map[string]any{"dataset": "demo", "worldText": world})
	if err := c.WriteJSON(wsMessage{Type: "plan", ID: "1", Payload: pl}); err != nil {
		log.Fatal(err)
	}

	_ = c.SetReadDeadline(time.Now().Add(30 * time.Second))
	var runID string
	for {
		var m wsMessage
		if err := c.ReadJSON(&m); err != nil {
			log.Fatalf("read: %v", err)
		}
		log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
		if m.Type == "result" {
			var res struct {
				RunID string `json:"runId"`
			}
			_ = json.Unmarshal(m.Payload, &res)
			runID = res.RunID
		}
		if m.Type == "complete" {
			break
		}
	}
	if runID == "" {
		return
	}

	// The run is persisted; fetch it back over REST
	resp, err := http.Get(fmt.Sprintf("http://localhost:%s/v1/runs/%s", port, runID))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var run map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		log.Fatal(err)
	}
	log.Printf("run %s: %v", runID, run["report"])
}
