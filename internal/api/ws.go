package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ridefleet/internal/opt"
)

// Plan streaming over WebSocket: the client sends {"type":"plan","payload":{...}},
// the server answers with one "event" per scheduler decision, then "result" and
// "complete". Errors are sent as "error" followed by "complete".

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PlanWSHandler handles /v1/plan/ws
func (s *Server) PlanWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(s.Config.MaxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	// gorilla connections allow one concurrent writer
	var wmu sync.Mutex
	write := func(v any) error {
		wmu.Lock()
		defer wmu.Unlock()
		return conn.WriteJSON(v)
	}
	writeError := func(id, msg string) {
		payload, _ := json.Marshal(map[string]string{"message": msg})
		_ = write(wsMessage{Type: "error", ID: id, Payload: payload})
		_ = write(wsMessage{Type: "complete", ID: id})
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				wmu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				wmu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		switch msg.Type {
		case "ping":
			_ = write(wsMessage{Type: "pong", ID: msg.ID})
		case "plan":
			var req planRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				writeError(msg.ID, "invalid payload: "+err.Error())
				continue
			}
			if err := validatePlanRequest(&req); err != nil {
				writeError(msg.ID, err.Error())
				continue
			}
			world, err := req.build(s.Config)
			if err != nil {
				writeError(msg.ID, err.Error())
				continue
			}
			runID := req.RunID
			if runID == "" {
				runID = uuid.New().String()
			}
			id := msg.ID
			stream := opt.ObserverFunc(func(e opt.Event) {
				payload, _ := json.Marshal(e)
				_ = write(wsMessage{Type: "event", ID: id, Payload: payload})
			})
			res, err := s.executePlan(r.Context(), runID, req.Dataset, world, stream)
			if err != nil {
				writeError(id, err.Error())
				continue
			}
			payload, _ := json.Marshal(res)
			_ = write(wsMessage{Type: "result", ID: id, Payload: payload})
			_ = write(wsMessage{Type: "complete", ID: id})
		default:
			writeError(msg.ID, "unknown message type: "+msg.Type)
		}
	}
}
