// Package main runs a demo WebSocket client for solve events.
package main

import (
	"bytes"
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

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Connect WS and subscribe to the solve firehose first, so the events of
	// the solve triggered below are not missed.
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/solves/ws"}
	hdr := http.Header{}
	hdr.Set("X-Tenant-Id", "t_demo")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	pl, _ := json.Marshal(map[string]any{"solve_id": "all"})
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: pl}); err != nil {
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
		}
	}()

	// Trigger a small solve
	time.Sleep(200 * time.Millisecond)
	body := []byte(`{
		"distance_matrix": [[0,10,20],[10,0,10],[20,10,0]],
		"demands": [0,1,1],
		"vehicle_capacities": [10],
		"num_vehicles": 1,
		"search_params": {"max_iterations": 500}
	}`)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "t_demo")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var solveResp struct {
		SolveID string `json:"solve_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&solveResp); err != nil {
		log.Fatal(err)
	}
	log.Printf("Solve ID: %s", solveResp.SolveID)

	// Wait briefly to receive the lifecycle events
	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
