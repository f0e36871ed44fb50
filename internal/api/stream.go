package api

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/websocket"

    "pinroute/internal/model"
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsMessage is the framing for /v1/optimize/stream. The client sends
// {"type":"solve","id":...,"payload":<OptimizeRequest>} and receives "next"
// frames with solver progress followed by a terminal "result" frame.
type wsMessage struct {
    Type    string          `json:"type"`
    ID      string          `json:"id,omitempty"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

func mustJSON(v any) json.RawMessage {
    b, _ := json.Marshal(v)
    return b
}

type solveOutcome struct {
    resp model.OptimizeResponse
    err  error
}

// OptimizeStreamHandler upgrades to WebSocket and runs solves while pushing
// each accepted improvement to the client. One solve runs at a time per
// connection.
func (s *Server) OptimizeStreamHandler(w http.ResponseWriter, r *http.Request) {
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Printf("ws upgrade: %v", err)
        return
    }
    defer conn.Close()
    conn.SetReadLimit(1 << 20)

    for {
        var msg wsMessage
        if err := conn.ReadJSON(&msg); err != nil {
            return
        }
        switch msg.Type {
        case "ping":
            _ = conn.WriteJSON(wsMessage{Type: "pong", ID: msg.ID})
        case "solve":
            s.streamSolve(r, conn, msg)
        default:
            _ = conn.WriteJSON(wsMessage{Type: "error", ID: msg.ID,
                Payload: mustJSON(map[string]string{"message": "unknown message type " + msg.Type})})
        }
    }
}

func (s *Server) streamSolve(r *http.Request, conn *websocket.Conn, msg wsMessage) {
    var req model.OptimizeRequest
    if err := json.Unmarshal(msg.Payload, &req); err != nil {
        _ = conn.WriteJSON(wsMessage{Type: "error", ID: msg.ID,
            Payload: mustJSON(map[string]string{"message": "invalid payload: " + err.Error()})})
        return
    }
    if err := validateOptimizeRequest(&req, s.MinPoints); err != nil {
        _ = conn.WriteJSON(wsMessage{Type: "error", ID: msg.ID,
            Payload: mustJSON(map[string]string{"message": err.Error()})})
        return
    }
    if len(req.Coords) == 0 {
        _ = conn.WriteJSON(wsMessage{Type: "result", ID: msg.ID,
            Payload: mustJSON(model.OptimizeResponse{Order: []int{}, Distance: 0})})
        return
    }

    solveID := uuid.New().String()
    ch := s.Broker.Subscribe(solveID)
    done := make(chan solveOutcome, 1)
    go func() {
        resp, err := s.solve(r.Context(), req, solveID)
        done <- solveOutcome{resp: resp, err: err}
    }()

    for {
        select {
        case evt := <-ch:
            _ = conn.WriteJSON(wsMessage{Type: "next", ID: msg.ID, Payload: mustJSON(evt)})
        case out := <-done:
            // the solve published its last events before returning; flush
            // what is still queued, then send the terminal frame
        drain:
            for {
                select {
                case evt := <-ch:
                    _ = conn.WriteJSON(wsMessage{Type: "next", ID: msg.ID, Payload: mustJSON(evt)})
                default:
                    break drain
                }
            }
            s.Broker.Unsubscribe(solveID, ch)
            if out.err != nil {
                _ = conn.WriteJSON(wsMessage{Type: "error", ID: msg.ID,
                    Payload: mustJSON(map[string]string{"message": out.err.Error()})})
            } else {
                _ = conn.WriteJSON(wsMessage{Type: "result", ID: msg.ID, Payload: mustJSON(out.resp)})
            }
            return
        }
    }
}
