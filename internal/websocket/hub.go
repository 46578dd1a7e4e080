// Package websocket implements the live tilt feed.
//
// The Hub is an actor: one goroutine owns the client set and processes
// commands from a channel. On every tick it pulls the decayed leaderboard
// from the engine and fans it out; alert crossings are pushed immediately.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/metrics"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
)

const (
	maxClients    = 100
	tickInterval  = 1 * time.Second
	writeDeadline = 5 * time.Second
)

// BoardProvider supplies the current leaderboard for periodic broadcasts.
type BoardProvider interface {
	Leaderboard() []tilt.UserScore
}

// SnapshotMessage is the periodic leaderboard push.
type SnapshotMessage struct {
	Type        string           `json:"type"`
	Leaderboard []tilt.UserScore `json:"leaderboard"`
}

// AlertMessage is pushed immediately when a score crosses the alert threshold.
type AlertMessage struct {
	Type   string  `json:"type"`
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdAlert struct {
	userID string
	score  float64
}

func (cmdAlert) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

type Hub struct {
	cmdCh   chan hubCmd
	clock   clockwork.Clock
	board   BoardProvider
	clients map[*websocket.Conn]*clientWriter
}

func NewHub(board BoardProvider, clock clockwork.Clock) *Hub {
	h := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clock:   clock,
		board:   board,
		clients: make(map[*websocket.Conn]*clientWriter),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	ticker := h.clock.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-h.cmdCh:
			switch c := cmd.(type) {
			case cmdRegister:
				h.handleRegister(c)
			case cmdUnregister:
				h.handleUnregister(c.conn)
			case cmdAlert:
				h.handleAlert(c)
			case cmdClientCount:
				c.replyCh <- len(h.clients)
			case cmdStop:
				h.handleStop()
				close(c.doneCh)
				return
			}
		case <-ticker.Chan():
			h.handleTick()
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	if len(h.clients) >= maxClients {
		slog.Warn("Rejecting WebSocket client: max clients reached", "max", maxClients)
		c.conn.Close()
		c.errCh <- fmt.Errorf("max clients (%d) reached", maxClients)
		return
	}

	h.clients[c.conn] = newClientWriter(c.conn)
	metrics.WebSocketClients.Set(float64(len(h.clients)))
	slog.Debug("WebSocket client registered", "total", len(h.clients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cw, ok := h.clients[conn]
	if !ok {
		return
	}
	cw.stop()
	delete(h.clients, conn)
	metrics.WebSocketClients.Set(float64(len(h.clients)))
	slog.Debug("WebSocket client unregistered", "remaining", len(h.clients))
}

func (h *Hub) handleTick() {
	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(SnapshotMessage{Type: "snapshot", Leaderboard: h.board.Leaderboard()})
	if err != nil {
		slog.Error("Failed to marshal leaderboard snapshot", "error", err)
		return
	}
	h.fanOut(data)
}

func (h *Hub) handleAlert(c cmdAlert) {
	data, err := json.Marshal(AlertMessage{Type: "alert", UserID: c.userID, Score: c.score})
	if err != nil {
		slog.Error("Failed to marshal alert message", "error", err)
		return
	}
	h.fanOut(data)
}

func (h *Hub) fanOut(data []byte) {
	var slow []*websocket.Conn
	for conn, cw := range h.clients {
		select {
		case cw.sendCh <- data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow WebSocket client")
		metrics.WebSocketSlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleStop() {
	for conn, cw := range h.clients {
		cw.stop()
		delete(h.clients, conn)
	}
	metrics.WebSocketClients.Set(0)
}

// --- Public API ---

// Register adds a client. Returns an error when the hub is full.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister removes a client and closes its writer.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// Alert pushes a threshold-crossing notification to every client.
func (h *Hub) Alert(userID string, score float64) {
	h.cmdCh <- cmdAlert{userID: userID, score: score}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}
	return <-replyCh
}

// Stop closes every client connection and shuts the actor down.
func (h *Hub) Stop() {
	doneCh := make(chan struct{})
	h.cmdCh <- cmdStop{doneCh: doneCh}
	<-doneCh
}
