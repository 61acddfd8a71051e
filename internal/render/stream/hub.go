package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/observability/log"
)

const (
	writeWait      = 2 * time.Second
	viewerBacklog  = 16
	readLimitBytes = 512
)

var ErrHubClosed = errors.New("hub is closed")

// Frame is the JSON message pushed to viewers once per tick.
type Frame struct {
	Type string `json:"type"`
	epidemic.Snapshot
}

// Hub fans simulation snapshots out to websocket viewers. Viewers only
// receive; anything they send is discarded. A viewer whose backlog fills up
// is disconnected instead of slowing the simulation down.
type Hub struct {
	logger   log.Log
	upgrader websocket.Upgrader

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	last    []byte
	closed  bool
}

type viewer struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (v *viewer) close() {
	v.closeOnce.Do(func() { close(v.send) })
}

func NewHub(logger log.Log) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		viewers: make(map[*viewer]struct{}),
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// ServeHTTP upgrades the request and keeps the viewer registered until its
// connection drops or the hub closes. A new viewer first gets the latest frame.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	conn.SetReadLimit(readLimitBytes)

	v := &viewer{conn: conn, send: make(chan []byte, viewerBacklog)}
	if !h.register(v) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ErrHubClosed.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.logger.Debug("viewer connected", log.String("remote", conn.RemoteAddr().String()))

	go v.writeLoop()

	for {
		if _, _, err = conn.NextReader(); err != nil {
			break
		}
	}

	h.unregister(v)
	h.logger.Debug("viewer disconnected", log.String("remote", conn.RemoteAddr().String()))
}

// Broadcast encodes snap and queues it for every viewer.
func (h *Hub) Broadcast(snap epidemic.Snapshot) error {
	data, err := json.Marshal(Frame{Type: "snapshot", Snapshot: snap})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}

	h.last = data
	for v := range h.viewers {
		select {
		case v.send <- data:
		default:
			h.logger.Warn("dropping slow viewer", log.String("remote", v.conn.RemoteAddr().String()))
			delete(h.viewers, v)
			v.close()
		}
	}
	return nil
}

// Close disconnects every viewer and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for v := range h.viewers {
		delete(h.viewers, v)
		v.close()
	}
	return nil
}

func (h *Hub) register(v *viewer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.viewers[v] = struct{}{}
	if h.last != nil {
		v.send <- h.last
	}
	return true
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	delete(h.viewers, v)
	h.mu.Unlock()
	v.close()
}

func (v *viewer) writeLoop() {
	defer v.conn.Close()

	for msg := range v.send {
		_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			// closing the socket ends the read loop, which unregisters us
			_ = v.conn.Close()
			for range v.send {
			}
			return
		}
	}

	_ = v.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
