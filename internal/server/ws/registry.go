package ws

import (
	"sync"

	"github.com/oxylize/api/internal/common"
)

const sendBufferSize = 256

// Registry tracks which users currently hold open connections and fans
// events out to them. A user can be connected from several devices at
// once; each connection has its own buffered send channel drained by
// that connection's write pump.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[string]chan []byte // userID -> connID -> send
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[string]chan []byte)}
}

// Register adds a connection for userID and returns its id and send
// channel. The caller must Unregister with the same pair when the
// connection closes.
func (r *Registry) Register(userID string) (string, chan []byte, error) {
	connID, err := common.MakeRandHexString(8)
	if err != nil {
		return "", nil, err
	}
	send := make(chan []byte, sendBufferSize)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] == nil {
		r.conns[userID] = make(map[string]chan []byte)
	}
	r.conns[userID][connID] = send

	return connID, send, nil
}

// Unregister removes the connection and prunes the user's entry when it
// was the last one. The send channel is not closed here; the write pump
// exits via context cancellation instead, so late Deliver calls cannot
// hit a closed channel.
func (r *Registry) Unregister(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conns, ok := r.conns[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.conns, userID)
		}
	}
}

// Deliver sends the payload to every open connection of userID.
// Delivery is best effort: a connection whose buffer is full is skipped
// rather than blocking the caller.
func (r *Registry) Deliver(userID string, payload []byte) {
	r.mu.RLock()
	channels := make([]chan []byte, 0, len(r.conns[userID]))
	for _, send := range r.conns[userID] {
		channels = append(channels, send)
	}
	r.mu.RUnlock()

	for _, send := range channels {
		select {
		case send <- payload:
		default:
		}
	}
}

// IsOnline reports whether the user has at least one open connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}
