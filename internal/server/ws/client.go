package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/oxylize/api/internal/logging"
)

const writeTimeout = 10 * time.Second

// TokenAuthenticator verifies an access token and returns the user id.
type TokenAuthenticator interface {
	AuthenticateAccess(token string) (string, error)
}

// Handler upgrades authenticated HTTP requests to websocket sessions.
// Browsers cannot set headers on the upgrade request, so the access
// token travels in the `token` query parameter instead.
type Handler struct {
	auth      TokenAuthenticator
	processor *Processor
	bridge    *Bridge
	registry  *Registry
	upgrader  websocket.Upgrader
	log       logging.Logger
}

func NewHandler(auth TokenAuthenticator, processor *Processor, bridge *Bridge, registry *Registry, allowedOrigins []string, log logging.Logger) *Handler {
	return &Handler{
		auth:      auth,
		processor: processor,
		bridge:    bridge,
		registry:  registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log.With("module", "ws"),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.AuthenticateAccess(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.serve(r.Context(), conn, userID)
}

// serve runs the three session loops (read pump, write pump,
// notification listener) until the first one exits, then tears the
// whole session down.
func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, userID string) {
	connID, send, err := h.registry.Register(userID)
	if err != nil {
		conn.Close()
		return
	}
	defer h.registry.Unregister(userID, connID)

	h.log.Info(ctx, "session opened", "user_id", userID, "conn_id", connID)

	g, ctx := errgroup.WithContext(ctx)

	// ReadMessage does not take a context, so closing the socket is what
	// unblocks the read pump on cancellation.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	g.Go(func() error { return h.readPump(ctx, conn, userID, send) })
	g.Go(func() error { return h.writePump(ctx, conn, send) })
	g.Go(func() error { return h.bridge.Run(ctx, userID) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		h.log.Warn(ctx, "session ended with error", "user_id", userID, "conn_id", connID, "error", err)
	} else {
		h.log.Info(ctx, "session closed", "user_id", userID, "conn_id", connID)
	}
}

func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, userID string, send chan []byte) error {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		reply, err := h.processor.Handle(ctx, userID, frame)
		if err != nil {
			return err
		}

		select {
		case send <- reply:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, send chan []byte) error {
	for {
		select {
		case payload := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return err
			}
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		}
	}
}
