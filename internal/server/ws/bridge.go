package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oxylize/api/internal/logging"
	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/messages"
)

// notifyWait bounds each WaitForNotification call. On every timeout the
// bridge re-checks the user's thread set, so threads created while the
// connection is open get picked up without a reconnect.
const notifyWait = 15 * time.Second

// Bridge connects one websocket session to postgres LISTEN/NOTIFY. Each
// running bridge holds a dedicated pgx connection subscribed to the
// channels of every thread its user participates in, and turns incoming
// notifications into new_message events.
type Bridge struct {
	dsn      string
	chat     ChatService
	registry *Registry
	log      logging.Logger
}

func NewBridge(dsn string, chat ChatService, registry *Registry, log logging.Logger) *Bridge {
	return &Bridge{dsn: dsn, chat: chat, registry: registry, log: log.With("module", "ws.bridge")}
}

// Run listens for the user's thread notifications until ctx is canceled
// or the database connection fails. The returned error tears down the
// whole websocket session.
func (b *Bridge) Run(ctx context.Context, userID string) error {
	conn, err := pgx.Connect(ctx, b.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	subscribed := make(map[string]struct{})
	if err := b.subscribe(ctx, conn, userID, subscribed); err != nil {
		return err
	}

	for {
		waitCtx, cancel := context.WithTimeout(ctx, notifyWait)
		notification, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				if err := b.subscribe(ctx, conn, userID, subscribed); err != nil {
					return err
				}
				continue
			}
			return err
		}

		b.handleNotification(ctx, userID, notification.Payload)
	}
}

// subscribe issues LISTEN for any of the user's threads not yet
// subscribed on this connection.
func (b *Bridge) subscribe(ctx context.Context, conn *pgx.Conn, userID string, subscribed map[string]struct{}) error {
	threadIDs, err := b.chat.ThreadIDs(ctx, userID)
	if err != nil {
		return err
	}

	for _, id := range threadIDs {
		channel := messages.NotifyChannel(id)
		if _, ok := subscribed[channel]; ok {
			continue
		}
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			return err
		}
		subscribed[channel] = struct{}{}
	}
	return nil
}

func (b *Bridge) handleNotification(ctx context.Context, userID, payload string) {
	var n models.MessageNotification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		b.log.Error(ctx, "malformed notification payload", "user_id", userID, "error", err)
		return
	}

	// Delivered even when the sender is this user: only the originating
	// connection got message_sent, and the sender's other devices learn
	// about the message through this path. Duplicates on the counterpart
	// side are tolerated; clients dedup by message id.
	senderName, err := b.chat.UserName(ctx, n.SenderID)
	if err != nil {
		b.log.Error(ctx, "sender lookup failed", "user_id", userID, "sender_id", n.SenderID, "error", err)
		return
	}

	event, err := marshalNewMessage(&models.MessageInfo{
		ID:         n.MessageID,
		ThreadID:   n.ThreadID,
		SenderID:   n.SenderID,
		SenderName: senderName,
		Content:    n.Content,
		SentAt:     n.SentAt,
	})
	if err != nil {
		return
	}
	b.registry.Deliver(userID, event)
}
