// Package ws implements the real-time chat surface: the connection
// registry, the per-connection command loop, and the postgres
// notification bridge that pushes new messages to connected clients.
package ws

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/models"
)

// Commands a client may send, selected by the "cmd" field.
const (
	CmdCreateThread = "create_thread"
	CmdSendMessage  = "send_message"
	CmdGetThreads   = "get_threads"
	CmdGetMessages  = "get_messages"
)

// Command is the envelope of every client frame. Which fields are
// meaningful depends on Cmd; absent limit/offset fall back to the
// service defaults.
type Command struct {
	Cmd string `json:"cmd"`

	PostID      string `json:"post_id,omitempty"`
	OtherUserID string `json:"other_user_id,omitempty"`
	ThreadID    string `json:"thread_id,omitempty"`
	Content     string `json:"content,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// ParseCommand decodes a client frame. Unknown commands and malformed
// JSON both yield ErrValidation.
func ParseCommand(data []byte) (*Command, error) {
	cmd := &Command{}
	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, common.ErrValidation
	}
	// Ids are validated and rewritten to canonical lowercase form before
	// they reach the database. uuid.Parse accepts uppercase hex, but
	// participant ordering must agree with how postgres orders the uuid
	// column values, so only the canonical form may pass this point.
	var ok bool
	switch cmd.Cmd {
	case CmdCreateThread:
		if cmd.PostID, ok = canonicalUUID(cmd.PostID); !ok {
			return nil, common.ErrValidation
		}
		if cmd.OtherUserID, ok = canonicalUUID(cmd.OtherUserID); !ok {
			return nil, common.ErrValidation
		}
	case CmdSendMessage, CmdGetMessages:
		if cmd.ThreadID, ok = canonicalUUID(cmd.ThreadID); !ok {
			return nil, common.ErrValidation
		}
	case CmdGetThreads:
	default:
		return nil, common.ErrValidation
	}
	return cmd, nil
}

func canonicalUUID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Server events, selected by the "type" field.

type threadCreatedEvent struct {
	Type   string             `json:"type"`
	Thread *models.ThreadInfo `json:"thread"`
}

type messageSentEvent struct {
	Type    string              `json:"type"`
	Message *models.MessageInfo `json:"message"`
}

type threadsListEvent struct {
	Type    string               `json:"type"`
	Threads []*models.ThreadInfo `json:"threads"`
}

type messagesListEvent struct {
	Type     string                `json:"type"`
	Messages []*models.MessageInfo `json:"messages"`
}

type newMessageEvent struct {
	Type    string              `json:"type"`
	Message *models.MessageInfo `json:"message"`
}

type errorEvent struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	Code    *string `json:"code"`
}

func marshalThreadCreated(thread *models.ThreadInfo) ([]byte, error) {
	return json.Marshal(threadCreatedEvent{Type: "thread_created", Thread: thread})
}

func marshalMessageSent(msg *models.MessageInfo) ([]byte, error) {
	return json.Marshal(messageSentEvent{Type: "message_sent", Message: msg})
}

func marshalThreadsList(threads []*models.ThreadInfo) ([]byte, error) {
	if threads == nil {
		threads = []*models.ThreadInfo{}
	}
	return json.Marshal(threadsListEvent{Type: "threads_list", Threads: threads})
}

func marshalMessagesList(msgs []*models.MessageInfo) ([]byte, error) {
	if msgs == nil {
		msgs = []*models.MessageInfo{}
	}
	return json.Marshal(messagesListEvent{Type: "messages_list", Messages: msgs})
}

func marshalNewMessage(msg *models.MessageInfo) ([]byte, error) {
	return json.Marshal(newMessageEvent{Type: "new_message", Message: msg})
}

// marshalError maps a service error onto the wire taxonomy. Internal
// details are never surfaced: anything unrecognized becomes a generic
// internal error.
func marshalError(err error) []byte {
	var message, code string
	switch {
	case errors.Is(err, common.ErrValidation):
		message, code = "invalid request", "validation"
	case errors.Is(err, common.ErrAccessDenied):
		message, code = "access denied", "access_denied"
	case errors.Is(err, common.ErrNotFound):
		message, code = "not found", "not_found"
	case errors.Is(err, common.ErrConflict):
		message, code = "conflict", "conflict"
	case errors.Is(err, common.ErrUnauthorized):
		message, code = "unauthorized", "unauthorized"
	default:
		message, code = "internal error", "internal"
	}

	data, err := json.Marshal(errorEvent{Type: "error", Message: message, Code: &code})
	if err != nil {
		return []byte(`{"type":"error","message":"internal error","code":"internal"}`)
	}
	return data
}
