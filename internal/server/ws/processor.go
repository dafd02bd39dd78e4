package ws

import (
	"context"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/logging"
	"github.com/oxylize/api/internal/server/models"
)

// ChatService is the slice of the chat business logic the ws layer
// depends on.
type ChatService interface {
	CreateThread(ctx context.Context, userID, postID, otherUserID string) (*models.ThreadInfo, string, error)
	SendMessage(ctx context.Context, userID, threadID, content string) (*models.MessageInfo, string, error)
	Threads(ctx context.Context, userID string) ([]*models.ThreadInfo, error)
	Messages(ctx context.Context, userID, threadID string, limit, offset int) ([]*models.MessageInfo, error)
	ThreadIDs(ctx context.Context, userID string) ([]string, error)
	UserName(ctx context.Context, userID string) (string, error)
}

// Processor executes client commands and fans resulting events out to
// the other participant. Command failures are answered with an error
// event to the caller only; a non-nil returned error is fatal to the
// connection.
type Processor struct {
	chat     ChatService
	registry *Registry
	log      logging.Logger
}

func NewProcessor(chat ChatService, registry *Registry, log logging.Logger) *Processor {
	return &Processor{chat: chat, registry: registry, log: log.With("module", "ws.processor")}
}

// Handle parses and executes one client frame and returns the payload
// to send back to the caller.
func (p *Processor) Handle(ctx context.Context, userID string, frame []byte) ([]byte, error) {
	cmd, err := ParseCommand(frame)
	if err != nil {
		return marshalError(err), nil
	}

	switch cmd.Cmd {
	case CmdCreateThread:
		return p.createThread(ctx, userID, cmd)
	case CmdSendMessage:
		return p.sendMessage(ctx, userID, cmd)
	case CmdGetThreads:
		return p.getThreads(ctx, userID)
	case CmdGetMessages:
		return p.getMessages(ctx, userID, cmd)
	}
	return marshalError(common.ErrValidation), nil
}

func (p *Processor) createThread(ctx context.Context, userID string, cmd *Command) ([]byte, error) {
	info, otherID, err := p.chat.CreateThread(ctx, userID, cmd.PostID, cmd.OtherUserID)
	if err != nil {
		p.log.Warn(ctx, "create_thread failed", "user_id", userID, "error", err)
		return marshalError(err), nil
	}

	// The counterpart gets a refreshed thread list so the new
	// conversation shows up immediately.
	p.pushThreadsList(ctx, otherID)

	return marshalThreadCreated(info)
}

func (p *Processor) sendMessage(ctx context.Context, userID string, cmd *Command) ([]byte, error) {
	msg, otherID, err := p.chat.SendMessage(ctx, userID, cmd.ThreadID, cmd.Content)
	if err != nil {
		p.log.Warn(ctx, "send_message failed", "user_id", userID, "error", err)
		return marshalError(err), nil
	}

	// Direct fan-out on top of the notification bridge; duplicates are
	// tolerated by clients, missed deliveries are not.
	if payload, err := marshalNewMessage(msg); err == nil {
		p.registry.Deliver(otherID, payload)
	}

	return marshalMessageSent(msg)
}

func (p *Processor) getThreads(ctx context.Context, userID string) ([]byte, error) {
	threads, err := p.chat.Threads(ctx, userID)
	if err != nil {
		p.log.Error(ctx, "get_threads failed", "user_id", userID, "error", err)
		return marshalError(err), nil
	}
	return marshalThreadsList(threads)
}

func (p *Processor) getMessages(ctx context.Context, userID string, cmd *Command) ([]byte, error) {
	msgs, err := p.chat.Messages(ctx, userID, cmd.ThreadID, cmd.Limit, cmd.Offset)
	if err != nil {
		p.log.Warn(ctx, "get_messages failed", "user_id", userID, "error", err)
		return marshalError(err), nil
	}
	return marshalMessagesList(msgs)
}

func (p *Processor) pushThreadsList(ctx context.Context, userID string) {
	if !p.registry.IsOnline(userID) {
		return
	}
	threads, err := p.chat.Threads(ctx, userID)
	if err != nil {
		p.log.Error(ctx, "thread list push failed", "user_id", userID, "error", err)
		return
	}
	if payload, err := marshalThreadsList(threads); err == nil {
		p.registry.Deliver(userID, payload)
	}
}
