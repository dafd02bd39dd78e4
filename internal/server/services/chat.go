package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/dbx"
	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/repomanager"
)

const (
	defaultMessagesLimit = 50
	maxMessagesLimit     = 200
)

// ChatService implements the messaging subsystem: thread creation,
// message append, and paged reads. All operations enforce participation:
// callers that are not part of a thread get ErrAccessDenied without
// learning whether the thread exists.
type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager) *ChatService {
	return &ChatService{db: db, repomanager: m}
}

// CreateThread opens (or re-opens) the conversation between userID and
// otherUserID about postID and returns the caller-oriented thread view
// plus the counterpart's id for notification fan-out. A thread with
// oneself is rejected.
func (s *ChatService) CreateThread(ctx context.Context, userID, postID, otherUserID string) (*models.ThreadInfo, string, error) {
	if postID == "" || otherUserID == "" {
		return nil, "", common.ErrValidation
	}
	if otherUserID == userID {
		return nil, "", common.ErrValidation
	}

	if _, err := s.repomanager.Posts(s.db).GetByID(ctx, postID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrNotFound
		}
		return nil, "", common.ErrInternal
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, otherUserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrNotFound
		}
		return nil, "", common.ErrInternal
	}

	thread, err := s.repomanager.Threads(s.db).CreateOrGet(ctx, postID, userID, otherUserID)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	info, err := s.repomanager.Threads(s.db).GetInfo(ctx, thread.ID, userID)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return info, thread.OtherUser(userID), nil
}

// SendMessage appends a message to a thread the caller participates in.
// The insert and the thread activity bump run in one transaction; the
// repository publishes the pg_notify payload as part of the insert.
// Returns the stored message with the sender's name and the counterpart's
// id for direct delivery.
func (s *ChatService) SendMessage(ctx context.Context, userID, threadID, content string) (*models.MessageInfo, string, error) {
	if content == "" {
		return nil, "", common.ErrValidation
	}

	thread, err := s.repomanager.Threads(s.db).Get(ctx, threadID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrAccessDenied
		}
		return nil, "", common.ErrInternal
	}

	sender, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	var msg *models.Message
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		msg, err = s.repomanager.Messages(tx).Append(ctx, threadID, userID, content)
		if err != nil {
			return err
		}
		return s.repomanager.Threads(tx).Touch(ctx, threadID)
	})
	if err != nil {
		return nil, "", common.ErrInternal
	}

	info := &models.MessageInfo{
		ID:         msg.ID,
		ThreadID:   msg.ThreadID,
		SenderID:   msg.SenderID,
		SenderName: sender.Username,
		Content:    msg.Content,
		SentAt:     msg.SentAt,
	}
	return info, thread.OtherUser(userID), nil
}

// Threads lists the caller's conversations, most recently active first.
func (s *ChatService) Threads(ctx context.Context, userID string) ([]*models.ThreadInfo, error) {
	infos, err := s.repomanager.Threads(s.db).ListInfosForUser(ctx, userID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return infos, nil
}

// Messages returns a page of a thread's history, newest first. A zero
// limit falls back to 50; the limit is capped at 200.
func (s *ChatService) Messages(ctx context.Context, userID, threadID string, limit, offset int) ([]*models.MessageInfo, error) {
	if limit <= 0 {
		limit = defaultMessagesLimit
	}
	if limit > maxMessagesLimit {
		limit = maxMessagesLimit
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.repomanager.Threads(s.db).Get(ctx, threadID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccessDenied
		}
		return nil, common.ErrInternal
	}

	msgs, err := s.repomanager.Messages(s.db).List(ctx, threadID, limit, offset)
	if err != nil {
		return nil, common.ErrInternal
	}
	return msgs, nil
}

// ThreadIDs returns the ids of every thread the user participates in,
// used to set up LISTEN subscriptions when a connection opens.
func (s *ChatService) ThreadIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repomanager.Threads(s.db).IDsForUser(ctx, userID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return ids, nil
}

// IsParticipant reports whether userID belongs to threadID.
func (s *ChatService) IsParticipant(ctx context.Context, userID, threadID string) (bool, error) {
	_, err := s.repomanager.Threads(s.db).Get(ctx, threadID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, common.ErrInternal
	}
	return true, nil
}

// UserName resolves a user's display name for enriching notifications.
func (s *ChatService) UserName(ctx context.Context, userID string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", common.ErrInternal
	}
	return user.Username, nil
}
