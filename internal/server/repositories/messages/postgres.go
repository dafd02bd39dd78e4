package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oxylize/api/internal/dbx"
	"github.com/oxylize/api/internal/server/models"
)

// NotifyChannel derives the pg_notify channel name for a thread. Dashes are
// stripped so the result is a plain postgres identifier.
func NotifyChannel(threadID string) string {
	return "thread_" + strings.ReplaceAll(threadID, "-", "")
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, threadID, senderID, content string) (*models.Message, error) {

	query :=
		`INSERT INTO messages (thread_id, sender_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, thread_id, sender_id, content, sent_at
		 `

	msg := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, threadID, senderID, content).
		Scan(&msg.ID, &msg.ThreadID, &msg.SenderID, &msg.Content, &msg.SentAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	payload, err := json.Marshal(models.MessageNotification{
		MessageID: msg.ID,
		ThreadID:  msg.ThreadID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		SentAt:    msg.SentAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	// Listeners on other server instances pick this up; pg_notify fires on
	// commit when run inside a transaction.
	_, err = r.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel(threadID), string(payload))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) List(ctx context.Context, threadID string, limit, offset int) ([]*models.MessageInfo, error) {

	query :=
		`SELECT m.id, m.thread_id, m.sender_id, u.username AS sender_name, m.content, m.sent_at
		 FROM messages m
		 JOIN users u ON m.sender_id = u.id
		 WHERE m.thread_id = $1
		 ORDER BY m.sent_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, threadID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	infos := []*models.MessageInfo{}
	for rows.Next() {
		info := &models.MessageInfo{}
		err := rows.Scan(&info.ID, &info.ThreadID, &info.SenderID, &info.SenderName, &info.Content, &info.SentAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return infos, nil
}
