package threads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/dbx"
	"github.com/oxylize/api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateOrGet(ctx context.Context, postID, user1, user2 string) (*models.Thread, error) {
	userA, userB := models.CanonicalPair(user1, user2)

	query :=
		`INSERT INTO msg_threads (post_id, user_a, user_b)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (post_id, user_a, user_b) DO UPDATE SET
		     updated_at = NOW()
		 RETURNING id, post_id, user_a, user_b, created_at, updated_at
		 `

	thread := &models.Thread{}
	err := r.db.QueryRowContext(ctx, query, postID, userA, userB).
		Scan(&thread.ID, &thread.PostID, &thread.UserA, &thread.UserB, &thread.CreatedAt, &thread.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return thread, nil
}

func (r *PostgresRepository) Get(ctx context.Context, threadID, userID string) (*models.Thread, error) {
	query :=
		`SELECT id, post_id, user_a, user_b, created_at, updated_at
		 FROM msg_threads
		 WHERE id = $1 AND (user_a = $2 OR user_b = $2)
		 `

	thread := &models.Thread{}
	err := r.db.QueryRowContext(ctx, query, threadID, userID).
		Scan(&thread.ID, &thread.PostID, &thread.UserA, &thread.UserB, &thread.CreatedAt, &thread.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return thread, nil
}

// infoQuery resolves the counterpart and joins in the post title and the
// most recent message, from userID's point of view.
const infoQuery = `
	SELECT
	    t.id,
	    t.post_id,
	    p.title AS post_title,
	    CASE WHEN t.user_a = $1 THEN t.user_b ELSE t.user_a END AS other_user_id,
	    CASE WHEN t.user_a = $1 THEN u_b.username ELSE u_a.username END AS other_user_name,
	    last_msg.content AS last_message,
	    last_msg.sent_at AS last_message_at,
	    t.created_at,
	    t.updated_at
	FROM msg_threads t
	JOIN posts p ON t.post_id = p.id
	LEFT JOIN users u_a ON t.user_a = u_a.id
	LEFT JOIN users u_b ON t.user_b = u_b.id
	LEFT JOIN LATERAL (
	    SELECT content, sent_at
	    FROM messages m
	    WHERE m.thread_id = t.id
	    ORDER BY m.sent_at DESC
	    LIMIT 1
	) last_msg ON true
	WHERE (t.user_a = $1 OR t.user_b = $1)`

func (r *PostgresRepository) GetInfo(ctx context.Context, threadID, userID string) (*models.ThreadInfo, error) {
	rows, err := r.db.QueryContext(ctx, infoQuery+` AND t.id = $2`, userID, threadID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	infos, err := collectInfos(rows)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, common.ErrNotFound
	}
	return infos[0], nil
}

func (r *PostgresRepository) ListInfosForUser(ctx context.Context, userID string) ([]*models.ThreadInfo, error) {
	rows, err := r.db.QueryContext(ctx, infoQuery+` ORDER BY t.updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectInfos(rows)
}

// collectInfos scans thread info rows, silently skipping data anomalies
// where the counterpart cannot be resolved.
func collectInfos(rows *sql.Rows) ([]*models.ThreadInfo, error) {
	infos := []*models.ThreadInfo{}
	for rows.Next() {
		var (
			info          models.ThreadInfo
			otherUserID   sql.NullString
			otherUserName sql.NullString
			lastMessage   sql.NullString
			lastMessageAt sql.NullTime
		)
		err := rows.Scan(&info.ID, &info.PostID, &info.PostTitle, &otherUserID, &otherUserName,
			&lastMessage, &lastMessageAt, &info.CreatedAt, &info.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if !otherUserID.Valid || !otherUserName.Valid {
			continue
		}
		info.OtherUserID = otherUserID.String
		info.OtherUserName = otherUserName.String
		if lastMessage.Valid {
			info.LastMessage = &lastMessage.String
		}
		if lastMessageAt.Valid {
			t := lastMessageAt.Time
			info.LastMessageAt = &t
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return infos, nil
}

func (r *PostgresRepository) IDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM msg_threads WHERE user_a = $1 OR user_b = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, threadID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE msg_threads SET updated_at = NOW() WHERE id = $1`, threadID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
