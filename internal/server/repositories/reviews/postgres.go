package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/dbx"
	"github.com/oxylize/api/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {

	query :=
		`INSERT INTO reviews (review_sender_id, review_receiver_id, score, comment, review_type, post_id, profile_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.SenderID, review.ReceiverID, review.Score, review.Comment,
		review.ReviewType, review.PostID, review.ProfileID).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, senderID, receiverID, reviewType, targetID string) (bool, error) {

	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM reviews
		     WHERE review_sender_id = $1 AND review_receiver_id = $2 AND review_type = $3
		       AND (($3 = 'post' AND post_id = $4) OR ($3 = 'profile' AND profile_id = $4))
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, senderID, receiverID, reviewType, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Review, error) {

	query :=
		`SELECT r.id, r.review_sender_id, r.review_receiver_id, r.score,
		        COALESCE(r.comment, ''), r.review_type, r.post_id, r.profile_id,
		        r.created_at, r.updated_at, u.username AS sender_name
		 FROM reviews r
		 JOIN users u ON r.review_sender_id = u.id
		 WHERE ($1 = '' OR r.review_type = $1)
		   AND (NULLIF($2, '') IS NULL OR r.post_id = NULLIF($2, '')::uuid)
		   AND (NULLIF($3, '') IS NULL OR r.profile_id = NULLIF($3, '')::uuid)
		   AND (NULLIF($4, '') IS NULL OR r.review_receiver_id = NULLIF($4, '')::uuid)
		 ORDER BY r.created_at DESC
		 LIMIT $5 OFFSET $6
		 `

	rows, err := r.db.QueryContext(ctx, query,
		filter.ReviewType, filter.PostID, filter.ProfileID, filter.ReceiverID,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Review{}
	for rows.Next() {
		review := &models.Review{}
		err := rows.Scan(&review.ID, &review.SenderID, &review.ReceiverID, &review.Score,
			&review.Comment, &review.ReviewType, &review.PostID, &review.ProfileID,
			&review.CreatedAt, &review.UpdatedAt, &review.SenderName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
