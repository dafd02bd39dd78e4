package posts

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

const postColumns = `p.id, p.owner_id, p.title, p.description, p.kind, p.subject,
	p.price, p.urgent, p.status, p.created_at, p.updated_at, u.username AS owner_name`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(&post.ID, &post.OwnerID, &post.Title, &post.Description, &post.Kind,
		&post.Subject, &post.Price, &post.Urgent, &post.Status, &post.CreatedAt, &post.UpdatedAt,
		&post.OwnerName)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (owner_id, title, description, kind, subject, price, urgent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, status, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.OwnerID, post.Title, post.Description, post.Kind, post.Subject, post.Price, post.Urgent).
		Scan(&post.ID, &post.Status, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
		 FROM posts p JOIN users u ON p.owner_id = u.id
		 WHERE p.id = $1
		 `

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + `
		 FROM posts p JOIN users u ON p.owner_id = u.id
		 ORDER BY p.created_at DESC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd PostUpdate) (*models.Post, error) {

	query :=
		`UPDATE posts SET
		     title = COALESCE($2::text, title),
		     description = COALESCE($3::text, description),
		     subject = COALESCE($4::text, subject),
		     price = COALESCE($5::bigint, price),
		     urgent = COALESCE($6::boolean, urgent),
		     status = COALESCE($7::text, status),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING id
		 `

	var updated string
	err := r.db.QueryRowContext(ctx, query, id,
		upd.Title, upd.Description, upd.Subject, upd.Price, upd.Urgent, upd.Status).
		Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
