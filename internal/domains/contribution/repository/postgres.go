package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wildlife-catalog-backend/internal/domains/contribution/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectColumns = `
	id, owner_id, title, description, kind, payload, image, location,
	status, admin_notes, approver_id, approved_at, created_at, updated_at
`

// =====================================================
// CREATE
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, c *model.Contribution) error {
	query := `
		INSERT INTO contributions (
			id, owner_id, title, description, kind, payload, image, location,
			status, admin_notes, approver_id, approved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.OwnerID,
		c.Title,
		c.Description,
		c.Kind,
		nullableJSON(c.Payload),
		c.Image,
		c.Location,
		c.Status,
		c.AdminNotes,
		c.ApproverID,
		c.ApprovedAt,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contribution, error) {
	query := `SELECT ` + selectColumns + ` FROM contributions WHERE id = $1`

	c, err := scanContribution(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrContributionNotFound
		}
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}

	return c, nil
}

// =====================================================
// CONDITIONAL UPDATE / DELETE
// =====================================================

func (r *postgresRepository) UpdateIfStatus(ctx context.Context, c *model.Contribution, expected model.Status) error {
	query := `
		UPDATE contributions SET
			title = $2,
			description = $3,
			kind = $4,
			payload = $5,
			image = $6,
			location = $7,
			status = $8,
			admin_notes = $9,
			approver_id = $10,
			approved_at = $11,
			updated_at = $12
		WHERE id = $1 AND status = $13
	`

	tag, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		c.Kind,
		nullableJSON(c.Payload),
		c.Image,
		c.Location,
		c.Status,
		c.AdminNotes,
		c.ApproverID,
		c.ApprovedAt,
		c.UpdatedAt,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update contribution: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, c.ID)
	}

	return nil
}

func (r *postgresRepository) DeleteIfStatus(ctx context.Context, id uuid.UUID, expected model.Status) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contributions WHERE id = $1 AND status = $2`, id, expected)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, id)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contributions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrContributionNotFound
	}

	return nil
}

// missOrStale re-reads the row after a conditional write matched nothing
func (r *postgresRepository) missOrStale(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contributions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to re-read contribution: %w", err)
	}
	if !exists {
		return model.ErrContributionNotFound
	}
	return model.ErrStale
}

// =====================================================
// LIST
// =====================================================

func (r *postgresRepository) List(ctx context.Context, scan Scan) ([]*model.Contribution, error) {
	query, args := buildListQuery(scan)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	contributions := make([]*model.Contribution, 0)
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return contributions, nil
}

func buildListQuery(scan Scan) (string, []interface{}) {
	query := `SELECT ` + selectColumns + ` FROM contributions WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if scan.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argCount)
		args = append(args, *scan.OwnerID)
		argCount++
	}

	if scan.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *scan.Status)
		argCount++
	}

	if scan.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argCount)
		args = append(args, *scan.Kind)
	}

	query += " ORDER BY created_at ASC, id ASC"
	return query, args
}

// =====================================================
// HELPERS
// =====================================================

func scanContribution(row pgx.Row) (*model.Contribution, error) {
	c := &model.Contribution{}
	var payload []byte

	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Title,
		&c.Description,
		&c.Kind,
		&payload,
		&c.Image,
		&c.Location,
		&c.Status,
		&c.AdminNotes,
		&c.ApproverID,
		&c.ApprovedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		c.Payload = payload
	}
	return c, nil
}

func nullableJSON(payload []byte) interface{} {
	if len(payload) == 0 {
		return nil
	}
	return payload
}
