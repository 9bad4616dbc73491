package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"wildlife-catalog-backend/internal/domains/ecosystem/model"
	"wildlife-catalog-backend/pkg/database"
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

const pgUniqueViolation = "23505"

const selectColumns = `
	id, name, slug, description, image, characteristics, created_at, updated_at
`

// =====================================================
// CREATE
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, e *model.Ecosystem) error {
	query := `
		INSERT INTO ecosystems (
			id, name, slug, description, image, characteristics, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.Name,
		e.Slug,
		e.Description,
		e.Image,
		pq.Array(e.Characteristics),
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create ecosystem: %w", err)
	}

	return nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ecosystem, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM ecosystems WHERE id = $1`, id)
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Ecosystem, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM ecosystems WHERE slug = $1`, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Ecosystem, error) {
	e, err := scanEcosystem(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEcosystemNotFound
		}
		return nil, fmt.Errorf("failed to get ecosystem: %w", err)
	}
	return e, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.Ecosystem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM ecosystems ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ecosystems: %w", err)
	}
	defer rows.Close()

	ecosystems := make([]*model.Ecosystem, 0)
	for rows.Next() {
		e, err := scanEcosystem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ecosystem: %w", err)
		}
		ecosystems = append(ecosystems, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ecosystems: %w", err)
	}

	return ecosystems, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ecosystems WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// =====================================================
// UPDATE (rename cascades into species)
// =====================================================

func (r *postgresRepository) Update(ctx context.Context, e *model.Ecosystem) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE ecosystems SET
				name = $2,
				description = $3,
				image = $4,
				characteristics = $5,
				updated_at = $6
			WHERE id = $1
		`,
			e.ID,
			e.Name,
			e.Description,
			e.Image,
			pq.Array(e.Characteristics),
			e.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update ecosystem: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrEcosystemNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE species SET ecosystem_name = $2
			WHERE ecosystem_id = $1 AND ecosystem_name <> $2
		`, e.ID, e.Name)
		if err != nil {
			return fmt.Errorf("failed to cascade ecosystem name: %w", err)
		}

		return nil
	})
}

// =====================================================
// DELETE (cascades species)
// =====================================================

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		// Lock the ecosystem before its species, the same order species
		// writes use, so concurrent writers wait instead of deadlocking
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM ecosystems WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, model.ErrEcosystemNotFound
			}
			return 0, fmt.Errorf("failed to lock ecosystem: %w", err)
		}

		removed, err := tx.Exec(ctx, `DELETE FROM species WHERE ecosystem_id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("failed to delete ecosystem species: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM ecosystems WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("failed to delete ecosystem: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, model.ErrEcosystemNotFound
		}

		return int(removed.RowsAffected()), nil
	})
}

// =====================================================
// HELPERS
// =====================================================

func scanEcosystem(row pgx.Row) (*model.Ecosystem, error) {
	e := &model.Ecosystem{}
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Slug,
		&e.Description,
		&e.Image,
		pq.Array(&e.Characteristics),
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Characteristics == nil {
		e.Characteristics = []string{}
	}
	return e, nil
}
