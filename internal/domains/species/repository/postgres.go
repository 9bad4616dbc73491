package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wildlife-catalog-backend/internal/domains/species/model"
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

// pgForeignKeyViolation is the SQLSTATE for a dangling foreign key
const pgForeignKeyViolation = "23503"

// lockEcosystemQuery reads the ecosystem name a species write copies.
// FOR SHARE conflicts with the row lock an ecosystem rename takes, so a
// rename and a species write on that ecosystem run one after the other
// and the copied name is never older than the committed one.
const lockEcosystemQuery = `SELECT name FROM ecosystems WHERE id = $1 FOR SHARE`

const selectColumns = `
	id, name, scientific_name, image, habitat, diet, fun_fact,
	conservation_status, type, ecosystem_id, ecosystem_name,
	region, sound, owner_id, is_approved, created_at, updated_at
`

// =====================================================
// CREATE
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, s *model.Species) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: Lock the referenced ecosystem and read its name
		name, err := lockEcosystemName(ctx, tx, s.EcosystemID)
		if err != nil {
			return err
		}

		// Step 2: Insert with the name copy
		_, err = tx.Exec(ctx, `
			INSERT INTO species (
				id, name, scientific_name, image, habitat, diet, fun_fact,
				conservation_status, type, ecosystem_id, ecosystem_name,
				region, sound, owner_id, is_approved, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`,
			s.ID,
			s.Name,
			s.ScientificName,
			s.Image,
			s.Habitat,
			s.Diet,
			s.FunFact,
			s.ConservationStatus,
			s.Type,
			s.EcosystemID,
			name,
			s.Region,
			s.Sound,
			s.OwnerID,
			s.IsApproved,
			s.CreatedAt,
			s.UpdatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return model.ErrEcosystemNotFound
			}
			return fmt.Errorf("failed to create species: %w", err)
		}

		s.EcosystemName = name
		return nil
	})
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Species, error) {
	query := `SELECT ` + selectColumns + ` FROM species WHERE id = $1`

	s, err := scanSpecies(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("failed to get species: %w", err)
	}

	return s, nil
}

// =====================================================
// CONDITIONAL UPDATE / DELETE
// =====================================================

func (r *postgresRepository) UpdateIfApproval(ctx context.Context, s *model.Species, expected bool) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: Lock the (possibly new) ecosystem and read its name
		name, err := lockEcosystemName(ctx, tx, s.EcosystemID)
		if err != nil {
			return err
		}

		// Step 2: Write only if the approval flag is unchanged
		tag, err := tx.Exec(ctx, `
			UPDATE species SET
				name = $2,
				scientific_name = $3,
				image = $4,
				habitat = $5,
				diet = $6,
				fun_fact = $7,
				conservation_status = $8,
				type = $9,
				ecosystem_id = $10,
				ecosystem_name = $11,
				region = $12,
				sound = $13,
				is_approved = $14,
				updated_at = $15
			WHERE id = $1 AND is_approved = $16
		`,
			s.ID,
			s.Name,
			s.ScientificName,
			s.Image,
			s.Habitat,
			s.Diet,
			s.FunFact,
			s.ConservationStatus,
			s.Type,
			s.EcosystemID,
			name,
			s.Region,
			s.Sound,
			s.IsApproved,
			s.UpdatedAt,
			expected,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return model.ErrEcosystemNotFound
			}
			return fmt.Errorf("failed to update species: %w", err)
		}

		// Step 3: Nothing matched, find out which condition failed
		if tag.RowsAffected() == 0 {
			return explainMiss(ctx, tx, s.ID)
		}

		s.EcosystemName = name
		return nil
	})
}

func (r *postgresRepository) DeleteIfApproval(ctx context.Context, id uuid.UUID, expected bool) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM species WHERE id = $1 AND is_approved = $2`, id, expected)
	if err != nil {
		return fmt.Errorf("failed to delete species: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return explainMiss(ctx, r.pool, id)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM species WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete species: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrSpeciesNotFound
	}

	return nil
}

// rowQuerier is satisfied by both the pool and a transaction
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func lockEcosystemName(ctx context.Context, q rowQuerier, ecosystemID uuid.UUID) (string, error) {
	var name string
	if err := q.QueryRow(ctx, lockEcosystemQuery, ecosystemID).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrEcosystemNotFound
		}
		return "", fmt.Errorf("failed to lock ecosystem: %w", err)
	}
	return name, nil
}

// explainMiss re-reads after a conditional write matched nothing
func explainMiss(ctx context.Context, q rowQuerier, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM species WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to re-read species: %w", err)
	}
	if !exists {
		return model.ErrSpeciesNotFound
	}
	return model.ErrStale
}

// =====================================================
// LIST
// =====================================================

func (r *postgresRepository) List(ctx context.Context, scan Scan) ([]*model.Species, error) {
	query, args := buildListQuery(scan)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}
	defer rows.Close()

	species := make([]*model.Species, 0)
	for rows.Next() {
		s, err := scanSpecies(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		species = append(species, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate species: %w", err)
	}

	return species, nil
}

func buildListQuery(scan Scan) (string, []interface{}) {
	query := `SELECT ` + selectColumns + ` FROM species WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if scan.EcosystemID != nil {
		query += fmt.Sprintf(" AND ecosystem_id = $%d", argCount)
		args = append(args, *scan.EcosystemID)
		argCount++
	}

	if scan.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, *scan.Type)
		argCount++
	}

	if scan.ConservationStatus != nil {
		query += fmt.Sprintf(" AND conservation_status = $%d", argCount)
		args = append(args, *scan.ConservationStatus)
		argCount++
	}

	if scan.IsApproved != nil {
		query += fmt.Sprintf(" AND is_approved = $%d", argCount)
		args = append(args, *scan.IsApproved)
	}

	query += " ORDER BY created_at ASC, id ASC"
	return query, args
}

// =====================================================
// HELPERS
// =====================================================

func scanSpecies(row pgx.Row) (*model.Species, error) {
	s := &model.Species{}
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.ScientificName,
		&s.Image,
		&s.Habitat,
		&s.Diet,
		&s.FunFact,
		&s.ConservationStatus,
		&s.Type,
		&s.EcosystemID,
		&s.EcosystemName,
		&s.Region,
		&s.Sound,
		&s.OwnerID,
		&s.IsApproved,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
