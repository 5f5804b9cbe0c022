package storage

import (
	"context"
	"fmt"

	"family-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the member snapshot in a single table. It keeps the
// same whole-collection contract as the file store: Save runs one transaction
// that clears the table and re-inserts every row, preserving storage order in
// a position column. For a family tree of a few thousand members that is
// cheaper and simpler than diffing rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over an existing connection pool. The
// family_members table must exist; run the migrator first.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) ([]models.Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, full_name, gender, phone_numbers, address,
			birth_date, death_date, father_id, mother_id, spouse_id, notes
		FROM family_members
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load family data: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		err := rows.Scan(
			&m.ID, &m.FullName, &m.Gender, &m.PhoneNumbers, &m.Address,
			&m.BirthDate, &m.DeathDate, &m.FatherID, &m.MotherID, &m.SpouseID, &m.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load family data: %w", err)
	}
	return members, nil
}

func (s *PostgresStore) Save(ctx context.Context, members []models.Member) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM family_members`); err != nil {
		return fmt.Errorf("clear family data: %w", err)
	}

	for i, m := range members {
		_, err := tx.Exec(ctx, `
			INSERT INTO family_members
				(position, id, full_name, gender, phone_numbers, address,
				 birth_date, death_date, father_id, mother_id, spouse_id, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			i, m.ID, m.FullName, m.Gender, m.PhoneNumbers, m.Address,
			m.BirthDate, m.DeathDate, m.FatherID, m.MotherID, m.SpouseID, m.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert family member %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
