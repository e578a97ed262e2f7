package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/thuso-software/veriface/internal/domain"
)

type ProfileRepository struct {
	pool PgxPool
}

func NewProfileRepository(pool PgxPool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetByIDNumber(ctx context.Context, idNumber string) (*domain.Profile, error) {
	query := `
		SELECT id_number, surname, name, date_of_birth, chief_code, photo_ref, embedding, created_at, updated_at
		FROM profiles
		WHERE id_number = $1
	`

	var profile domain.Profile
	var embedding *pgvector.Vector

	err := r.pool.QueryRow(ctx, query, idNumber).Scan(
		&profile.IDNumber,
		&profile.Surname,
		&profile.Name,
		&profile.DateOfBirth,
		&profile.ChiefCode,
		&profile.PhotoRef,
		&embedding,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by id_number: %w", err)
	}

	profile.Embedding = fromVector(embedding)

	return &profile, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id_number, surname, name, date_of_birth, chief_code, photo_ref, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id_number)
		DO UPDATE SET
			surname = EXCLUDED.surname,
			name = EXCLUDED.name,
			date_of_birth = EXCLUDED.date_of_birth,
			chief_code = EXCLUDED.chief_code,
			photo_ref = EXCLUDED.photo_ref,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		profile.IDNumber,
		profile.Surname,
		profile.Name,
		profile.DateOfBirth,
		profile.ChiefCode,
		profile.PhotoRef,
		toVector(profile.Embedding),
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

// SaveEmbedding caches the embedding extracted from the enrolled photo so
// later verifications skip re-extraction.
func (r *ProfileRepository) SaveEmbedding(ctx context.Context, idNumber string, embedding []float64) error {
	query := `
		UPDATE profiles
		SET embedding = $2, updated_at = NOW()
		WHERE id_number = $1
	`

	result, err := r.pool.Exec(ctx, query, idNumber, toVector(embedding))
	if err != nil {
		return fmt.Errorf("save profile embedding: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}

	return nil
}

func toVector(embedding []float64) *pgvector.Vector {
	if len(embedding) == 0 {
		return nil
	}
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	vec := pgvector.NewVector(floats)
	return &vec
}

func fromVector(vec *pgvector.Vector) []float64 {
	if vec == nil || vec.Slice() == nil {
		return nil
	}
	out := make([]float64, len(vec.Slice()))
	for i, v := range vec.Slice() {
		out[i] = float64(v)
	}
	return out
}
