package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/thuso-software/veriface/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// implements the same shape, which keeps repository tests database-free.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileRepositoryInterface defines operations for profile data access
type ProfileRepositoryInterface interface {
	GetByIDNumber(ctx context.Context, idNumber string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
	SaveEmbedding(ctx context.Context, idNumber string, embedding []float64) error
}

// VerificationRepositoryInterface defines operations for the audit trail
type VerificationRepositoryInterface interface {
	Create(ctx context.Context, v *domain.Verification) error
}
