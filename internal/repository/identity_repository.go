package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
)

// ErrDuplicateEmail signals the unique email index rejected an insert.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// IdentityRepository persists Identity Service accounts.
type IdentityRepository struct {
	db *sqlx.DB
}

// NewIdentityRepository constructs the repository.
func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create inserts a new account.
func (r *IdentityRepository) Create(ctx context.Context, account *models.Account) error {
	const query = `INSERT INTO identity_accounts (id, email, password_hash, created_at, updated_at) VALUES (:id, :email, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create identity account: %w", err)
	}
	return nil
}

// FindByEmail looks an account up case-insensitively.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	const query = `SELECT id, email, password_hash, created_at, updated_at FROM identity_accounts WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find identity account by email: %w", err)
	}
	return &account, nil
}

// FindByID fetches an account by id.
func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	const query = `SELECT id, email, password_hash, created_at, updated_at FROM identity_accounts WHERE id = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find identity account by id: %w", err)
	}
	return &account, nil
}
