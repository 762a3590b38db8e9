package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/card-entry-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new integrator account in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO card_entry.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves an integrator account by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM card_entry.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// LookupBIN checks the local BIN directory cache. found is false when the
// prefix has no cached outcome.
func (r *Repository) LookupBIN(bin string) (valid bool, found bool, err error) {
	query := `
		SELECT valid
		FROM card_entry.bin_cache
		WHERE bin = $1`
	err = r.db.QueryRow(query, bin).Scan(&valid)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to look up BIN: %w", err)
	}
	return valid, true, nil
}

// SaveBIN records a definitive upstream outcome for a BIN prefix
func (r *Repository) SaveBIN(bin string, valid bool) error {
	query := `
		INSERT INTO card_entry.bin_cache (bin, valid, checked_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (bin) DO UPDATE SET valid = $2, checked_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Exec(query, bin, valid); err != nil {
		return fmt.Errorf("failed to save BIN: %w", err)
	}
	return nil
}

// PruneBINCache removes cache entries older than the given age so stale
// directory answers eventually get re-fetched
func (r *Repository) PruneBINCache(maxAge time.Duration) (int64, error) {
	query := `
		DELETE FROM card_entry.bin_cache
		WHERE checked_at < $1`
	res, err := r.db.Exec(query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to prune BIN cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return n, nil
}
