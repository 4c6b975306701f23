package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

const userColumns = `id, name, email, password_hash, role, created_at`

// UserRepository provides database access for people.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A case-insensitive email clash yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (id, name, email, password_hash, role, created_at)
VALUES (:id, :name, :email, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail returns a user by email address, ignoring case.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindStudentsByEmails resolves student accounts whose email matches any of the given
// addresses case-insensitively. Teachers are never returned.
func (r *UserRepository) FindStudentsByEmails(ctx context.Context, emails []string) ([]models.UserSummary, error) {
	if len(emails) == 0 {
		return []models.UserSummary{}, nil
	}
	lowered := make([]string, len(emails))
	for i, email := range emails {
		lowered[i] = strings.ToLower(email)
	}

	const query = `SELECT id, name, email FROM users WHERE role = $1 AND LOWER(email) = ANY($2)`
	var students []models.UserSummary
	if err := r.db.SelectContext(ctx, &students, query, models.RoleStudent, pq.Array(lowered)); err != nil {
		return nil, fmt.Errorf("find students by email: %w", err)
	}
	return students, nil
}

// ExistingStudentIDs returns the subset of ids that belong to student accounts.
func (r *UserRepository) ExistingStudentIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	const query = `SELECT id FROM users WHERE role = $1 AND id = ANY($2)`
	var found []string
	if err := r.db.SelectContext(ctx, &found, query, models.RoleStudent, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("resolve student ids: %w", err)
	}
	return found, nil
}
