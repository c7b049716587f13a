package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notecards/internal/models"
	"notecards/internal/repository/database"
)

type UserRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewUserRepository(db *sql.DB, dialect database.Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	countUserConflictsSQL = `SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`
	insertUserSQL         = `INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id`
	selectUserByEmailSQL  = `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`
	selectUserByIDSQL     = `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`
	deleteUserSQL         = `DELETE FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID. A taken username or email
// yields ErrDuplicateUser and nothing is written.
func (r *UserRepository) Create(ctx context.Context, u models.User) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create user %q: %w", u.Username, err)
	}
	defer rollback(tx)

	var conflicts int
	if err := tx.QueryRowContext(ctx, r.dialect.Rebind(countUserConflictsSQL), u.Username, u.Email).Scan(&conflicts); err != nil {
		return 0, fmt.Errorf("check user %q conflicts: %w", u.Username, err)
	}
	if conflicts > 0 {
		return 0, ErrDuplicateUser
	}

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int
	err = tx.QueryRowContext(ctx, r.dialect.Rebind(insertUserSQL), u.Username, u.Email, u.PasswordHash, createdAt.UTC()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("commit user %q: %w", u.Username, err)
	}
	return id, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.scanOne(ctx, selectUserByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanOne(ctx, selectUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// Delete removes the user; flashcards, sessions and generation events go
// with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteUserSQL), id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", id, err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
