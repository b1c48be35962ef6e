package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound reports an unknown user.
var ErrNotFound = errors.New("user not found")

// Repository persists accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, username, password_hash, email, role, roll_number, phone_number`

// List returns all accounts.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []User
	for rows.Next() {
		var u User
		if err := scan(rows, &u); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Create persists a new account, assigning an id.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, email, role, roll_number, phone_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ID, u.Username, u.PasswordHash, u.Email, u.Role, u.RollNumber, u.PhoneNumber)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// FindByEmail returns the account with the given email, or ErrNotFound.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM users WHERE email = $1`, email)
}

// FindByUsername returns the account with the given username, or ErrNotFound.
func (r *Repository) FindByUsername(ctx context.Context, username string) (User, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM users WHERE username = $1`, username)
}

// FindByID returns the account with the given id, or ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id string) (User, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id)
}

// UpdatePassword replaces the stored hash.
func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account by id, or reports ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports the number of accounts, used by seeding.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	var u User
	if err := scan(row, &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scan(row rowScanner, u *User) error {
	return row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.RollNumber, &u.PhoneNumber)
}
