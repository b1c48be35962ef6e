package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound reports an unknown student id.
var ErrNotFound = errors.New("student not found")

// Repository persists student records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, name, roll, student_class, status, time_label, parent_phone`

// List returns all students in roll order.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM students ORDER BY roll, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

// Search returns students whose name or roll contains the query, case-insensitive.
func (r *Repository) Search(ctx context.Context, query string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+` FROM students
		WHERE name ILIKE '%' || $1 || '%' OR roll ILIKE '%' || $1 || '%'
		ORDER BY roll, name
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

// Create persists a new student, assigning an id. Status and time fall back to
// their sentinels when empty.
func (r *Repository) Create(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StatusUnknown
	}
	if s.Time == "" {
		s.Time = TimeNotRecorded
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, roll, student_class, status, time_label, parent_phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.Name, s.Roll, s.StudentClass, s.Status, s.Time, s.ParentPhoneNumber)
	if err != nil {
		return Student{}, err
	}
	return s, nil
}

// Update overwrites name, roll, class and phone. Status and time are only
// overwritten when provided; COALESCE keeps the stored pair otherwise.
func (r *Repository) Update(ctx context.Context, id string, upd Update) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE students
		SET name = $2, roll = $3, student_class = $4, parent_phone = $5,
		    status = COALESCE($6, status), time_label = COALESCE($7, time_label)
		WHERE id = $1
		RETURNING `+columns+`
	`, id, upd.Name, upd.Roll, upd.StudentClass, upd.ParentPhoneNumber, upd.Status, upd.Time)
	var s Student
	if err := scanOne(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// UpdateStatus overwrites the status/time pair, leaving all other fields.
func (r *Repository) UpdateStatus(ctx context.Context, id, status, timeLabel string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE students SET status = $2, time_label = $3 WHERE id = $1
		RETURNING `+columns+`
	`, id, status, timeLabel)
	var s Student
	if err := scanOne(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// Count reports the number of student rows, used by seeding.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row rowScanner, s *Student) error {
	return row.Scan(&s.ID, &s.Name, &s.Roll, &s.StudentClass, &s.Status, &s.Time, &s.ParentPhoneNumber)
}

func scanAll(rows *sql.Rows) ([]Student, error) {
	var res []Student
	for rows.Next() {
		var s Student
		if err := scanOne(rows, &s); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
