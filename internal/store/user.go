package store

import (
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = errors.New("store: email already registered")

// CreateUser inserts a new user. The password must already be hashed.
func (s *Store) CreateUser(u model.User) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, role, subject, teacher_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.Role, nullable(u.Subject), nullable(u.TeacherName), time.Now(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateEmail
		}
		slog.Error("failed to create user", "email", u.Email, "error", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("created user", "id", id, "email", u.Email, "role", u.Role)
	return id, nil
}

// GetUserByEmail returns a user by email, or nil if no such user exists.
func (s *Store) GetUserByEmail(email string) (*model.User, error) {
	return s.getUser(`SELECT id, email, password_hash, role, subject, teacher_name, created_at
		FROM users WHERE email = ?`, email)
}

// GetUserByID returns a user by ID, or nil if no such user exists.
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	return s.getUser(`SELECT id, email, password_hash, role, subject, teacher_name, created_at
		FROM users WHERE id = ?`, id)
}

func (s *Store) getUser(query string, arg any) (*model.User, error) {
	var u model.User
	var subject, teacherName sql.NullString
	err := s.db.QueryRow(query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &subject, &teacherName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Subject = subject.String
	u.TeacherName = teacherName.String
	return &u, nil
}

// UserCount returns the total number of users.
func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// DistinctTeacherSubjects returns the distinct non-empty subjects of teacher
// accounts, alphabetically.
func (s *Store) DistinctTeacherSubjects() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT subject FROM users
		 WHERE role = ? AND subject IS NOT NULL AND subject != ''
		 ORDER BY subject`, model.UserRoleTeacher,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
