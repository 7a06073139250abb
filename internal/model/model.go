package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user. Subject and TeacherName are set only for
// teacher accounts and stay empty for admins.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         UserRole
	Subject      string
	TeacherName  string
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PaperRecord is one row of the generated-paper log. Records are append-only:
// written once per successful generation, read by the admin dashboard.
type PaperRecord struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	SubjectCode string    `json:"subject_code"`
	TeacherName string    `json:"teacher_name"`
	Difficulty  string    `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
	OutputPath  string    `json:"output_path,omitempty"`
}

// SubQuestion is a single lettered item under a main question.
type SubQuestion struct {
	Text  string `json:"text"`
	Marks int    `json:"marks"`
}

// Question is a top-level graded item with its ordered sub-questions.
// Questions exist only for the duration of one generation request; only the
// assembled document and the PaperRecord survive it.
type Question struct {
	Heading string        `json:"heading"`
	Marks   int           `json:"marks"`
	Subs    []SubQuestion `json:"sub_questions"`
}

// TotalMarks sums main and sub marks across all questions. Main marks are
// counted on top of the itemized sub marks, matching the observed behavior
// of the result page.
func TotalMarks(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.Marks
		for _, sq := range q.Subs {
			total += sq.Marks
		}
	}
	return total
}

// PaperExport is the output shape of the export subcommand.
type PaperExport struct {
	ExportedAt time.Time     `json:"exported_at"`
	Count      int           `json:"count"`
	Papers     []PaperRecord `json:"papers"`
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	UploadDir     string
	OutputDir     string
	SecureCookies bool // Set Secure flag on cookies (disable for local dev)
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
