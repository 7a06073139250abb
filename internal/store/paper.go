package store

import (
	"database/sql"
	"time"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

// CreatePaper appends a record to the generated-paper log.
func (s *Store) CreatePaper(p model.PaperRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO question_papers (subject, subject_code, teacher_name, difficulty, created_at, output_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Subject, p.SubjectCode, p.TeacherName, p.Difficulty, time.Now(), nullable(p.OutputPath),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPaper returns a paper record by ID, or nil if no such record exists.
func (s *Store) GetPaper(id int64) (*model.PaperRecord, error) {
	var p model.PaperRecord
	var outputPath sql.NullString
	err := s.db.QueryRow(
		`SELECT id, subject, subject_code, teacher_name, difficulty, created_at, output_path
		 FROM question_papers WHERE id = ?`, id,
	).Scan(&p.ID, &p.Subject, &p.SubjectCode, &p.TeacherName, &p.Difficulty, &p.CreatedAt, &outputPath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.OutputPath = outputPath.String
	return &p, nil
}

// ListPapers returns paper records newest first, optionally restricted to one
// subject. An empty subject means no filtering.
func (s *Store) ListPapers(subject string) ([]model.PaperRecord, error) {
	query := `SELECT id, subject, subject_code, teacher_name, difficulty, created_at, output_path
		FROM question_papers`
	var args []any
	if subject != "" {
		query += ` WHERE subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var papers []model.PaperRecord
	for rows.Next() {
		var p model.PaperRecord
		var outputPath sql.NullString
		if err := rows.Scan(&p.ID, &p.Subject, &p.SubjectCode, &p.TeacherName, &p.Difficulty, &p.CreatedAt, &outputPath); err != nil {
			return nil, err
		}
		p.OutputPath = outputPath.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
