package store

import (
	"fmt"
	"time"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/model"
)

// ExportPapers builds an export-ready snapshot of the full paper log.
func (s *Store) ExportPapers() (model.PaperExport, error) {
	papers, err := s.ListPapers("")
	if err != nil {
		return model.PaperExport{}, fmt.Errorf("list papers: %w", err)
	}
	return model.PaperExport{
		ExportedAt: time.Now(),
		Count:      len(papers),
		Papers:     papers,
	}, nil
}
