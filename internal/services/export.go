package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/career-pilot/internal/models"
)

const exportSheet = "Analyses"

var exportHeader = []any{"ID", "Created At", "User ID", "Job", "Résumé File", "Match Score", "Status", "Matching Skills", "Missing Skills"}

// ExportAnalyses renders history records as an xlsx workbook.
func ExportAnalyses(records []models.AnalysisHistory) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		userID := ""
		if r.UserID != nil {
			userID = r.UserID.String()
		}

		row := []any{
			r.ID.String(),
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			userID,
			r.JobTitle,
			r.ResumeFileName,
			r.MatchScore,
			string(r.Status),
			strings.Join(r.MatchingSkills, ", "),
			strings.Join(r.MissingSkills, ", "),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
