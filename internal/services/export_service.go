package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alktbihd/mentalhealth/internal/repositories"
	"github.com/alktbihd/mentalhealth/internal/utils"
)

// ExportService produces admin downloads of recent submissions.
type ExportService interface {
	ExportLatestToExcel(ctx context.Context, limit int) ([]byte, error)
}

type exportService struct {
	repo   repositories.AssessmentRepository
	logger utils.Logger
}

func NewExportService(repo repositories.AssessmentRepository, logger utils.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportLatestToExcel writes the most recent submissions to an xlsx workbook.
func (s *exportService) ExportLatestToExcel(ctx context.Context, limit int) ([]byte, error) {
	assessments, err := s.repo.LatestAssessments(ctx, limit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Assessments"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Score", "User ID", "Submitted At", "Answer Count"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, assessment := range assessments {
		row := []interface{}{
			assessment.ID,
			assessment.Score,
			assessment.UserID,
			assessment.Timestamp.Format("2006-01-02 15:04:05"),
			len(assessment.Answers),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}
