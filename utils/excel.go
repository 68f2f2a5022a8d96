package utils

import (
	"fmt"

	"horeca-compliance-backend/db/models"

	"github.com/xuri/excelize/v2"
)

var caseExportHeaders = []string{
	"Title", "Client", "Case Type", "Status", "Priority",
	"Municipality", "Government Reference", "Deadline", "Created",
}

// BuildCaseExport renders a filtered case list as an Excel workbook for
// staff reporting.
func BuildCaseExport(cases []models.Case) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Cases"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range caseExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, cs := range cases {
		clientName := ""
		if cs.Client != nil {
			clientName = cs.Client.CompanyName
		}
		deadline := ""
		if cs.Deadline != nil {
			deadline = cs.Deadline.Format("2006-01-02")
		}
		values := []interface{}{
			cs.Title,
			clientName,
			string(cs.CaseType),
			string(cs.Status),
			string(cs.Priority),
			strOrEmpty(cs.Municipality),
			strOrEmpty(cs.GovernmentReference),
			deadline,
			cs.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	return f, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
