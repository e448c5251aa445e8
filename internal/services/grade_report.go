package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	reportSummarySheet     = "Summary"
	reportCategoriesSheet  = "Categories"
	reportProjectionsSheet = "Projections"
)

// Report calculates a grade and renders it as an xlsx workbook.
func (s *gradeService) Report(ctx context.Context, termCode string, req *GradeRequest) ([]byte, error) {
	resp, err := s.Calculate(ctx, termCode, req)
	if err != nil {
		return nil, err
	}
	return buildGradeReport(resp, s.now())
}

func buildGradeReport(resp *GradeResponse, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	for _, name := range []string{reportCategoriesSheet, reportProjectionsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
		}
	}

	result := resp.GradeResult
	summary := [][]interface{}{
		{"Term", resp.TermCode},
		{"Generated At", generatedAt.Format(time.RFC3339)},
		{"Current Grade", result.CurrentGradePercent},
		{"Drop Policy", resp.Policies.DropPolicy},
		{"Inactive Category Policy", resp.Policies.InactivePolicy},
		{"Dropped Quizzes", strings.Join(result.DroppedItemLabels, "; ")},
	}
	if err := writeRows(f, reportSummarySheet, summary); err != nil {
		return nil, err
	}

	categories := [][]interface{}{
		{"Category", "Base Weight", "Active Weight", "Earned", "Max", "Items", "Score"},
	}
	for _, c := range models.Categories {
		totals := result.CategoryTotals[c]
		active, ok := result.ActiveWeights[c]
		activeCell := interface{}(active)
		if !ok {
			activeCell = models.NotApplicable
		}
		categories = append(categories, []interface{}{
			c.Title(),
			grading.BaseWeight(c),
			activeCell,
			totals.Earned,
			totals.Max,
			totals.Count,
			result.PerCategoryPercent[c],
		})
	}
	if err := writeRows(f, reportCategoriesSheet, categories); err != nil {
		return nil, err
	}

	projections := [][]interface{}{
		{"Threshold", "Label", "Required Final", "Result"},
	}
	for _, p := range result.Projections {
		projections = append(projections, []interface{}{p.Threshold, p.Label, p.Required, p.Text})
	}
	if err := writeRows(f, reportProjectionsSheet, projections); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
