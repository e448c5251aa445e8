package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/events"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const catalogSheet = "Catalog"

// dueLayouts are the accepted forms of the due column. Times without a zone
// are read as UTC.
var dueLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

var requiredCatalogColumns = []string{models.ColumnID, models.ColumnLabel, models.ColumnCategory, models.ColumnMaxScore}

// ===== IMPORT OPERATIONS =====

func (s *catalogService) ImportCatalog(ctx context.Context, reader io.Reader, filename string, req *ImportCatalogRequest) (result *ImportResult, err error) {
	start := time.Now()
	defer func() { s.logger.LogOperation(ctx, "import_catalog", req.Code, time.Since(start), err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var records [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, err = readCSVRecords(reader)
	case ".xlsx":
		records, err = readExcelRecords(reader)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
	if err != nil {
		return nil, err
	}

	items, result, err := parseCatalogRecords(records)
	if err != nil {
		return result, err
	}
	result.TermCode = req.Code

	term := &models.Term{Code: strings.TrimSpace(req.Code), Name: strings.TrimSpace(req.Name), Items: items}
	if err := s.prepareTerm(term); err != nil {
		return result, err
	}

	exists, err := s.repo.ExistsByCode(ctx, nil, term.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check term: %w", err)
	}
	if exists {
		if err := s.repo.ReplaceItems(ctx, nil, term.Code, term.Name, term.Items); err != nil {
			return nil, fmt.Errorf("failed to replace term items: %w", err)
		}
		if err := s.cache.DeletePattern(ctx, gradeCachePattern(term.Code)); err != nil {
			s.logger.Warn(ctx, "Grade cache invalidation failed", err, slog.String("term_code", term.Code))
		}
		result.Replaced = true
	} else if err := s.repo.Create(ctx, nil, term); err != nil {
		return nil, fmt.Errorf("failed to create term: %w", err)
	}

	event := events.NewCatalogImportedEvent(term.Code, len(term.Items))
	if err := s.publisher.PublishGradeEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "Catalog event not published", err, slog.String("event_id", event.ID))
	}

	return result, nil
}

func readCSVRecords(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSpreadsheet, err.Error())
	}
	return records, nil
}

func readExcelRecords(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSpreadsheet, err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

// parseCatalogRecords turns a header row plus data rows into items. Any bad
// row fails the whole import; result lists every problem found.
func parseCatalogRecords(records [][]string) ([]models.GradedItem, *ImportResult, error) {
	if len(records) < 2 {
		return nil, nil, NewValidationError("file", "file must have header row and at least one data row", len(records))
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredCatalogColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{}
	var items []models.GradedItem
	for rowIndex, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		result.TotalRows++

		item, rowErrors := parseCatalogRow(record, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		items = append(items, item)
		result.SuccessCount++
	}

	if result.ErrorCount > 0 {
		return nil, result, fmt.Errorf("%w: %d of %d rows rejected", ErrInvalidSpreadsheet, result.ErrorCount, result.TotalRows)
	}
	return items, result, nil
}

func parseCatalogRow(record []string, headerMap map[string]int, rowNum int) (models.GradedItem, []models.ImportValidationError) {
	var rowErrors []models.ImportValidationError
	reject := func(column, message, value, code string) {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: column, Message: message, Value: value, Code: code,
		})
	}

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	item := models.GradedItem{
		ID:        getColumn(models.ColumnID),
		Label:     getColumn(models.ColumnLabel),
		DateLabel: getColumn(models.ColumnDate),
	}
	if item.ID == "" {
		reject(models.ColumnID, "required field", "", "required")
	}
	if item.Label == "" {
		reject(models.ColumnLabel, "required field", "", "required")
	}

	categoryStr := getColumn(models.ColumnCategory)
	category, err := models.ParseCategory(categoryStr)
	if err != nil {
		reject(models.ColumnCategory, "unknown category", categoryStr, "grade_category")
	}
	item.Category = category

	maxStr := getColumn(models.ColumnMaxScore)
	maxScore, err := strconv.ParseFloat(maxStr, 64)
	if err != nil || maxScore < 0 {
		reject(models.ColumnMaxScore, "must be a non-negative number", maxStr, "min")
	}
	item.MaxScore = maxScore

	if droppableStr := getColumn(models.ColumnDroppable); droppableStr != "" {
		droppable, err := parseFlag(droppableStr)
		if err != nil {
			reject(models.ColumnDroppable, "must be true or false", droppableStr, "boolean")
		}
		item.Droppable = droppable
	}

	if dueStr := getColumn(models.ColumnDue); dueStr != "" {
		due, err := parseDue(dueStr)
		if err != nil {
			reject(models.ColumnDue, "must be an RFC 3339 time", dueStr, "datetime")
		} else {
			item.Due = &due
		}
	}

	return item, rowErrors
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "x":
		return true, nil
	case "no", "n", "-":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseDue(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dueLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ===== EXPORT OPERATIONS =====

func (s *catalogService) ExportCatalog(ctx context.Context, termCode string) (data []byte, err error) {
	start := time.Now()
	defer func() { s.logger.LogOperation(ctx, "export_catalog", termCode, time.Since(start), err) }()

	term, err := s.repo.GetByCode(ctx, nil, termCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", catalogSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(term.Items)+1)
	header := make([]interface{}, len(models.CatalogColumns))
	for i, col := range models.CatalogColumns {
		header[i] = col
	}
	rows = append(rows, header)
	for _, item := range term.Items {
		rows = append(rows, catalogRow(item))
	}
	if err := writeRows(f, catalogSheet, rows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func catalogRow(item models.GradedItem) []interface{} {
	due := ""
	if item.Due != nil {
		due = item.Due.Format(time.RFC3339)
	}
	return []interface{}{
		item.ID,
		item.Label,
		item.Category.String(),
		strconv.FormatFloat(item.MaxScore, 'f', -1, 64),
		strconv.FormatBool(item.Droppable),
		item.DateLabel,
		due,
	}
}
