package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/qgen-labs/survey-logic-service/internal/errors"
	"github.com/qgen-labs/survey-logic-service/internal/events"
	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

// ImportExportService handles questionnaire file import and export
type ImportExportService interface {
	// Import operations
	ImportQuestionsFromFile(ctx context.Context, projectID uint, file multipart.File, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, projectID uint, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, projectID uint, reader io.Reader) (*ImportResult, error)

	// Export operations
	ExportQuestionsToExcel(ctx context.Context, projectID uint) ([]byte, error)
	ExportValidationReport(ctx context.Context, projectID uint, report *apperrors.ValidationReport) ([]byte, error)
}

type importExportService struct {
	projects  repositories.ProjectRepository
	questions repositories.QuestionRepository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewImportExportService(
	projects repositories.ProjectRepository,
	questions repositories.QuestionRepository,
	publisher events.EventPublisher,
	logger utils.Logger,
) ImportExportService {
	return &importExportService{
		projects:  projects,
		questions: questions,
		publisher: publisher,
		logger:    logger,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportError is one row-level problem found during import.
type ImportError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

type ImportResult struct {
	TotalRows     int               `json:"total_rows"`
	ProcessedRows int               `json:"processed_rows"`
	SuccessCount  int               `json:"success_count"`
	ErrorCount    int               `json:"error_count"`
	Errors        []ImportError     `json:"errors"`
	Questions     []models.Question `json:"questions,omitempty"`
}

// importColumns are the recognized questionnaire sheet columns. Only qid,
// mode and text are required; the rest enrich the question when present.
var importRequiredColumns = []string{"qid", "mode", "text"}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, projectID uint, file multipart.File, filename string) (*ImportResult, error) {
	s.logger.InfoContext(ctx, "starting questionnaire import", "filename", filename, "project_id", projectID)

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return s.importCSV(ctx, projectID, file, filename)
	case ".xlsx", ".xls":
		return s.importExcel(ctx, projectID, file, filename)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, projectID uint, reader io.Reader) (*ImportResult, error) {
	return s.importCSV(ctx, projectID, reader, "")
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, projectID uint, reader io.Reader) (*ImportResult, error) {
	return s.importExcel(ctx, projectID, reader, "")
}

func (s *importExportService) importCSV(ctx context.Context, projectID uint, reader io.Reader, sourceFile string) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.importRows(ctx, projectID, records, sourceFile)
}

func (s *importExportService) importExcel(ctx context.Context, projectID uint, reader io.Reader, sourceFile string) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
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

	return s.importRows(ctx, projectID, rows, sourceFile)
}

func (s *importExportService) importRows(ctx context.Context, projectID uint, rows [][]string, sourceFile string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range importRequiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{TotalRows: len(rows) - 1}

	var questions []models.Question
	for rowIndex, row := range rows[1:] {
		question, rowErrors := s.parseRow(row, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
		} else {
			questions = append(questions, question)
			result.SuccessCount++
		}
		result.ProcessedRows++
	}

	if result.ErrorCount == 0 && len(questions) > 0 {
		records := make([]models.QuestionRecord, 0, len(questions))
		for i, q := range questions {
			record, err := models.NewQuestionRecord(projectID, i, q)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize question '%s': %w", q.ID, err)
			}
			records = append(records, record)
		}
		if err := s.questions.ReplaceAll(ctx, projectID, records); err != nil {
			return nil, fmt.Errorf("failed to save questionnaire: %w", err)
		}
		s.publishImported(ctx, projectID, len(questions), sourceFile)
	}

	result.Questions = questions

	s.logger.InfoContext(ctx, "questionnaire import completed",
		"project_id", projectID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

// publishImported announces a replaced questionnaire on the event bus. The
// import itself already succeeded, so publish failures only warn.
func (s *importExportService) publishImported(ctx context.Context, projectID uint, questionCount int, sourceFile string) {
	if s.publisher == nil {
		return
	}

	name := ""
	if project, err := s.projects.GetByID(ctx, projectID); err == nil {
		name = project.Name
	}

	event := events.NewProjectImportedEvent(projectID, name, questionCount, sourceFile)
	if err := s.publisher.PublishSurveyEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish import event",
			"project_id", projectID, "error", err)
	}
}

// parseRow converts one sheet row into a question. Options use the compact
// "code:label|code:label" notation; condition columns fill a single rule.
func (s *importExportService) parseRow(row []string, headerMap map[string]int, rowNum int) (models.Question, []ImportError) {
	var errors []ImportError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	qid := getColumn("qid")
	if qid == "" {
		errors = append(errors, ImportError{Row: rowNum, Column: "qid", Message: "required field"})
	}

	modeStr := getColumn("mode")
	mode := models.QuestionMode(strings.ToLower(modeStr))
	if !models.ValidModes[mode] {
		errors = append(errors, ImportError{
			Row: rowNum, Column: "mode", Message: "must be list, numeric, table, open_end or text", Value: modeStr,
		})
	}

	text := getColumn("text")
	if text == "" {
		errors = append(errors, ImportError{Row: rowNum, Column: "text", Message: "required field"})
	}

	if len(errors) > 0 {
		return models.Question{}, errors
	}

	question := models.Question{
		ID:   qid,
		Mode: mode,
		Type: strings.ToLower(getColumn("type")),
		Text: text,
	}

	if optionsStr := getColumn("options"); optionsStr != "" {
		options, optErrors := parseOptions(optionsStr, rowNum)
		if len(optErrors) > 0 {
			return models.Question{}, optErrors
		}
		question.Options = options
	}

	if source := getColumn("condition_source"); source != "" {
		conditionMode := models.ConditionShowIf
		if m := strings.ToLower(getColumn("condition_mode")); m == string(models.ConditionHideIf) {
			conditionMode = models.ConditionHideIf
		}

		operator := models.Operator(getColumn("condition_operator"))
		if operator == "" {
			operator = models.OpEquals
		}

		var values []string
		if raw := getColumn("condition_values"); raw != "" {
			for _, v := range strings.Split(raw, "|") {
				values = append(values, strings.TrimSpace(v))
			}
		}

		question.Conditions = &models.ConditionSet{
			Mode:  conditionMode,
			Logic: models.LogicAnd,
			Rules: []models.ConditionRule{{
				SourceQID: source,
				Operator:  operator,
				Values:    values,
				Value2:    getColumn("condition_value2"),
			}},
		}
	}

	if rowsStr := getColumn("grid_rows"); rowsStr != "" || getColumn("grid_cols") != "" {
		question.Grid = &models.GridConfig{
			Rows:         splitList(rowsStr),
			Cols:         splitList(getColumn("grid_cols")),
			ColumnSource: getColumn("grid_column_source"),
		}
	}

	if pointsStr := getColumn("scale_points"); pointsStr != "" {
		if points, err := strconv.Atoi(pointsStr); err == nil && points > 0 {
			question.Scale = &models.ScaleConfig{
				Points: points,
				Labels: splitList(getColumn("scale_labels")),
			}
		} else {
			errors = append(errors, ImportError{
				Row: rowNum, Column: "scale_points", Message: "must be a positive integer", Value: pointsStr,
			})
		}
	}

	if len(errors) > 0 {
		return models.Question{}, errors
	}
	return question, nil
}

func parseOptions(raw string, rowNum int) ([]models.Option, []ImportError) {
	var options []models.Option
	for _, part := range strings.Split(raw, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, label, found := strings.Cut(part, ":")
		if !found {
			return nil, []ImportError{{
				Row: rowNum, Column: "options", Message: "options must use code:label notation", Value: part,
			}}
		}
		options = append(options, models.Option{
			Code:  strings.TrimSpace(code),
			Label: strings.TrimSpace(label),
		})
	}
	return options, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ===== EXPORT OPERATIONS =====

var exportHeaders = []string{
	"QID", "Mode", "Type", "Text", "Options",
	"Condition Mode", "Condition Source", "Condition Operator", "Condition Values", "Condition Value2",
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, projectID uint) ([]byte, error) {
	records, err := s.questions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	questions := models.QuestionsOf(records)

	f := excelize.NewFile()
	sheetName := "Questionnaire"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex := range questions {
		row := questionToExportRow(&questions[rowIndex])
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

// ExportValidationReport renders a severity-grouped report as a review sheet.
func (s *importExportService) ExportValidationReport(ctx context.Context, projectID uint, report *apperrors.ValidationReport) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Validation"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Severity", "Question", "Type", "Message"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, issue := range report.Issues {
		values := []interface{}{string(issue.Severity), issue.QuestionID, issue.Type, issue.Message}
		for colIndex, value := range values {
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

func questionToExportRow(q *models.Question) []string {
	row := make([]string, len(exportHeaders))
	row[0] = q.ID
	row[1] = string(q.Mode)
	row[2] = q.Type
	row[3] = q.Text

	if len(q.Options) > 0 {
		parts := make([]string, len(q.Options))
		for i, opt := range q.Options {
			parts[i] = opt.Code + ":" + opt.Label
		}
		row[4] = strings.Join(parts, "|")
	}

	if q.Conditions != nil && len(q.Conditions.Rules) > 0 {
		rule := q.Conditions.Rules[0]
		row[5] = string(q.Conditions.Mode)
		row[6] = rule.SourceQID
		row[7] = string(rule.Operator)
		row[8] = strings.Join(rule.Values, "|")
		row[9] = rule.Value2
	}

	return row
}
