package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/craftbase/projtrack/internal/store"
	"github.com/craftbase/projtrack/internal/store/model"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportHeader = []string{
	"project", "division_code", "factory_code", "process_code", "line_code",
	"manager", "task", "start_date", "finish_date", "status", "milestone",
	"assignee", "work_hours",
}

// ExportService renders the consolidated project+task view. An empty
// store yields a header-only document, not an error.
type ExportService struct {
	store store.Store
}

func NewExportService(store store.Store) *ExportService {
	return &ExportService{store: store}
}

func (s *ExportService) Export(ctx context.Context, format string) ([]byte, error) {
	rows, err := s.buildRows(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return renderCSV(rows)
	case FormatXLSX:
		return renderXLSX(rows)
	default:
		return nil, NewErrUnsupportedFormat(format)
	}
}

func (s *ExportService) buildRows(ctx context.Context) ([][]string, error) {
	projects, err := s.store.Project().List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Task().List(ctx, nil)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]model.Project, len(projects))
	for _, project := range projects {
		byName[project.Name] = project
	}

	rows := [][]string{exportHeader}
	for _, task := range tasks {
		project := byName[task.ProjectName]
		rows = append(rows, []string{
			task.ProjectName,
			project.DivisionCode,
			project.FactoryCode,
			project.ProcessCode,
			project.LineCode,
			project.Manager,
			task.Name,
			task.StartDate,
			task.FinishDate,
			task.Status,
			task.Milestone,
			task.Assignee,
			strconv.FormatFloat(task.WorkHours, 'f', -1, 64),
		})
	}
	return rows, nil
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Tasks"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
