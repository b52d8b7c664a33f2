// Package ingest rebuilds the task set from the CSV schedule files
// living inside each project's metadata folder. The pipeline is
// tolerant end to end: a bad file or a bad row is counted and skipped,
// never fatal to the run.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MetadataDirName is the fixed-name subfolder inside a project folder
// expected to hold that project's task CSV files.
const MetadataDirName = "metadata"

var requiredColumns = []string{"name", "start_date", "finish_date", "status", "milestone"}

// ProjectFolder is the slice of project metadata the ingestor needs.
type ProjectFolder struct {
	Name       string
	FolderPath string
}

// TaskRecord is one normalized schedule line item.
type TaskRecord struct {
	Name        string
	StartDate   string
	FinishDate  string
	Status      string
	Milestone   string
	Assignee    string
	WorkHours   float64
	ProjectName string
}

// Result reports one ingestion run. ErrorCount sums file-level and
// row-level failures; it is informational only.
type Result struct {
	Tasks             []TaskRecord
	ProcessedProjects int
	TotalProjects     int
	ErrorCount        int
}

type Ingestor struct{}

func NewIngestor() *Ingestor {
	return &Ingestor{}
}

// IngestAll processes every project's metadata folder and accumulates
// the full batch of valid tasks. Projects without a folder on disk or
// without a metadata subfolder yield zero tasks and are not errors.
func (i *Ingestor) IngestAll(projects []ProjectFolder) Result {
	log := zap.S().Named("ingest")
	result := Result{TotalProjects: len(projects)}

	for _, project := range projects {
		if project.FolderPath == "" {
			log.Warnf("project %q has no folder path, skipping", project.Name)
			continue
		}
		if fi, err := os.Stat(project.FolderPath); err != nil || !fi.IsDir() {
			log.Warnf("project folder %s does not exist, skipping %q", project.FolderPath, project.Name)
			continue
		}
		result.ProcessedProjects++

		metaDir := filepath.Join(project.FolderPath, MetadataDirName)
		if fi, err := os.Stat(metaDir); err != nil || !fi.IsDir() {
			// many projects legitimately have no schedule yet
			continue
		}

		entries, err := os.ReadDir(metaDir)
		if err != nil {
			log.Warnf("listing %s: %v", metaDir, err)
			result.ErrorCount++
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				continue
			}
			path := filepath.Join(metaDir, entry.Name())

			tasks, rowErrors, err := i.ingestFile(path, project.Name)
			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				result.ErrorCount++
				continue
			}
			result.Tasks = append(result.Tasks, tasks...)
			result.ErrorCount += rowErrors
		}
	}

	log.Infof("ingested %d task(s) from %d/%d project(s), %d error(s)",
		len(result.Tasks), result.ProcessedProjects, result.TotalProjects, result.ErrorCount)
	return result
}

// ingestFile parses one CSV file. A returned error means the whole
// file was unusable (unreadable, undecodable or missing required
// columns); row-level failures are returned as a count instead.
func (i *Ingestor) ingestFile(path, projectName string) ([]TaskRecord, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, 0, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	colMap := buildColumnMap(rows[0])
	if missing := missingColumns(colMap); len(missing) > 0 {
		return nil, 0, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var tasks []TaskRecord
	rowErrors := 0
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		task, ok := buildTask(row, colMap, projectName)
		if !ok {
			rowErrors++
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, rowErrors, nil
}

// buildTask normalizes one raw row. Rows missing a required value
// after trimming are rejected; status and milestone may be empty since
// status has a documented fallback and milestone is a free-form
// marker.
func buildTask(row []string, colMap map[string]int, projectName string) (TaskRecord, bool) {
	name := getColumnValue(row, colMap, "name")
	startDate := getColumnValue(row, colMap, "start_date")
	finishDate := getColumnValue(row, colMap, "finish_date")
	if name == "" || startDate == "" || finishDate == "" {
		return TaskRecord{}, false
	}

	return TaskRecord{
		Name:        name,
		StartDate:   startDate,
		FinishDate:  finishDate,
		Status:      NormalizeStatus(getColumnValue(row, colMap, "status")),
		Milestone:   getColumnValue(row, colMap, "milestone"),
		Assignee:    getColumnValue(row, colMap, "assignee"),
		WorkHours:   parseWorkHours(getColumnValue(row, colMap, "work_hours")),
		ProjectName: projectName,
	}, true
}

// parseWorkHours coerces a raw cell to a non-negative float, 0 on any
// parse failure.
func parseWorkHours(s string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}

func buildColumnMap(headers []string) map[string]int {
	colMap := make(map[string]int)
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		colMap[key] = i
	}
	return colMap
}

func getColumnValue(row []string, colMap map[string]int, key string) string {
	if idx, exists := colMap[key]; exists && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func missingColumns(colMap map[string]int) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
