package service

import (
	"context"
	"fmt"

	"github.com/craftbase/projtrack/internal/ingest"
	"github.com/craftbase/projtrack/internal/store"
	"github.com/craftbase/projtrack/internal/store/model"
)

// RebuildReport summarizes one full re-ingestion run.
type RebuildReport struct {
	TotalProjects     int
	ProcessedProjects int
	TaskCount         int
	ErrorCount        int
}

type TaskService struct {
	store    store.Store
	ingestor *ingest.Ingestor
}

func NewTaskService(store store.Store) *TaskService {
	return &TaskService{store: store, ingestor: ingest.NewIngestor()}
}

// Rebuild re-ingests every project's CSV metadata and replaces the
// whole task table with the result. A partially failed ingestion still
// replaces prior data with whatever did parse; only a failure of the
// replace transaction itself propagates, in which case the previous
// task set remains authoritative.
func (s *TaskService) Rebuild(ctx context.Context) (*RebuildReport, error) {
	projects, err := s.store.Project().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	folders := make([]ingest.ProjectFolder, 0, len(projects))
	for _, project := range projects {
		folders = append(folders, ingest.ProjectFolder{Name: project.Name, FolderPath: project.FolderPath})
	}

	result := s.ingestor.IngestAll(folders)

	tasks := make([]model.Task, 0, len(result.Tasks))
	for _, record := range result.Tasks {
		tasks = append(tasks, newTaskFromRecord(record))
	}

	if err := s.store.Task().ReplaceAll(ctx, tasks); err != nil {
		return nil, fmt.Errorf("replacing task table: %w", err)
	}

	return &RebuildReport{
		TotalProjects:     result.TotalProjects,
		ProcessedProjects: result.ProcessedProjects,
		TaskCount:         len(tasks),
		ErrorCount:        result.ErrorCount,
	}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, projectName, status string) (model.TaskList, error) {
	filter := store.NewTaskQueryFilter()
	if projectName != "" {
		filter = filter.ByProjectName(projectName)
	}
	if status != "" {
		filter = filter.ByStatus(status)
	}
	return s.store.Task().List(ctx, filter)
}

func (s *TaskService) CountByProject(ctx context.Context) (map[string]int64, error) {
	return s.store.Task().CountByProject(ctx)
}

func newTaskFromRecord(record ingest.TaskRecord) model.Task {
	return model.Task{
		ProjectName: record.ProjectName,
		Name:        record.Name,
		StartDate:   record.StartDate,
		FinishDate:  record.FinishDate,
		Status:      record.Status,
		Milestone:   record.Milestone,
		Assignee:    record.Assignee,
		WorkHours:   record.WorkHours,
	}
}
