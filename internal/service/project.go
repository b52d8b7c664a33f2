package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftbase/projtrack/internal/ingest"
	"github.com/craftbase/projtrack/internal/store"
	"github.com/craftbase/projtrack/internal/store/model"
)

// projectSubdirs is the templated internal structure every project
// folder is created with.
var projectSubdirs = []string{ingest.MetadataDirName, "documents", "drawings"}

type ProjectCreateForm struct {
	Name         string
	Manager      string
	StartDate    *time.Time
	FinishDate   *time.Time
	DivisionCode string
	FactoryCode  string
	ProcessCode  string
	LineCode     string
}

type ProjectUpdateForm struct {
	Manager      *string
	StartDate    *time.Time
	FinishDate   *time.Time
	DivisionCode *string
	FactoryCode  *string
	ProcessCode  *string
	LineCode     *string
}

type ProjectService struct {
	store   store.Store
	dataDir string
}

func NewProjectService(store store.Store, dataDir string) *ProjectService {
	return &ProjectService{store: store, dataDir: dataDir}
}

// CreateProject inserts the project row and mirrors it as a folder
// with the templated internal structure under the data directory.
func (s *ProjectService) CreateProject(ctx context.Context, form ProjectCreateForm) (*model.Project, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, NewErrInvalidProjectName(form.Name)
	}

	folder := filepath.Join(s.dataDir, "projects", sanitizeFolderName(name))
	project := model.Project{
		ID:           uuid.New(),
		Name:         name,
		Manager:      strings.TrimSpace(form.Manager),
		StartDate:    form.StartDate,
		FinishDate:   form.FinishDate,
		DivisionCode: form.DivisionCode,
		FactoryCode:  form.FactoryCode,
		ProcessCode:  form.ProcessCode,
		LineCode:     form.LineCode,
		FolderPath:   folder,
	}

	created, err := s.store.Project().Create(ctx, project)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrProjectExists(name)
		}
		return nil, err
	}

	// folder after row, so a failed insert leaves no orphan folder
	for _, sub := range projectSubdirs {
		if err := os.MkdirAll(filepath.Join(folder, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating project folder: %w", err)
		}
	}
	return created, nil
}

func (s *ProjectService) GetProject(ctx context.Context, name string) (*model.Project, error) {
	project, err := s.store.Project().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(name)
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) (model.ProjectList, error) {
	return s.store.Project().List(ctx)
}

func (s *ProjectService) UpdateProject(ctx context.Context, name string, form ProjectUpdateForm) (*model.Project, error) {
	project, err := s.GetProject(ctx, name)
	if err != nil {
		return nil, err
	}

	if form.Manager != nil {
		project.Manager = *form.Manager
	}
	if form.StartDate != nil {
		project.StartDate = form.StartDate
	}
	if form.FinishDate != nil {
		project.FinishDate = form.FinishDate
	}
	if form.DivisionCode != nil {
		project.DivisionCode = *form.DivisionCode
	}
	if form.FactoryCode != nil {
		project.FactoryCode = *form.FactoryCode
	}
	if form.ProcessCode != nil {
		project.ProcessCode = *form.ProcessCode
	}
	if form.LineCode != nil {
		project.LineCode = *form.LineCode
	}

	return s.store.Project().Update(ctx, *project)
}

// DeleteProject removes the project row. The folder is left on disk on
// purpose: it may hold documents the team still wants.
func (s *ProjectService) DeleteProject(ctx context.Context, name string) error {
	project, err := s.GetProject(ctx, name)
	if err != nil {
		return err
	}
	if err := s.store.Project().Delete(ctx, project.ID); err != nil {
		return err
	}
	zap.S().Named("service").Infof("project %q deleted, folder %s left on disk", name, project.FolderPath)
	return nil
}

// sanitizeFolderName replaces characters that are unsafe in folder
// names across platforms.
func sanitizeFolderName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
}
