package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftbase/projtrack/internal/store/model"
)

type Project interface {
	List(ctx context.Context) (model.ProjectList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetByName(ctx context.Context, name string) (*model.Project, error)
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	Update(ctx context.Context, project model.Project) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InitialMigration() error
}

type ProjectStore struct {
	db *gorm.DB
}

// Make sure we conform to Project interface
var _ Project = (*ProjectStore)(nil)

func NewProject(db *gorm.DB) Project {
	return &ProjectStore{db: db}
}

func (p *ProjectStore) InitialMigration() error {
	return p.db.AutoMigrate(&model.Project{})
}

func (p *ProjectStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return p.db
}

func (p *ProjectStore) List(ctx context.Context) (model.ProjectList, error) {
	var projects model.ProjectList
	result := p.getDB(ctx).Order("name").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

func (p *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project := model.NewProjectFromId(id)
	result := p.getDB(ctx).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return project, nil
}

func (p *ProjectStore) GetByName(ctx context.Context, name string) (*model.Project, error) {
	var project model.Project
	result := p.getDB(ctx).Where("name = ?", name).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &project, nil
}

func (p *ProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	result := p.getDB(ctx).Create(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &project, nil
}

func (p *ProjectStore) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	result := p.getDB(ctx).Model(&model.Project{ID: project.ID}).Updates(&project)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return p.Get(ctx, project.ID)
}

func (p *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := p.getDB(ctx).Unscoped().Delete(&model.Project{ID: id})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}
