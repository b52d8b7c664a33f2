package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/craftbase/projtrack/internal/store/model"
)

type Task interface {
	List(ctx context.Context, filter *TaskQueryFilter) (model.TaskList, error)
	ReplaceAll(ctx context.Context, tasks []model.Task) error
	CountByProject(ctx context.Context) (map[string]int64, error)
	InitialMigration() error
}

type TaskStore struct {
	db *gorm.DB
}

// Make sure we conform to Task interface
var _ Task = (*TaskStore)(nil)

func NewTask(db *gorm.DB) Task {
	return &TaskStore{db: db}
}

func (t *TaskStore) InitialMigration() error {
	return t.db.AutoMigrate(&model.Task{})
}

func (t *TaskStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return t.db
}

func (t *TaskStore) List(ctx context.Context, filter *TaskQueryFilter) (model.TaskList, error) {
	var tasks model.TaskList
	tx := t.getDB(ctx)
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	result := tx.Order("project_name, id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// ReplaceAll clears the task table and bulk-inserts the new batch in a
// single transaction. On any failure the transaction rolls back and
// the previous task set remains authoritative.
func (t *TaskStore) ReplaceAll(ctx context.Context, tasks []model.Task) error {
	return t.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tasks").Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		return tx.CreateInBatches(tasks, 200).Error
	})
}

func (t *TaskStore) CountByProject(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ProjectName string
		Count       int64
	}
	result := t.getDB(ctx).Model(&model.Task{}).
		Select("project_name, count(*) as count").
		Group("project_name").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ProjectName] = row.Count
	}
	return counts, nil
}
