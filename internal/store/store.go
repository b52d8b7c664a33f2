package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Project() Project
	Task() Task
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db      *gorm.DB
	project Project
	task    Task
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:      db,
		project: NewProject(db),
		task:    NewTask(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Project() Project {
	return s.project
}

func (s *DataStore) Task() Task {
	return s.task
}

func (s *DataStore) InitialMigration() error {
	if err := s.project.InitialMigration(); err != nil {
		return err
	}
	return s.task.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
