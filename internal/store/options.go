package store

import "gorm.io/gorm"

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type TaskQueryFilter BaseQuerier

func NewTaskQueryFilter() *TaskQueryFilter {
	return &TaskQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *TaskQueryFilter) ByProjectName(name string) *TaskQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("project_name = ?", name)
	})
	return qf
}

func (qf *TaskQueryFilter) ByStatus(status string) *TaskQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}
