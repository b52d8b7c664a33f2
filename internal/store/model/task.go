package model

import "encoding/json"

// Task is one schedule line item belonging to a project, sourced from
// a CSV file in that project's metadata folder. The task table is
// rebuilt wholesale on every ingestion run, so rows carry no identity
// across runs.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectName string `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	StartDate   string
	FinishDate  string
	Status      string `gorm:"index"`
	Milestone   string
	Assignee    string
	WorkHours   float64
}

type TaskList []Task

func (t Task) String() string {
	val, _ := json.Marshal(t)
	return string(val)
}
