package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a tracked unit of manufacturing work with an associated
// folder on disk.
type Project struct {
	gorm.Model
	ID           uuid.UUID `gorm:"primaryKey"`
	Name         string    `gorm:"uniqueIndex;not null"`
	Manager      string
	StartDate    *time.Time
	FinishDate   *time.Time
	DivisionCode string
	FactoryCode  string
	ProcessCode  string
	LineCode     string
	FolderPath   string
}

type ProjectList []Project

func (p Project) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func NewProjectFromId(id uuid.UUID) *Project {
	return &Project{ID: id}
}
