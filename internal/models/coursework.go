package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment is a graded piece of work belonging to a module.
type Assignment struct {
	ID        string   `gorm:"type:varchar(36);primaryKey"`
	Name      string   `gorm:"size:100;not null"`
	Marks     *float64 `gorm:"column:marks"`
	ModuleID  string   `gorm:"type:varchar(36);not null;index"`
	Module    *Module  `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the database table name for the Assignment model.
func (Assignment) TableName() string {
	return "assignments"
}

// BeforeCreate assigns an identifier when none is set.
func (a *Assignment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Lab is a practical session belonging to a module.
type Lab struct {
	ID        string  `gorm:"type:varchar(36);primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Completed bool    `gorm:"not null;default:false"`
	ModuleID  string  `gorm:"type:varchar(36);not null;index"`
	Module    *Module `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the database table name for the Lab model.
func (Lab) TableName() string {
	return "labs"
}

// BeforeCreate assigns an identifier when none is set.
func (l *Lab) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// All returns every model managed by migrations, parents first.
func All() []any {
	return []any{&User{}, &Module{}, &Assignment{}, &Lab{}}
}
