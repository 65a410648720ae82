package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module is a course tracked by a single user. The pair (Code, UserID) is
// unique at the database level.
type Module struct {
	ID            string    `gorm:"type:varchar(36);primaryKey"`
	Name          string    `gorm:"column:module_name;size:100;not null"`
	Code          string    `gorm:"column:module_code;size:20;not null;uniqueIndex:idx_modules_code_owner,priority:1"`
	LectureHours  int       `gorm:"not null;default:0"`
	AttendedHours int       `gorm:"not null;default:0"`
	UserID        string    `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_modules_code_owner,priority:2"`
	User          *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the database table name for the Module model.
func (Module) TableName() string {
	return "modules"
}

// BeforeCreate assigns an identifier when none is set.
func (m *Module) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AttendancePercentage returns attended/lecture hours as a rounded percentage,
// or 0 when no lecture hours are recorded.
func (m *Module) AttendancePercentage() int {
	return AttendancePercentage(m.LectureHours, m.AttendedHours)
}

// MaxModuleHours bounds lecture and attended hours.
const MaxModuleHours = 10000

// AttendancePercentage computes round(100*attended/lecture), or 0 when
// lecture is not positive. The result never exceeds 100*MaxModuleHours.
func AttendancePercentage(lecture, attended int) int {
	if lecture <= 0 || attended <= 0 {
		return 0
	}
	const maxPercentage = 100 * MaxModuleHours
	percentage := math.Round(float64(attended) / float64(lecture) * 100)
	if percentage > maxPercentage {
		return maxPercentage
	}
	return int(percentage)
}
