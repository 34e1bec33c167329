package model

import (
	"time"

	"gorm.io/gorm"

	apperrors "workforce/internal/errors"
)

// EmployeeStatus is a stage of the hiring pipeline.
type EmployeeStatus string

const (
	StatusApplicationReceived EmployeeStatus = "application_received"
	StatusInterviewScheduled  EmployeeStatus = "interview_scheduled"
	StatusHired               EmployeeStatus = "hired"
	StatusNotAccepted         EmployeeStatus = "not_accepted"
)

// EmployeeStatuses lists the pipeline in order.
var EmployeeStatuses = []EmployeeStatus{
	StatusApplicationReceived,
	StatusInterviewScheduled,
	StatusHired,
	StatusNotAccepted,
}

// Valid reports whether s is a known status.
func (s EmployeeStatus) Valid() bool {
	for _, known := range EmployeeStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s EmployeeStatus) Terminal() bool {
	return s == StatusHired || s == StatusNotAccepted
}

// Employee is a record in the hiring pipeline of a department.
type Employee struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	DepartmentID uint           `json:"department_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile       string         `json:"mobile" gorm:"size:255;not null"`
	Address      string         `json:"address" gorm:"size:255"`
	Designation  string         `json:"designation" gorm:"size:255"`
	Status       EmployeeStatus `json:"status" gorm:"type:varchar(32);not null;default:'application_received';index"`
	HiredOn      *time.Time     `json:"hired_on" gorm:"type:date;index"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// BeforeSave rejects records whose hire date disagrees with their status.
func (e *Employee) BeforeSave(tx *gorm.DB) error {
	return e.CheckHireDate()
}

// CheckHireDate enforces that hired_on is set if and only if the status is hired.
func (e *Employee) CheckHireDate() error {
	if e.Status == StatusHired && e.HiredOn == nil {
		return apperrors.NewFieldError("hired_on", "hired date is required when status is hired", apperrors.ErrInconsistentHireDate)
	}
	if e.Status != StatusHired && e.HiredOn != nil {
		return apperrors.NewFieldError("hired_on", "hired date should only be set when status is hired", apperrors.ErrInconsistentHireDate)
	}
	return nil
}

// DaysEmployed returns the number of whole calendar days between the hire date and now.
func (e *Employee) DaysEmployed(now time.Time) int {
	if e.HiredOn == nil {
		return 0
	}
	days := int(DateOf(now).Sub(DateOf(*e.HiredOn)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
