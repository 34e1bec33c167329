package model

import "time"

// StatusChange is an audit entry for an accepted hiring-status transition.
// Entries are written in the same transaction as the employee update.
type StatusChange struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	EmployeeID uint           `json:"employee_id" gorm:"not null;index"`
	FromStatus EmployeeStatus `json:"from_status" gorm:"type:varchar(32);not null"`
	ToStatus   EmployeeStatus `json:"to_status" gorm:"type:varchar(32);not null"`
	ChangedBy  uint           `json:"changed_by" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}
