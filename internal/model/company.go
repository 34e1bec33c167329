package model

import "time"

// Company is a tenant owned by exactly one manager.
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ManagerID uint      `json:"manager_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID manages the company.
func (c *Company) OwnedBy(userID uint) bool {
	return c != nil && c.ManagerID == userID
}

// Department belongs to a single company; its name is unique within that company.
type Department struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"company_id" gorm:"not null;uniqueIndex:idx_department_company_name,priority:1"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_department_company_name,priority:2"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Counts holds the derived sizes of a company or department.
type Counts struct {
	Departments int64 `json:"departments_count"`
	Employees   int64 `json:"employees_count"`
}

// Statistics are cross-tenant totals shown to admins.
type Statistics struct {
	TotalCompanies   int64 `json:"total_companies"`
	TotalDepartments int64 `json:"total_departments"`
	TotalEmployees   int64 `json:"total_employees"`
}
