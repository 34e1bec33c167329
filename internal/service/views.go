package service

import (
	"workforce/internal/model"
)

// ListScope says which companies a listing covers.
type ListScope int

const (
	// ScopeOwned lists only companies the actor manages.
	ScopeOwned ListScope = iota
	// ScopeAll lists every company and carries global statistics.
	ScopeAll
)

// CompanySummary is a company with its derived counts.
type CompanySummary struct {
	Company model.Company
	Counts  model.Counts
}

// DepartmentSummary is a department with its employee count.
type DepartmentSummary struct {
	Department     model.Department
	EmployeesCount int64
}

// DepartmentTree is a department with its employees.
type DepartmentTree struct {
	DepartmentSummary
	Employees []EmployeeView
}

// CompanyTree is a company with its departments and their employees.
type CompanyTree struct {
	CompanySummary
	Departments []DepartmentTree
}

// CompanyListing is the result of listing companies.
type CompanyListing struct {
	Scope      ListScope
	Statistics *model.Statistics
	Companies  []CompanyTree
}

// EmployeeView is an employee with the names of its department and company.
type EmployeeView struct {
	Employee       model.Employee
	CompanyID      uint
	CompanyName    string
	DepartmentName string
	DaysEmployed   int
}
