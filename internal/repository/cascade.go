package repository

import (
	"fmt"

	"gorm.io/gorm"

	"workforce/internal/model"
)

// CascadeResult counts the rows removed by an owned-aggregate delete.
type CascadeResult struct {
	Companies     int64
	Departments   int64
	Employees     int64
	StatusChanges int64
}

// deleteEmployees removes the given employees and their status trail.
func deleteEmployees(tx *gorm.DB, employeeIDs []uint, res *CascadeResult) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	changes := tx.Where("employee_id IN ?", employeeIDs).Delete(&model.StatusChange{})
	if changes.Error != nil {
		return fmt.Errorf("delete status changes: %w", changes.Error)
	}
	employees := tx.Where("id IN ?", employeeIDs).Delete(&model.Employee{})
	if employees.Error != nil {
		return fmt.Errorf("delete employees: %w", employees.Error)
	}
	res.StatusChanges += changes.RowsAffected
	res.Employees += employees.RowsAffected
	return nil
}

// deleteDepartments removes the given departments and everything beneath them.
func deleteDepartments(tx *gorm.DB, departmentIDs []uint, res *CascadeResult) error {
	if len(departmentIDs) == 0 {
		return nil
	}
	var employeeIDs []uint
	if err := tx.Model(&model.Employee{}).Where("department_id IN ?", departmentIDs).Pluck("id", &employeeIDs).Error; err != nil {
		return fmt.Errorf("collect employees: %w", err)
	}
	if err := deleteEmployees(tx, employeeIDs, res); err != nil {
		return err
	}
	departments := tx.Where("id IN ?", departmentIDs).Delete(&model.Department{})
	if departments.Error != nil {
		return fmt.Errorf("delete departments: %w", departments.Error)
	}
	res.Departments += departments.RowsAffected
	return nil
}

// deleteCompany removes a company, its departments and their employees.
func deleteCompany(tx *gorm.DB, companyID uint, res *CascadeResult) error {
	var departmentIDs []uint
	if err := tx.Model(&model.Department{}).Where("company_id = ?", companyID).Pluck("id", &departmentIDs).Error; err != nil {
		return fmt.Errorf("collect departments: %w", err)
	}
	if err := deleteDepartments(tx, departmentIDs, res); err != nil {
		return err
	}
	companies := tx.Where("id = ?", companyID).Delete(&model.Company{})
	if companies.Error != nil {
		return fmt.Errorf("delete company: %w", companies.Error)
	}
	res.Companies += companies.RowsAffected
	return nil
}
