package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce/internal/model"
)

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	// FindByIDForUpdate loads the row with a write lock where the driver supports one.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	ListByDepartments(ctx context.Context, departmentIDs []uint) ([]model.Employee, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) (CascadeResult, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return translate(r.db.WithContext(ctx).Create(employee).Error, duplicateEmployeeEmail())
}

// Update saves every column, so a cleared hired_on is written as NULL.
func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return translate(r.db.WithContext(ctx).Save(employee).Error, duplicateEmployeeEmail())
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &employee, nil
}

func (r *employeeRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&employee, id).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &employee, nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepository) ListByDepartments(ctx context.Context, departmentIDs []uint) ([]model.Employee, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	var employees []model.Employee
	if err := r.db.WithContext(ctx).
		Where("department_id IN ?", departmentIDs).
		Order("created_at ASC, id ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&count).Error
	return count, err
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) (CascadeResult, error) {
	var res CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteEmployees(tx, []uint{id}, &res)
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}
