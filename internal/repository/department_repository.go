package repository

import (
	"context"

	"gorm.io/gorm"

	"workforce/internal/model"
)

// DepartmentRepository defines persistence operations for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, department *model.Department) error
	Update(ctx context.Context, department *model.Department) error
	FindByID(ctx context.Context, id uint) (*model.Department, error)
	ExistsByName(ctx context.Context, companyID uint, name string, excludeID uint) (bool, error)
	ListByCompanies(ctx context.Context, companyIDs []uint) ([]model.Department, error)
	Count(ctx context.Context) (int64, error)
	CountEmployees(ctx context.Context, departmentIDs []uint) (map[uint]int64, error)
	// Delete removes the department with its employees and their history.
	Delete(ctx context.Context, id uint) (CascadeResult, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	return translate(r.db.WithContext(ctx).Create(department).Error, duplicateDepartmentName())
}

func (r *departmentRepository) Update(ctx context.Context, department *model.Department) error {
	return translate(r.db.WithContext(ctx).Save(department).Error, duplicateDepartmentName())
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &department, nil
}

func (r *departmentRepository) ExistsByName(ctx context.Context, companyID uint, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Department{}).
		Where("company_id = ? AND name = ? AND id <> ?", companyID, name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *departmentRepository) ListByCompanies(ctx context.Context, companyIDs []uint) ([]model.Department, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	var departments []model.Department
	if err := r.db.WithContext(ctx).
		Where("company_id IN ?", companyIDs).
		Order("created_at ASC, id ASC").
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Department{}).Count(&count).Error
	return count, err
}

func (r *departmentRepository) CountEmployees(ctx context.Context, departmentIDs []uint) (map[uint]int64, error) {
	if len(departmentIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&model.Employee{}).
		Select("department_id AS group_id, COUNT(*) AS total").
		Where("department_id IN ?", departmentIDs).
		Group("department_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uint) (CascadeResult, error) {
	var res CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteDepartments(tx, []uint{id}, &res)
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}
