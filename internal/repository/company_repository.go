package repository

import (
	"context"

	"gorm.io/gorm"

	"workforce/internal/model"
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	Update(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uint) (*model.Company, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	// List returns companies newest first. A nil managerID lists every company.
	List(ctx context.Context, managerID *uint) ([]model.Company, error)
	Count(ctx context.Context) (int64, error)
	CountDepartments(ctx context.Context, companyIDs []uint) (map[uint]int64, error)
	CountEmployees(ctx context.Context, companyIDs []uint) (map[uint]int64, error)
	// Delete removes the company with its departments, employees and their history.
	Delete(ctx context.Context, id uint) (CascadeResult, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error, duplicateCompanyName())
}

func (r *companyRepository) Update(ctx context.Context, company *model.Company) error {
	return translate(r.db.WithContext(ctx).Save(company).Error, duplicateCompanyName())
}

func (r *companyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &company, nil
}

func (r *companyRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Company{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *companyRepository) List(ctx context.Context, managerID *uint) ([]model.Company, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if managerID != nil {
		query = query.Where("manager_id = ?", *managerID)
	}
	var companies []model.Company
	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Company{}).Count(&count).Error
	return count, err
}

func (r *companyRepository) CountDepartments(ctx context.Context, companyIDs []uint) (map[uint]int64, error) {
	if len(companyIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&model.Department{}).
		Select("company_id AS group_id, COUNT(*) AS total").
		Where("company_id IN ?", companyIDs).
		Group("company_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *companyRepository) CountEmployees(ctx context.Context, companyIDs []uint) (map[uint]int64, error) {
	if len(companyIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []groupCount
	err := r.db.WithContext(ctx).Table("employees").
		Select("departments.company_id AS group_id, COUNT(employees.id) AS total").
		Joins("JOIN departments ON departments.id = employees.department_id").
		Where("departments.company_id IN ?", companyIDs).
		Group("departments.company_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *companyRepository) Delete(ctx context.Context, id uint) (CascadeResult, error) {
	var res CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCompany(tx, id, &res)
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}
