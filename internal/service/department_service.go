package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"workforce/internal/auth"
	"workforce/internal/authz"
	apperrors "workforce/internal/errors"
	"workforce/internal/model"
	"workforce/internal/repository"
)

// DepartmentInput carries the writable department fields. A nil field is left unchanged.
type DepartmentInput struct {
	Name *string
}

// DepartmentService exposes department operations under a company.
type DepartmentService interface {
	List(ctx context.Context, actor *auth.Actor, companyID uint) ([]DepartmentSummary, error)
	Get(ctx context.Context, actor *auth.Actor, companyID, departmentID uint) (*DepartmentTree, error)
	Create(ctx context.Context, actor *auth.Actor, companyID uint, input DepartmentInput) (*DepartmentSummary, error)
	Update(ctx context.Context, actor *auth.Actor, companyID, departmentID uint, input DepartmentInput) (*DepartmentSummary, error)
	Delete(ctx context.Context, actor *auth.Actor, companyID, departmentID uint) (repository.CascadeResult, error)
}

type departmentService struct {
	store    repository.Store
	resolver *OwnershipResolver
	stats    StatisticsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewDepartmentService creates a new department service.
func NewDepartmentService(store repository.Store, policy *authz.Policy, stats StatisticsService, logger *zap.Logger) DepartmentService {
	return &departmentService{
		store:    store,
		resolver: NewOwnershipResolver(policy),
		stats:    stats,
		logger:   logger.Named("department_service"),
		now:      time.Now,
	}
}

func (s *departmentService) List(ctx context.Context, actor *auth.Actor, companyID uint) ([]DepartmentSummary, error) {
	company, err := s.resolver.ParentCompany(ctx, s.store, actor, companyID, authz.ObjectDepartment, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	departments, err := s.store.Departments().ListByCompanies(ctx, []uint{company.ID})
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	ids := make([]uint, len(departments))
	for i, d := range departments {
		ids[i] = d.ID
	}
	counts, err := s.stats.DepartmentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries := make([]DepartmentSummary, len(departments))
	for i, d := range departments {
		summaries[i] = DepartmentSummary{Department: d, EmployeesCount: counts[d.ID]}
	}
	return summaries, nil
}

func (s *departmentService) Get(ctx context.Context, actor *auth.Actor, companyID, departmentID uint) (*DepartmentTree, error) {
	sc, err := s.resolver.resolveDepartment(ctx, s.store, actor, companyID, departmentID, authz.ObjectDepartment, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	b := &treeBuilder{store: s.store, stats: s.stats, now: s.now}
	trees, err := b.departments(ctx, []model.Department{*sc.department}, func(*model.Department) *model.Company { return sc.company })
	if err != nil {
		return nil, err
	}
	return &trees[0], nil
}

func (s *departmentService) Create(ctx context.Context, actor *auth.Actor, companyID uint, input DepartmentInput) (*DepartmentSummary, error) {
	department := &model.Department{}
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		company, err := s.resolver.ParentCompany(ctx, tx, actor, companyID, authz.ObjectDepartment, authz.ActionCreate)
		if err != nil {
			return err
		}
		name, err := departmentName(input.Name)
		if err != nil {
			return err
		}
		department.CompanyID = company.ID
		department.Name = name
		if err := checkDepartmentName(ctx, tx, company.ID, name, 0); err != nil {
			return err
		}
		return tx.Departments().Create(ctx, department)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department created", zap.Uint("company_id", companyID), zap.Uint("department_id", department.ID))
	return &DepartmentSummary{Department: *department}, nil
}

func (s *departmentService) Update(ctx context.Context, actor *auth.Actor, companyID, departmentID uint, input DepartmentInput) (*DepartmentSummary, error) {
	var department *model.Department
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		sc, err := s.resolver.resolveDepartment(ctx, tx, actor, companyID, departmentID, authz.ObjectDepartment, authz.ActionUpdate)
		if err != nil {
			return err
		}
		department = sc.department
		if input.Name == nil {
			return nil
		}
		name, err := departmentName(input.Name)
		if err != nil {
			return err
		}
		if err := checkDepartmentName(ctx, tx, department.CompanyID, name, department.ID); err != nil {
			return err
		}
		department.Name = name
		return tx.Departments().Update(ctx, department)
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.stats.DepartmentCounts(ctx, []uint{department.ID})
	if err != nil {
		return nil, err
	}
	return &DepartmentSummary{Department: *department, EmployeesCount: counts[department.ID]}, nil
}

// Delete removes the department together with its employees.
func (s *departmentService) Delete(ctx context.Context, actor *auth.Actor, companyID, departmentID uint) (repository.CascadeResult, error) {
	var res repository.CascadeResult
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		sc, err := s.resolver.resolveDepartment(ctx, tx, actor, companyID, departmentID, authz.ObjectDepartment, authz.ActionDelete)
		if err != nil {
			return err
		}
		res, err = tx.Departments().Delete(ctx, sc.department.ID)
		return err
	})
	if err != nil {
		return repository.CascadeResult{}, err
	}
	s.logger.Info("department deleted",
		zap.Uint("company_id", companyID),
		zap.Uint("department_id", departmentID),
		zap.Int64("employees", res.Employees),
	)
	return res, nil
}

func departmentName(raw *string) (string, error) {
	if raw == nil {
		return "", apperrors.NewFieldError("name", "this field is required", nil)
	}
	name := strings.TrimSpace(*raw)
	if name == "" {
		return "", apperrors.NewFieldError("name", "this field may not be blank", nil)
	}
	return name, nil
}

func checkDepartmentName(ctx context.Context, tx repository.Store, companyID uint, name string, excludeID uint) error {
	exists, err := tx.Departments().ExistsByName(ctx, companyID, name, excludeID)
	if err != nil {
		return fmt.Errorf("check department name: %w", err)
	}
	if exists {
		return apperrors.NewFieldError("name", "department with this name already exists in the company", apperrors.ErrDuplicateName)
	}
	return nil
}
