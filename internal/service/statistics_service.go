package service

import (
	"context"
	"fmt"

	"workforce/internal/auth"
	"workforce/internal/authz"
	"workforce/internal/model"
	"workforce/internal/repository"
)

// StatisticsService computes counts on demand from persisted state.
type StatisticsService interface {
	// Global returns cross-tenant totals. Only admins may read them.
	Global(ctx context.Context, actor *auth.Actor) (*model.Statistics, error)
	CompanyCounts(ctx context.Context, companyIDs []uint) (map[uint]model.Counts, error)
	DepartmentCounts(ctx context.Context, departmentIDs []uint) (map[uint]int64, error)
}

type statisticsService struct {
	store  repository.Store
	policy *authz.Policy
}

// NewStatisticsService creates a new statistics service.
func NewStatisticsService(store repository.Store, policy *authz.Policy) StatisticsService {
	return &statisticsService{store: store, policy: policy}
}

func (s *statisticsService) Global(ctx context.Context, actor *auth.Actor) (*model.Statistics, error) {
	if err := s.policy.Authorize(actor, authz.ObjectStatistics, authz.ActionRead); err != nil {
		return nil, err
	}
	companies, err := s.store.Companies().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}
	departments, err := s.store.Departments().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count departments: %w", err)
	}
	employees, err := s.store.Employees().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	return &model.Statistics{
		TotalCompanies:   companies,
		TotalDepartments: departments,
		TotalEmployees:   employees,
	}, nil
}

func (s *statisticsService) CompanyCounts(ctx context.Context, companyIDs []uint) (map[uint]model.Counts, error) {
	departments, err := s.store.Companies().CountDepartments(ctx, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("count departments: %w", err)
	}
	employees, err := s.store.Companies().CountEmployees(ctx, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	counts := make(map[uint]model.Counts, len(companyIDs))
	for _, id := range companyIDs {
		counts[id] = model.Counts{Departments: departments[id], Employees: employees[id]}
	}
	return counts, nil
}

func (s *statisticsService) DepartmentCounts(ctx context.Context, departmentIDs []uint) (map[uint]int64, error) {
	counts, err := s.store.Departments().CountEmployees(ctx, departmentIDs)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	return counts, nil
}
