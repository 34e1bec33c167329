package service

import (
	"context"
	"fmt"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"
)

// treeBuilder assembles read views of the tenant hierarchy.
type treeBuilder struct {
	store repository.Store
	stats StatisticsService
	now   func() time.Time
}

func newEmployeeView(e model.Employee, company *model.Company, department *model.Department, now time.Time) EmployeeView {
	return EmployeeView{
		Employee:       e,
		CompanyID:      company.ID,
		CompanyName:    company.Name,
		DepartmentName: department.Name,
		DaysEmployed:   e.DaysEmployed(now),
	}
}

// companies builds one tree per company. Without children only the counts
// are filled in.
func (b *treeBuilder) companies(ctx context.Context, companies []model.Company, withChildren bool) ([]CompanyTree, error) {
	ids := make([]uint, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	counts, err := b.stats.CompanyCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	trees := make([]CompanyTree, len(companies))
	index := make(map[uint]int, len(companies))
	for i, c := range companies {
		trees[i] = CompanyTree{CompanySummary: CompanySummary{Company: c, Counts: counts[c.ID]}}
		index[c.ID] = i
	}
	if !withChildren || len(companies) == 0 {
		return trees, nil
	}

	departments, err := b.store.Departments().ListByCompanies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	deptTrees, err := b.departments(ctx, departments, func(d *model.Department) *model.Company {
		return &trees[index[d.CompanyID]].Company
	})
	if err != nil {
		return nil, err
	}
	for _, d := range deptTrees {
		i := index[d.Department.CompanyID]
		trees[i].Departments = append(trees[i].Departments, d)
	}
	return trees, nil
}

// departments builds one tree per department, employees included.
func (b *treeBuilder) departments(ctx context.Context, departments []model.Department, companyOf func(*model.Department) *model.Company) ([]DepartmentTree, error) {
	ids := make([]uint, len(departments))
	for i, d := range departments {
		ids[i] = d.ID
	}
	counts, err := b.stats.DepartmentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	employees, err := b.store.Employees().ListByDepartments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	now := b.now()
	trees := make([]DepartmentTree, len(departments))
	index := make(map[uint]int, len(departments))
	for i := range departments {
		trees[i] = DepartmentTree{
			DepartmentSummary: DepartmentSummary{Department: departments[i], EmployeesCount: counts[departments[i].ID]},
			Employees:         []EmployeeView{},
		}
		index[departments[i].ID] = i
	}
	for _, e := range employees {
		i := index[e.DepartmentID]
		d := &trees[i].Department
		trees[i].Employees = append(trees[i].Employees, newEmployeeView(e, companyOf(d), d, now))
	}
	return trees, nil
}
