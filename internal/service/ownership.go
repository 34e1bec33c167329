package service

import (
	"context"

	"workforce/internal/auth"
	"workforce/internal/authz"
	apperrors "workforce/internal/errors"
	"workforce/internal/model"
	"workforce/internal/repository"
)

// OwnershipResolver turns path identifiers into entities and checks that the
// hierarchy and the actor's rights line up. It never writes.
type OwnershipResolver struct {
	policy *authz.Policy
}

// NewOwnershipResolver creates a resolver backed by policy.
func NewOwnershipResolver(policy *authz.Policy) *OwnershipResolver {
	return &OwnershipResolver{policy: policy}
}

// CanSee reports whether the actor may read the company.
func (r *OwnershipResolver) CanSee(actor *auth.Actor, company *model.Company) bool {
	return r.policy.SeesAllCompanies(actor) || company.OwnedBy(actor.UserID)
}

// Company resolves a company addressed directly by /companies/{id}. A company
// outside the actor's visibility is reported as missing. Mutations then need
// the manager role and ownership.
func (r *OwnershipResolver) Company(ctx context.Context, store repository.Store, actor *auth.Actor, companyID uint, act authz.Action) (*model.Company, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	company, err := store.Companies().FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !r.CanSee(actor, company) {
		return nil, apperrors.ErrNotFound
	}
	if err := r.policy.Authorize(actor, authz.ObjectCompany, act); err != nil {
		return nil, err
	}
	if !act.Safe() && !company.OwnedBy(actor.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return company, nil
}

// ParentCompany resolves the company of a nested department or employee path.
// Reads need visibility, mutations need the manager role and ownership.
func (r *OwnershipResolver) ParentCompany(ctx context.Context, store repository.Store, actor *auth.Actor, companyID uint, obj authz.Object, act authz.Action) (*model.Company, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	company, err := store.Companies().FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := r.policy.Authorize(actor, obj, act); err != nil {
		return nil, err
	}
	if act.Safe() {
		if !r.CanSee(actor, company) {
			return nil, apperrors.ErrForbidden
		}
		return company, nil
	}
	if !company.OwnedBy(actor.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return company, nil
}

// Department loads a department and confirms it belongs to company.
func (r *OwnershipResolver) Department(ctx context.Context, store repository.Store, company *model.Company, departmentID uint) (*model.Department, error) {
	department, err := store.Departments().FindByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if department.CompanyID != company.ID {
		return nil, apperrors.ErrNotFound
	}
	return department, nil
}

// Employee loads an employee and confirms it belongs to department. With
// forUpdate the row is locked for the rest of the transaction.
func (r *OwnershipResolver) Employee(ctx context.Context, store repository.Store, department *model.Department, employeeID uint, forUpdate bool) (*model.Employee, error) {
	var (
		employee *model.Employee
		err      error
	)
	if forUpdate {
		employee, err = store.Employees().FindByIDForUpdate(ctx, employeeID)
	} else {
		employee, err = store.Employees().FindByID(ctx, employeeID)
	}
	if err != nil {
		return nil, err
	}
	if employee.DepartmentID != department.ID {
		return nil, apperrors.ErrNotFound
	}
	return employee, nil
}

// EmployeePath addresses an employee through its company and department.
type EmployeePath struct {
	CompanyID    uint
	DepartmentID uint
	EmployeeID   uint
}

// scoped is the resolved chain for a nested request.
type scoped struct {
	company    *model.Company
	department *model.Department
	employee   *model.Employee
}

// resolveDepartment resolves company then department for a nested request.
func (r *OwnershipResolver) resolveDepartment(ctx context.Context, store repository.Store, actor *auth.Actor, companyID, departmentID uint, obj authz.Object, act authz.Action) (scoped, error) {
	company, err := r.ParentCompany(ctx, store, actor, companyID, obj, act)
	if err != nil {
		return scoped{}, err
	}
	department, err := r.Department(ctx, store, company, departmentID)
	if err != nil {
		return scoped{}, err
	}
	return scoped{company: company, department: department}, nil
}

// resolveEmployee resolves the full chain down to an employee.
func (r *OwnershipResolver) resolveEmployee(ctx context.Context, store repository.Store, actor *auth.Actor, path EmployeePath, act authz.Action, forUpdate bool) (scoped, error) {
	s, err := r.resolveDepartment(ctx, store, actor, path.CompanyID, path.DepartmentID, authz.ObjectEmployee, act)
	if err != nil {
		return scoped{}, err
	}
	s.employee, err = r.Employee(ctx, store, s.department, path.EmployeeID, forUpdate)
	if err != nil {
		return scoped{}, err
	}
	return s, nil
}
