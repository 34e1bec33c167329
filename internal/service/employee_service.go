package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"workforce/internal/auth"
	"workforce/internal/authz"
	apperrors "workforce/internal/errors"
	"workforce/internal/events"
	"workforce/internal/metrics"
	"workforce/internal/model"
	"workforce/internal/repository"
)

// EmployeeInput carries the writable employee fields. A nil field is left
// unchanged on update; on create Name, Email and Mobile are required.
type EmployeeInput struct {
	Name         *string
	Email        *string
	Mobile       *string
	Address      *string
	Designation  *string
	Status       *string
	DepartmentID *uint
}

// EmployeeService exposes employee operations under a department.
type EmployeeService interface {
	List(ctx context.Context, actor *auth.Actor, companyID, departmentID uint) ([]EmployeeView, error)
	Get(ctx context.Context, actor *auth.Actor, path EmployeePath) (*EmployeeView, error)
	Create(ctx context.Context, actor *auth.Actor, companyID, departmentID uint, input EmployeeInput) (*EmployeeView, error)
	Update(ctx context.Context, actor *auth.Actor, path EmployeePath, input EmployeeInput) (*EmployeeView, error)
	UpdateStatus(ctx context.Context, actor *auth.Actor, path EmployeePath, status string) (*EmployeeView, error)
	Delete(ctx context.Context, actor *auth.Actor, path EmployeePath) error
	History(ctx context.Context, actor *auth.Actor, path EmployeePath) ([]model.StatusChange, error)
}

type employeeService struct {
	store     repository.Store
	resolver  *OwnershipResolver
	validator *ContactValidator
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewEmployeeService creates a new employee service.
func NewEmployeeService(
	store repository.Store,
	policy *authz.Policy,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) EmployeeService {
	return &employeeService{
		store:     store,
		resolver:  NewOwnershipResolver(policy),
		validator: NewContactValidator(),
		publisher: publisher,
		metrics:   m,
		logger:    logger.Named("employee_service"),
		now:       time.Now,
	}
}

// mutation collects what a committed write has to announce.
type mutation struct {
	events     []events.Event
	transition *model.StatusChange
}

func (s *employeeService) List(ctx context.Context, actor *auth.Actor, companyID, departmentID uint) ([]EmployeeView, error) {
	sc, err := s.resolver.resolveDepartment(ctx, s.store, actor, companyID, departmentID, authz.ObjectEmployee, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.Employees().ListByDepartments(ctx, []uint{sc.department.ID})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	now := s.now()
	views := make([]EmployeeView, len(employees))
	for i, e := range employees {
		views[i] = newEmployeeView(e, sc.company, sc.department, now)
	}
	return views, nil
}

func (s *employeeService) Get(ctx context.Context, actor *auth.Actor, path EmployeePath) (*EmployeeView, error) {
	sc, err := s.resolver.resolveEmployee(ctx, s.store, actor, path, authz.ActionRead, false)
	if err != nil {
		return nil, err
	}
	view := newEmployeeView(*sc.employee, sc.company, sc.department, s.now())
	return &view, nil
}

func (s *employeeService) Create(ctx context.Context, actor *auth.Actor, companyID, departmentID uint, input EmployeeInput) (*EmployeeView, error) {
	var (
		view EmployeeView
		done mutation
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		sc, err := s.resolver.resolveDepartment(ctx, tx, actor, companyID, departmentID, authz.ObjectEmployee, authz.ActionCreate)
		if err != nil {
			return err
		}
		if input.DepartmentID != nil && *input.DepartmentID != sc.department.ID {
			return apperrors.NewFieldError("department_id", "must match the department in the path", nil)
		}

		employee := &model.Employee{DepartmentID: sc.department.ID}
		for _, required := range []struct {
			field string
			value *string
		}{{"name", input.Name}, {"email", input.Email}, {"mobile", input.Mobile}} {
			if required.value == nil {
				return apperrors.NewFieldError(required.field, "this field is required", nil)
			}
		}
		if err := s.applyFields(employee, input); err != nil {
			return err
		}
		var status string
		if input.Status != nil {
			status = *input.Status
		}
		if employee.Status, err = initialStatus(status); err != nil {
			return err
		}
		if err := s.checkEmail(ctx, tx, employee.Email, 0); err != nil {
			return err
		}
		if err := tx.Employees().Create(ctx, employee); err != nil {
			return err
		}

		view = newEmployeeView(*employee, sc.company, sc.department, s.now())
		done.events = append(done.events, events.Event{
			Type:         events.EmployeeCreated,
			ActorID:      actor.UserID,
			CompanyID:    sc.company.ID,
			DepartmentID: employee.DepartmentID,
			EmployeeID:   employee.ID,
			ToStatus:     employee.Status,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee created", zap.Uint("employee_id", view.Employee.ID), zap.Uint("department_id", departmentID))
	s.announce(done)
	return &view, nil
}

// Update applies a full or partial update. A status change follows the
// transition table and a department change must stay within the company.
func (s *employeeService) Update(ctx context.Context, actor *auth.Actor, path EmployeePath, input EmployeeInput) (*EmployeeView, error) {
	var (
		view EmployeeView
		done mutation
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		sc, err := s.resolver.resolveEmployee(ctx, tx, actor, path, authz.ActionUpdate, true)
		if err != nil {
			return err
		}
		employee := sc.employee
		department := sc.department

		if err := s.applyFields(employee, input); err != nil {
			return err
		}
		if input.Email != nil {
			if err := s.checkEmail(ctx, tx, employee.Email, employee.ID); err != nil {
				return err
			}
		}
		if input.DepartmentID != nil && *input.DepartmentID != department.ID {
			department, err = s.transferTarget(ctx, tx, sc.company, *input.DepartmentID)
			if err != nil {
				return err
			}
			employee.DepartmentID = department.ID
			done.events = append(done.events, events.Event{
				Type:         events.EmployeeTransferred,
				ActorID:      actor.UserID,
				CompanyID:    sc.company.ID,
				DepartmentID: department.ID,
				EmployeeID:   employee.ID,
			})
		}
		if input.Status != nil {
			change, err := s.transition(ctx, tx, actor, employee, *input.Status)
			if err != nil {
				return err
			}
			if change != nil {
				done.transition = change
				done.events = append(done.events, statusEvent(actor, sc.company.ID, change, employee))
			}
		}
		if err := tx.Employees().Update(ctx, employee); err != nil {
			return err
		}
		view = newEmployeeView(*employee, sc.company, department, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announce(done)
	return &view, nil
}

// UpdateStatus moves an employee through the hiring pipeline. The status,
// hire date and audit entry are written in one transaction.
func (s *employeeService) UpdateStatus(ctx context.Context, actor *auth.Actor, path EmployeePath, status string) (*EmployeeView, error) {
	var (
		view EmployeeView
		done mutation
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		sc, err := s.resolver.resolveEmployee(ctx, tx, actor, path, authz.ActionTransition, true)
		if err != nil {
			return err
		}
		employee := sc.employee
		change, err := s.transition(ctx, tx, actor, employee, status)
		if err != nil {
			return err
		}
		if change != nil {
			if err := tx.Employees().Update(ctx, employee); err != nil {
				return err
			}
			done.transition = change
			done.events = append(done.events, statusEvent(actor, sc.company.ID, change, employee))
		}
		view = newEmployeeView(*employee, sc.company, sc.department, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if done.transition != nil {
		s.logger.Info("employee status changed",
			zap.Uint("employee_id", path.EmployeeID),
			zap.String("from", string(done.transition.FromStatus)),
			zap.String("to", string(done.transition.ToStatus)),
		)
	}
	s.announce(done)
	return &view, nil
}

func (s *employeeService) Delete(ctx context.Context, actor *auth.Actor, path EmployeePath) error {
	var companyID uint
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		sc, err := s.resolver.resolveEmployee(ctx, tx, actor, path, authz.ActionDelete, true)
		if err != nil {
			return err
		}
		companyID = sc.company.ID
		_, err = tx.Employees().Delete(ctx, sc.employee.ID)
		return err
	})
	if err != nil {
		return err
	}
	s.announce(mutation{events: []events.Event{{
		Type:         events.EmployeeDeleted,
		ActorID:      actor.UserID,
		CompanyID:    companyID,
		DepartmentID: path.DepartmentID,
		EmployeeID:   path.EmployeeID,
	}}})
	return nil
}

// History returns the status audit trail of an employee, oldest first.
func (s *employeeService) History(ctx context.Context, actor *auth.Actor, path EmployeePath) ([]model.StatusChange, error) {
	sc, err := s.resolver.resolveEmployee(ctx, s.store, actor, path, authz.ActionRead, false)
	if err != nil {
		return nil, err
	}
	changes, err := s.store.StatusChanges().ListByEmployee(ctx, sc.employee.ID)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	return changes, nil
}

// applyFields validates and copies the contact fields present in input.
func (s *employeeService) applyFields(employee *model.Employee, input EmployeeInput) error {
	if input.Name != nil {
		if err := s.validator.ValidateName("name", *input.Name); err != nil {
			return err
		}
		employee.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if err := s.validator.ValidateEmail(email); err != nil {
			return err
		}
		employee.Email = email
	}
	if input.Mobile != nil {
		mobile := strings.TrimSpace(*input.Mobile)
		if err := s.validator.ValidateMobile(mobile); err != nil {
			return err
		}
		employee.Mobile = mobile
	}
	if input.Address != nil {
		employee.Address = strings.TrimSpace(*input.Address)
	}
	if input.Designation != nil {
		employee.Designation = strings.TrimSpace(*input.Designation)
	}
	return nil
}

// checkEmail is an advisory pre-check; the unique index is authoritative.
func (s *employeeService) checkEmail(ctx context.Context, tx repository.Store, email string, excludeID uint) error {
	exists, err := tx.Employees().ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check employee email: %w", err)
	}
	if exists {
		return apperrors.NewFieldError("email", "employee with this email already exists", apperrors.ErrDuplicateEmail)
	}
	return nil
}

// transferTarget loads the destination department of a move and requires it
// to belong to company.
func (s *employeeService) transferTarget(ctx context.Context, tx repository.Store, company *model.Company, departmentID uint) (*model.Department, error) {
	target, err := tx.Departments().FindByID(ctx, departmentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewFieldError("department_id", "department does not exist", nil)
	}
	if err != nil {
		return nil, err
	}
	if target.CompanyID != company.ID {
		return nil, apperrors.NewFieldError("department_id", apperrors.ErrCrossCompanyTransfer.Error(), apperrors.ErrCrossCompanyTransfer)
	}
	return target, nil
}

// transition applies the requested status and records an audit entry when the
// status actually changes. It returns nil for an idempotent re-submission.
func (s *employeeService) transition(ctx context.Context, tx repository.Store, actor *auth.Actor, employee *model.Employee, raw string) (*model.StatusChange, error) {
	target, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	from := employee.Status
	changed, err := ApplyStatus(employee, target, s.now())
	if err != nil || !changed {
		return nil, err
	}
	change := &model.StatusChange{
		EmployeeID: employee.ID,
		FromStatus: from,
		ToStatus:   target,
		ChangedBy:  actor.UserID,
	}
	if err := tx.StatusChanges().Create(ctx, change); err != nil {
		return nil, fmt.Errorf("record status change: %w", err)
	}
	return change, nil
}

func statusEvent(actor *auth.Actor, companyID uint, change *model.StatusChange, employee *model.Employee) events.Event {
	return events.Event{
		Type:         events.EmployeeStatusChanged,
		ActorID:      actor.UserID,
		CompanyID:    companyID,
		DepartmentID: employee.DepartmentID,
		EmployeeID:   employee.ID,
		FromStatus:   change.FromStatus,
		ToStatus:     change.ToStatus,
	}
}

// announce runs after commit so nothing is published for a rolled back write.
func (s *employeeService) announce(done mutation) {
	if done.transition != nil {
		s.metrics.StatusTransition(done.transition.FromStatus, done.transition.ToStatus)
	}
	for _, event := range done.events {
		s.publisher.Publish(event)
		s.metrics.EventPublished(string(event.Type))
	}
}
