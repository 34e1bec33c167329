package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"workforce/internal/auth"
	apperrors "workforce/internal/errors"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"
)

// SeedFile describes the users and tenants to create.
type SeedFile struct {
	Superuser *SeedUser    `yaml:"superuser"`
	Tenants   []SeedTenant `yaml:"tenants"`
}

// SeedUser is a login to create when its email is not taken yet.
type SeedUser struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// SeedTenant is a manager and the companies they own.
type SeedTenant struct {
	Manager   SeedUser      `yaml:"manager"`
	Companies []SeedCompany `yaml:"companies"`
}

type SeedCompany struct {
	Name        string           `yaml:"name"`
	Departments []SeedDepartment `yaml:"departments"`
}

type SeedDepartment struct {
	Name      string         `yaml:"name"`
	Employees []SeedEmployee `yaml:"employees"`
}

// SeedEmployee is created as an applicant and then walked through the
// pipeline until it reaches Status.
type SeedEmployee struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Mobile      string `yaml:"mobile"`
	Address     string `yaml:"address"`
	Designation string `yaml:"designation"`
	Status      string `yaml:"status"`
}

// Summary counts what a seed run created.
type Summary struct {
	Users       int
	Companies   int
	Departments int
	Employees   int
	Skipped     int
}

// ParseSeedFile decodes a YAML seed file.
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

type seeder struct {
	users       repository.UserRepository
	companies   service.CompanyService
	departments service.DepartmentService
	employees   service.EmployeeService
	logger      *zap.Logger
	summary     Summary
}

func (s *seeder) run(ctx context.Context, f *SeedFile) (Summary, error) {
	if f.Superuser != nil {
		if _, err := s.user(ctx, *f.Superuser, true); err != nil {
			return s.summary, err
		}
	}
	for _, tenant := range f.Tenants {
		manager, err := s.user(ctx, tenant.Manager, false)
		if err != nil {
			return s.summary, err
		}
		if manager.Role != model.RoleManager {
			return s.summary, fmt.Errorf("tenant %s: user has role %s, want manager", manager.Email, manager.Role)
		}
		actor := &auth.Actor{UserID: manager.ID, Email: manager.Email, Role: manager.Role}
		for _, company := range tenant.Companies {
			if err := s.company(ctx, actor, company); err != nil {
				return s.summary, err
			}
		}
	}
	return s.summary, nil
}

// user returns the existing user with the email or creates it. Superusers get
// the admin role through the default role rule.
func (s *seeder) user(ctx context.Context, u SeedUser, superuser bool) (*model.User, error) {
	email := service.NormalizeEmail(u.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Info("user exists, skipping", zap.String("email", email))
		s.summary.Skipped++
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}

	hashed, err := service.HashPassword(u.Password)
	if err != nil {
		return nil, err
	}
	username := u.Username
	if username == "" {
		username = email
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: hashed,
		IsSuperuser:  superuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	s.summary.Users++
	s.logger.Info("user created", zap.String("email", email), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *seeder) company(ctx context.Context, actor *auth.Actor, c SeedCompany) error {
	name := c.Name
	created, err := s.companies.Create(ctx, actor, service.CompanyInput{Name: &name})
	if errors.Is(err, apperrors.ErrDuplicateName) {
		s.logger.Info("company exists, skipping", zap.String("company", c.Name))
		s.summary.Skipped++
		return nil
	}
	if err != nil {
		return fmt.Errorf("create company %q: %w", c.Name, err)
	}
	s.summary.Companies++

	for _, d := range c.Departments {
		deptName := d.Name
		dept, err := s.departments.Create(ctx, actor, created.Company.ID, service.DepartmentInput{Name: &deptName})
		if err != nil {
			return fmt.Errorf("create department %q: %w", d.Name, err)
		}
		s.summary.Departments++
		for _, e := range d.Employees {
			if err := s.employee(ctx, actor, created.Company.ID, dept.Department.ID, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) employee(ctx context.Context, actor *auth.Actor, companyID, departmentID uint, e SeedEmployee) error {
	input := service.EmployeeInput{
		Name:        &e.Name,
		Email:       &e.Email,
		Mobile:      &e.Mobile,
		Address:     &e.Address,
		Designation: &e.Designation,
	}
	view, err := s.employees.Create(ctx, actor, companyID, departmentID, input)
	if errors.Is(err, apperrors.ErrDuplicateEmail) {
		s.logger.Info("employee exists, skipping", zap.String("email", e.Email))
		s.summary.Skipped++
		return nil
	}
	if err != nil {
		return fmt.Errorf("create employee %s: %w", e.Email, err)
	}
	s.summary.Employees++

	steps, err := pipelineTo(e.Status)
	if err != nil {
		return fmt.Errorf("employee %s: %w", e.Email, err)
	}
	path := service.EmployeePath{CompanyID: companyID, DepartmentID: departmentID, EmployeeID: view.Employee.ID}
	for _, step := range steps {
		if _, err := s.employees.UpdateStatus(ctx, actor, path, string(step)); err != nil {
			return fmt.Errorf("employee %s to %s: %w", e.Email, step, err)
		}
	}
	return nil
}

// pipelineTo lists the transitions that take a new applicant to target.
func pipelineTo(target string) ([]model.EmployeeStatus, error) {
	if target == "" {
		return nil, nil
	}
	status, err := service.ParseStatus(target)
	if err != nil {
		return nil, err
	}
	switch status {
	case model.StatusInterviewScheduled:
		return []model.EmployeeStatus{model.StatusInterviewScheduled}, nil
	case model.StatusHired:
		return []model.EmployeeStatus{model.StatusInterviewScheduled, model.StatusHired}, nil
	case model.StatusNotAccepted:
		return []model.EmployeeStatus{model.StatusNotAccepted}, nil
	}
	return nil, nil
}
