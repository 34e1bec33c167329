package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"workforce/internal/auth"
	"workforce/internal/authz"
	apperrors "workforce/internal/errors"
	"workforce/internal/events"
	"workforce/internal/metrics"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type testEnv struct {
	conn        *gorm.DB
	store       repository.Store
	companies   CompanyService
	departments DepartmentService
	employees   EmployeeService
	publisher   *recordingPublisher
	now         time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.NewDB(t)
	logger := zaptest.NewLogger(t)
	store := repository.NewStore(conn)
	policy := authz.MustDefault(logger)
	stats := NewStatisticsService(store, policy)
	publisher := &recordingPublisher{}
	m := metrics.New(prometheus.NewRegistry())

	env := &testEnv{
		conn:      conn,
		store:     store,
		publisher: publisher,
		now:       time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	companies := NewCompanyService(store, policy, stats, publisher, m, logger).(*companyService)
	companies.now = clock
	departments := NewDepartmentService(store, policy, stats, logger).(*departmentService)
	departments.now = clock
	employees := NewEmployeeService(store, policy, publisher, m, logger).(*employeeService)
	employees.now = clock

	env.companies, env.departments, env.employees = companies, departments, employees
	return env
}

func (env *testEnv) actor(t *testing.T, role model.Role) *auth.Actor {
	user := testutil.CreateUser(t, env.conn, role)
	return &auth.Actor{UserID: user.ID, Email: user.Email, Role: role}
}

func strPtr(s string) *string { return &s }

func employeeInput(email string) EmployeeInput {
	return EmployeeInput{
		Name:        strPtr("Jane Doe"),
		Email:       strPtr(email),
		Mobile:      strPtr("+12025550123"),
		Address:     strPtr("1 Main St"),
		Designation: strPtr("Engineer"),
	}
}

func TestHiringScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.actor(t, model.RoleManager)

	acme, err := env.companies.Create(ctx, m1, CompanyInput{Name: strPtr("Acme")})
	require.NoError(t, err)
	eng, err := env.departments.Create(ctx, m1, acme.Company.ID, DepartmentInput{Name: strPtr("Eng")})
	require.NoError(t, err)

	created, err := env.employees.Create(ctx, m1, acme.Company.ID, eng.Department.ID, employeeInput("Jane@Acme.com"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusApplicationReceived, created.Employee.Status)
	assert.Nil(t, created.Employee.HiredOn)
	assert.Equal(t, "jane@acme.com", created.Employee.Email)
	assert.Equal(t, "Acme", created.CompanyName)
	assert.Equal(t, "Eng", created.DepartmentName)

	path := EmployeePath{CompanyID: acme.Company.ID, DepartmentID: eng.Department.ID, EmployeeID: created.Employee.ID}

	view, err := env.employees.UpdateStatus(ctx, m1, path, "interview_scheduled")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterviewScheduled, view.Employee.Status)
	assert.Nil(t, view.Employee.HiredOn)

	view, err = env.employees.UpdateStatus(ctx, m1, path, "hired")
	require.NoError(t, err)
	require.NotNil(t, view.Employee.HiredOn)
	assert.Equal(t, model.DateOf(env.now), *view.Employee.HiredOn)
	assert.Zero(t, view.DaysEmployed)

	_, err = env.employees.UpdateStatus(ctx, m1, path, "interview_scheduled")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// Re-submitting the current status is accepted and changes nothing.
	env.now = env.now.AddDate(0, 0, 5)
	view, err = env.employees.UpdateStatus(ctx, m1, path, "hired")
	require.NoError(t, err)
	assert.Equal(t, model.DateOf(env.now.AddDate(0, 0, -5)), model.DateOf(*view.Employee.HiredOn))
	assert.Equal(t, 5, view.DaysEmployed)

	loaded, err := env.employees.Get(ctx, m1, path)
	require.NoError(t, err)
	assert.Equal(t, model.StatusHired, loaded.Employee.Status)
	require.NotNil(t, loaded.Employee.HiredOn)

	history, err := env.employees.History(ctx, m1, path)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusApplicationReceived, history[0].FromStatus)
	assert.Equal(t, model.StatusHired, history[1].ToStatus)
	assert.Equal(t, m1.UserID, history[1].ChangedBy)

	assert.Equal(t, []events.EventType{
		events.EmployeeCreated,
		events.EmployeeStatusChanged,
		events.EmployeeStatusChanged,
	}, env.publisher.types())
}

func TestEmployeeCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.actor(t, model.RoleManager)
	company := testutil.CreateCompany(t, env.conn, m1.UserID)
	department := testutil.CreateDepartment(t, env.conn, company.ID)

	bad := employeeInput("not-an-email")
	_, err := env.employees.Create(ctx, m1, company.ID, department.ID, bad)
	var fieldErr *apperrors.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email", fieldErr.Field)

	bad = employeeInput("ok@example.com")
	bad.Mobile = strPtr("555")
	_, err = env.employees.Create(ctx, m1, company.ID, department.ID, bad)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "mobile", fieldErr.Field)

	hired := employeeInput("hired@example.com")
	hired.Status = strPtr("hired")
	_, err = env.employees.Create(ctx, m1, company.ID, department.ID, hired)
	assert.ErrorIs(t, err, apperrors.ErrInconsistentHireDate)

	_, err = env.employees.Create(ctx, m1, company.ID, department.ID, employeeInput("dup@example.com"))
	require.NoError(t, err)
	_, err = env.employees.Create(ctx, m1, company.ID, department.ID, employeeInput("DUP@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestEmployeeUpdate_Transfer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.actor(t, model.RoleManager)
	m2 := env.actor(t, model.RoleManager)
	acme := testutil.CreateCompany(t, env.conn, m1.UserID)
	eng := testutil.CreateDepartment(t, env.conn, acme.ID)
	sales := testutil.CreateDepartment(t, env.conn, acme.ID)
	other := testutil.CreateDepartment(t, env.conn, testutil.CreateCompany(t, env.conn, m2.UserID).ID)
	employee := testutil.CreateEmployee(t, env.conn, eng.ID, model.StatusApplicationReceived, time.Time{})
	path := EmployeePath{CompanyID: acme.ID, DepartmentID: eng.ID, EmployeeID: employee.ID}

	_, err := env.employees.Update(ctx, m1, path, EmployeeInput{DepartmentID: &other.ID})
	assert.ErrorIs(t, err, apperrors.ErrCrossCompanyTransfer)

	missing := uint(9999)
	_, err = env.employees.Update(ctx, m1, path, EmployeeInput{DepartmentID: &missing})
	var fieldErr *apperrors.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "department_id", fieldErr.Field)

	view, err := env.employees.Update(ctx, m1, path, EmployeeInput{DepartmentID: &sales.ID})
	require.NoError(t, err)
	assert.Equal(t, sales.ID, view.Employee.DepartmentID)
	assert.Equal(t, sales.Name, view.DepartmentName)
	assert.Equal(t, acme.ID, view.CompanyID)

	// The old path no longer addresses the employee.
	_, err = env.employees.Get(ctx, m1, path)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	path.DepartmentID = sales.ID
	_, err = env.employees.Get(ctx, m1, path)
	assert.NoError(t, err)
	assert.Contains(t, env.publisher.types(), events.EmployeeTransferred)
}

func TestEmployeeUpdate_StatusAndFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.actor(t, model.RoleManager)
	company := testutil.CreateCompany(t, env.conn, m1.UserID)
	department := testutil.CreateDepartment(t, env.conn, company.ID)
	first := testutil.CreateEmployee(t, env.conn, department.ID, model.StatusInterviewScheduled, time.Time{})
	second := testutil.CreateEmployee(t, env.conn, department.ID, model.StatusApplicationReceived, time.Time{})
	path := EmployeePath{CompanyID: company.ID, DepartmentID: department.ID, EmployeeID: first.ID}

	view, err := env.employees.Update(ctx, m1, path, EmployeeInput{Designation: strPtr("Lead"), Status: strPtr("hired")})
	require.NoError(t, err)
	assert.Equal(t, "Lead", view.Employee.Designation)
	assert.Equal(t, model.StatusHired, view.Employee.Status)
	require.NotNil(t, view.Employee.HiredOn)

	_, err = env.employees.Update(ctx, m1, path, EmployeeInput{Email: strPtr(second.Email)})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = env.employees.Update(ctx, m1, path, EmployeeInput{Status: strPtr("promoted")})
	var fieldErr *apperrors.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "status", fieldErr.Field)

	// A failed update leaves the stored row untouched.
	loaded, err := env.employees.Get(ctx, m1, path)
	require.NoError(t, err)
	assert.Equal(t, first.Email, loaded.Employee.Email)
}

func TestAccessAcrossTenants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ma := env.actor(t, model.RoleManager)
	mb := env.actor(t, model.RoleManager)
	admin := env.actor(t, model.RoleAdmin)
	staff := env.actor(t, model.RoleEmployee)

	company := testutil.CreateCompany(t, env.conn, ma.UserID)
	department := testutil.CreateDepartment(t, env.conn, company.ID)
	employee := testutil.CreateEmployee(t, env.conn, department.ID, model.StatusApplicationReceived, time.Time{})
	path := EmployeePath{CompanyID: company.ID, DepartmentID: department.ID, EmployeeID: employee.ID}
	rename := CompanyInput{Name: strPtr("Renamed")}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := env.companies.List(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		_, err = env.employees.Get(ctx, nil, path)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("other manager", func(t *testing.T) {
		_, err := env.companies.Get(ctx, mb, company.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		_, err = env.companies.Update(ctx, mb, company.ID, rename)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		_, err = env.companies.Delete(ctx, mb, company.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = env.departments.Get(ctx, mb, company.ID, department.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = env.employees.Get(ctx, mb, path)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = env.employees.UpdateStatus(ctx, mb, path, "interview_scheduled")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.ErrorIs(t, env.employees.Delete(ctx, mb, path), apperrors.ErrForbidden)

		listing, err := env.companies.List(ctx, mb)
		require.NoError(t, err)
		assert.Empty(t, listing.Companies)
		assert.Nil(t, listing.Statistics)
	})

	t.Run("admin reads but cannot mutate", func(t *testing.T) {
		got, err := env.companies.Get(ctx, admin, company.ID)
		require.NoError(t, err)
		assert.Equal(t, company.ID, got.Company.ID)

		_, err = env.employees.Get(ctx, admin, path)
		assert.NoError(t, err)

		_, err = env.companies.Update(ctx, admin, company.ID, rename)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = env.departments.Create(ctx, admin, company.ID, DepartmentInput{Name: strPtr("Ops")})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = env.employees.UpdateStatus(ctx, admin, path, "interview_scheduled")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = env.companies.Create(ctx, admin, CompanyInput{Name: strPtr("Admin Co")})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("employee role", func(t *testing.T) {
		_, err := env.companies.Create(ctx, staff, CompanyInput{Name: strPtr("Staff Co")})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = env.companies.Get(ctx, staff, company.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("hierarchy mismatch", func(t *testing.T) {
		otherCompany := testutil.CreateCompany(t, env.conn, ma.UserID)
		_, err := env.departments.Get(ctx, ma, otherCompany.ID, department.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		otherDepartment := testutil.CreateDepartment(t, env.conn, company.ID)
		mismatched := path
		mismatched.DepartmentID = otherDepartment.ID
		_, err = env.employees.Get(ctx, ma, mismatched)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = env.companies.Get(ctx, ma, 424242)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("owner", func(t *testing.T) {
		updated, err := env.companies.Update(ctx, ma, company.ID, rename)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Company.Name)
	})
}

func TestCompanyList_StatisticsAndNesting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ma := env.actor(t, model.RoleManager)
	mb := env.actor(t, model.RoleManager)
	admin := env.actor(t, model.RoleAdmin)

	a := testutil.CreateCompany(t, env.conn, ma.UserID)
	b := testutil.CreateCompany(t, env.conn, mb.UserID)
	a1 := testutil.CreateDepartment(t, env.conn, a.ID)
	a2 := testutil.CreateDepartment(t, env.conn, a.ID)
	b1 := testutil.CreateDepartment(t, env.conn, b.ID)
	testutil.CreateEmployee(t, env.conn, a1.ID, model.StatusApplicationReceived, time.Time{})
	testutil.CreateEmployee(t, env.conn, a2.ID, model.StatusApplicationReceived, time.Time{})
	testutil.CreateEmployee(t, env.conn, a2.ID, model.StatusNotAccepted, time.Time{})
	testutil.CreateEmployee(t, env.conn, b1.ID, model.StatusApplicationReceived, time.Time{})

	listing, err := env.companies.List(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, listing.Scope)
	require.NotNil(t, listing.Statistics)
	assert.Equal(t, model.Statistics{TotalCompanies: 2, TotalDepartments: 3, TotalEmployees: 4}, *listing.Statistics)
	require.Len(t, listing.Companies, 2)

	var sumDepartments, sumEmployees int64
	for _, c := range listing.Companies {
		sumDepartments += c.Counts.Departments
		sumEmployees += c.Counts.Employees
		assert.Empty(t, c.Departments)
	}
	assert.Equal(t, listing.Statistics.TotalDepartments, sumDepartments)
	assert.Equal(t, listing.Statistics.TotalEmployees, sumEmployees)

	own, err := env.companies.List(ctx, ma)
	require.NoError(t, err)
	assert.Equal(t, ScopeOwned, own.Scope)
	assert.Nil(t, own.Statistics)
	require.Len(t, own.Companies, 1)
	tree := own.Companies[0]
	assert.Equal(t, a.ID, tree.Company.ID)
	assert.Equal(t, model.Counts{Departments: 2, Employees: 3}, tree.Counts)
	require.Len(t, tree.Departments, 2)
	var nested int64
	for _, d := range tree.Departments {
		assert.Equal(t, d.EmployeesCount, int64(len(d.Employees)))
		nested += d.EmployeesCount
	}
	assert.Equal(t, tree.Counts.Employees, nested)
}

func TestCompanyService_CreateDuplicateAndDeleteCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.actor(t, model.RoleManager)
	m2 := env.actor(t, model.RoleManager)

	acme, err := env.companies.Create(ctx, m1, CompanyInput{Name: strPtr("Acme")})
	require.NoError(t, err)
	_, err = env.companies.Create(ctx, m2, CompanyInput{Name: strPtr(" Acme ")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	_, err = env.companies.Create(ctx, m1, CompanyInput{Name: strPtr("  ")})
	assert.ErrorIs(t, err, apperrors.ErrFieldFormat)

	department := testutil.CreateDepartment(t, env.conn, acme.Company.ID)
	testutil.CreateEmployee(t, env.conn, department.ID, model.StatusApplicationReceived, time.Time{})

	res, err := env.companies.Delete(ctx, m1, acme.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Companies)
	assert.Equal(t, int64(1), res.Departments)
	assert.Equal(t, int64(1), res.Employees)

	_, err = env.companies.Get(ctx, m1, acme.Company.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, env.publisher.types(), events.CompanyDeleted)
}

func TestDepartmentService_NameRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m1 := env.actor(t, model.RoleManager)
	c1 := testutil.CreateCompany(t, env.conn, m1.UserID)
	c2 := testutil.CreateCompany(t, env.conn, m1.UserID)

	sales, err := env.departments.Create(ctx, m1, c1.ID, DepartmentInput{Name: strPtr("Sales")})
	require.NoError(t, err)
	_, err = env.departments.Create(ctx, m1, c2.ID, DepartmentInput{Name: strPtr("Sales")})
	require.NoError(t, err)
	_, err = env.departments.Create(ctx, m1, c1.ID, DepartmentInput{Name: strPtr("Sales")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	ops, err := env.departments.Create(ctx, m1, c1.ID, DepartmentInput{Name: strPtr("Ops")})
	require.NoError(t, err)
	_, err = env.departments.Update(ctx, m1, c1.ID, ops.Department.ID, DepartmentInput{Name: strPtr("Sales")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	renamed, err := env.departments.Update(ctx, m1, c1.ID, sales.Department.ID, DepartmentInput{Name: strPtr("Field Sales")})
	require.NoError(t, err)
	assert.Equal(t, "Field Sales", renamed.Department.Name)

	list, err := env.departments.List(ctx, m1, c1.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.departments.Delete(ctx, m1, c1.ID, ops.Department.ID)
	require.NoError(t, err)
	list, err = env.departments.List(ctx, m1, c1.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStatisticsService_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	stats := NewStatisticsService(env.store, authz.MustDefault(zaptest.NewLogger(t)))

	_, err := stats.Global(context.Background(), env.actor(t, model.RoleManager))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err := stats.Global(context.Background(), env.actor(t, model.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, model.Statistics{}, *got)
}

func TestUserService_Profile(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(conn), nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, conn, model.RoleManager)
	other := testutil.CreateUser(t, conn, model.RoleManager)
	actor := &auth.Actor{UserID: user.ID, Role: user.Role}

	_, err := svc.Me(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	me, err := svc.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	updated, err := svc.UpdateProfile(ctx, actor, ProfileInput{FirstName: strPtr(" Pat "), Email: strPtr("PAT@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Pat", updated.FirstName)
	assert.Equal(t, "pat@example.com", updated.Email)
	assert.Equal(t, model.RoleManager, updated.Role)

	_, err = svc.UpdateProfile(ctx, actor, ProfileInput{Username: strPtr(other.Username)})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = svc.UpdateProfile(ctx, actor, ProfileInput{Email: strPtr("broken")})
	var fieldErr *apperrors.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email", fieldErr.Field)
}
