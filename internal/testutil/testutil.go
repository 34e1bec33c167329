// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workforce/internal/db"
	"workforce/internal/model"
)

var seq atomic.Int64

// NewDB opens a migrated in-memory SQLite database closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewSQLite(":memory:")
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(conn), "failed to migrate test database")
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func next() int64 {
	return seq.Add(1)
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, conn *gorm.DB, role model.Role) *model.User {
	t.Helper()
	n := next()
	user := &model.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, conn.WithContext(context.Background()).Create(user).Error)
	return user
}

// CreateCompany inserts a company managed by managerID.
func CreateCompany(t *testing.T, conn *gorm.DB, managerID uint) *model.Company {
	t.Helper()
	company := &model.Company{ManagerID: managerID, Name: fmt.Sprintf("Company %d", next())}
	require.NoError(t, conn.Create(company).Error)
	return company
}

// CreateDepartment inserts a department under companyID.
func CreateDepartment(t *testing.T, conn *gorm.DB, companyID uint) *model.Department {
	t.Helper()
	department := &model.Department{CompanyID: companyID, Name: fmt.Sprintf("Department %d", next())}
	require.NoError(t, conn.Create(department).Error)
	return department
}

// CreateEmployee inserts an employee in the given status. Hired employees get
// hiredOn, or today when hiredOn is zero.
func CreateEmployee(t *testing.T, conn *gorm.DB, departmentID uint, status model.EmployeeStatus, hiredOn time.Time) *model.Employee {
	t.Helper()
	n := next()
	employee := &model.Employee{
		DepartmentID: departmentID,
		Name:         fmt.Sprintf("Employee %d", n),
		Email:        fmt.Sprintf("employee%d@example.com", n),
		Mobile:       "+12025550123",
		Address:      "1 Main St",
		Designation:  "Engineer",
		Status:       status,
	}
	if status == model.StatusHired {
		if hiredOn.IsZero() {
			hiredOn = time.Now()
		}
		d := model.DateOf(hiredOn)
		employee.HiredOn = &d
	}
	require.NoError(t, conn.Create(employee).Error)
	return employee
}
