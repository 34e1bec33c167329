package handler

import (
	"time"

	"workforce/internal/model"
	"workforce/internal/service"
)

const dateLayout = "2006-01-02"

// CompanyRequest is the body of POST and PUT on a company.
type CompanyRequest struct {
	Name *string `json:"name" validate:"required,max=255"`
}

// CompanyPatchRequest is the body of PATCH on a company.
type CompanyPatchRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

func (r CompanyRequest) input() service.CompanyInput {
	return service.CompanyInput{Name: r.Name}
}

// DepartmentRequest is the body of POST and PUT on a department.
type DepartmentRequest struct {
	Name *string `json:"name" validate:"required,max=255"`
}

// DepartmentPatchRequest is the body of PATCH on a department.
type DepartmentPatchRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

func (r DepartmentRequest) input() service.DepartmentInput {
	return service.DepartmentInput{Name: r.Name}
}

// EmployeeRequest is the body of POST and PUT on an employee. hired_on is
// never accepted; it follows the status.
type EmployeeRequest struct {
	Name         *string `json:"name" validate:"required,max=255"`
	Email        *string `json:"email" validate:"required,email,max=255"`
	Mobile       *string `json:"mobile" validate:"required,mobile"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	Designation  *string `json:"designation" validate:"omitempty,max=255"`
	Status       *string `json:"status" validate:"omitempty"`
	DepartmentID *uint   `json:"department" validate:"omitempty"`
}

// EmployeePatchRequest is the body of PATCH on an employee.
type EmployeePatchRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Email        *string `json:"email" validate:"omitempty,email,max=255"`
	Mobile       *string `json:"mobile" validate:"omitempty,mobile"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	Designation  *string `json:"designation" validate:"omitempty,max=255"`
	Status       *string `json:"status" validate:"omitempty"`
	DepartmentID *uint   `json:"department" validate:"omitempty"`
}

func (r EmployeeRequest) input() service.EmployeeInput {
	return service.EmployeeInput{
		Name:         r.Name,
		Email:        r.Email,
		Mobile:       r.Mobile,
		Address:      r.Address,
		Designation:  r.Designation,
		Status:       r.Status,
		DepartmentID: r.DepartmentID,
	}
}

// StatusRequest is the body of update_status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CompanyResponse is the flat company schema shown to admins and returned by writes.
type CompanyResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Manager          uint      `json:"manager"`
	DepartmentsCount int64     `json:"departments_count"`
	EmployeesCount   int64     `json:"employees_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompanyDetailResponse is the manager schema with nested departments.
type CompanyDetailResponse struct {
	CompanyResponse
	Departments []DepartmentDetailResponse `json:"departments"`
}

// CompanyListResponse wraps the admin listing with its statistics.
type CompanyListResponse struct {
	Statistics *model.Statistics `json:"statistics"`
	Companies  []CompanyResponse `json:"companies"`
}

// DepartmentResponse is the department schema without employees.
type DepartmentResponse struct {
	ID             uint      `json:"id"`
	Company        uint      `json:"company"`
	Name           string    `json:"name"`
	EmployeesCount int64     `json:"employees_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DepartmentDetailResponse adds the department's employees.
type DepartmentDetailResponse struct {
	DepartmentResponse
	Employees []EmployeeResponse `json:"employees"`
}

// EmployeeResponse is the employee read schema.
type EmployeeResponse struct {
	ID             uint                 `json:"id"`
	Company        uint                 `json:"company"`
	CompanyName    string               `json:"company_name"`
	Department     uint                 `json:"department"`
	DepartmentName string               `json:"department_name"`
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Mobile         string               `json:"mobile"`
	Address        string               `json:"address"`
	Designation    string               `json:"designation"`
	Status         model.EmployeeStatus `json:"status"`
	HiredOn        *string              `json:"hired_on"`
	DaysEmployed   int                  `json:"days_employed"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// StatusChangeResponse is one entry of an employee's status history.
type StatusChangeResponse struct {
	From      model.EmployeeStatus `json:"from_status"`
	To        model.EmployeeStatus `json:"to_status"`
	ChangedBy uint                 `json:"changed_by"`
	ChangedAt time.Time            `json:"changed_at"`
}

// UserResponse is the profile schema. The password hash is never rendered.
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsSuperuser bool       `json:"is_superuser"`
	Role        model.Role `json:"role"`
}

func newCompanyResponse(s service.CompanySummary) CompanyResponse {
	return CompanyResponse{
		ID:               s.Company.ID,
		Name:             s.Company.Name,
		Manager:          s.Company.ManagerID,
		DepartmentsCount: s.Counts.Departments,
		EmployeesCount:   s.Counts.Employees,
		CreatedAt:        s.Company.CreatedAt,
		UpdatedAt:        s.Company.UpdatedAt,
	}
}

func newCompanyDetailResponse(t service.CompanyTree) CompanyDetailResponse {
	departments := make([]DepartmentDetailResponse, len(t.Departments))
	for i, d := range t.Departments {
		departments[i] = newDepartmentDetailResponse(d)
	}
	return CompanyDetailResponse{CompanyResponse: newCompanyResponse(t.CompanySummary), Departments: departments}
}

func newDepartmentResponse(s service.DepartmentSummary) DepartmentResponse {
	return DepartmentResponse{
		ID:             s.Department.ID,
		Company:        s.Department.CompanyID,
		Name:           s.Department.Name,
		EmployeesCount: s.EmployeesCount,
		CreatedAt:      s.Department.CreatedAt,
		UpdatedAt:      s.Department.UpdatedAt,
	}
}

func newDepartmentDetailResponse(t service.DepartmentTree) DepartmentDetailResponse {
	employees := make([]EmployeeResponse, len(t.Employees))
	for i, e := range t.Employees {
		employees[i] = newEmployeeResponse(e)
	}
	return DepartmentDetailResponse{DepartmentResponse: newDepartmentResponse(t.DepartmentSummary), Employees: employees}
}

func newEmployeeResponse(v service.EmployeeView) EmployeeResponse {
	e := v.Employee
	resp := EmployeeResponse{
		ID:             e.ID,
		Company:        v.CompanyID,
		CompanyName:    v.CompanyName,
		Department:     e.DepartmentID,
		DepartmentName: v.DepartmentName,
		Name:           e.Name,
		Email:          e.Email,
		Mobile:         e.Mobile,
		Address:        e.Address,
		Designation:    e.Designation,
		Status:         e.Status,
		DaysEmployed:   v.DaysEmployed,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.HiredOn != nil {
		hired := e.HiredOn.Format(dateLayout)
		resp.HiredOn = &hired
	}
	return resp
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsSuperuser: u.IsSuperuser,
		Role:        u.Role,
	}
}
