package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workforce/internal/service"
)

// EmployeeHandler handles employee endpoints nested under a department.
type EmployeeHandler struct {
	svc    service.EmployeeService
	logger *zap.Logger
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(svc service.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, logger: logger.Named("employee_handler")}
}

// List godoc
// @Summary List the employees of a department
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Success 200 {array} EmployeeResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	ids, err := pathIDs(c, "company_id", "department_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	views, err := h.svc.List(c.Request().Context(), actor(c), ids[0], ids[1])
	if err != nil {
		return fail(c, h.logger, err)
	}
	resp := make([]EmployeeResponse, len(views))
	for i, v := range views {
		resp[i] = newEmployeeResponse(v)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param employee_id path int true "Employee ID"
// @Success 200 {object} EmployeeResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees/{employee_id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	path, err := employeePath(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	view, err := h.svc.Get(c.Request().Context(), actor(c), path)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, newEmployeeResponse(*view))
}

// Create godoc
// @Summary Create an employee
// @Description The status defaults to application_received. Creating an employee as hired is rejected.
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param request body EmployeeRequest true "Employee"
// @Success 201 {object} EmployeeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	ids, err := pathIDs(c, "company_id", "department_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req EmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.svc.Create(c.Request().Context(), actor(c), ids[0], ids[1], req.input())
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, newEmployeeResponse(*view))
}

// Update godoc
// @Summary Replace an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param employee_id path int true "Employee ID"
// @Param request body EmployeeRequest true "Employee"
// @Success 200 {object} EmployeeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees/{employee_id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	var req EmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.update(c, req.input())
}

// Patch godoc
// @Summary Partially update an employee
// @Description Moving to another department is limited to the same company. A status change follows the hiring pipeline.
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param employee_id path int true "Employee ID"
// @Param request body EmployeePatchRequest true "Employee fields"
// @Success 200 {object} EmployeeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees/{employee_id} [patch]
func (h *EmployeeHandler) Patch(c echo.Context) error {
	var req EmployeePatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.update(c, EmployeeRequest(req).input())
}

func (h *EmployeeHandler) update(c echo.Context, input service.EmployeeInput) error {
	path, err := employeePath(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	view, err := h.svc.Update(c.Request().Context(), actor(c), path, input)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, newEmployeeResponse(*view))
}

// UpdateStatus godoc
// @Summary Move an employee through the hiring pipeline
// @Description application_received -> interview_scheduled -> hired or not_accepted. Hiring stamps hired_on with today's date.
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param employee_id path int true "Employee ID"
// @Param request body StatusRequest true "Target status"
// @Success 200 {object} EmployeeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees/{employee_id}/update_status [post]
func (h *EmployeeHandler) UpdateStatus(c echo.Context) error {
	path, err := employeePath(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.svc.UpdateStatus(c.Request().Context(), actor(c), path, req.Status)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, newEmployeeResponse(*view))
}

// History godoc
// @Summary List the status changes of an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param employee_id path int true "Employee ID"
// @Success 200 {array} StatusChangeResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees/{employee_id}/history [get]
func (h *EmployeeHandler) History(c echo.Context) error {
	path, err := employeePath(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	changes, err := h.svc.History(c.Request().Context(), actor(c), path)
	if err != nil {
		return fail(c, h.logger, err)
	}
	resp := make([]StatusChangeResponse, len(changes))
	for i, ch := range changes {
		resp[i] = StatusChangeResponse{From: ch.FromStatus, To: ch.ToStatus, ChangedBy: ch.ChangedBy, ChangedAt: ch.CreatedAt}
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete an employee
// @Tags employees
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param employee_id path int true "Employee ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id}/employees/{employee_id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	path, err := employeePath(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	if err := h.svc.Delete(c.Request().Context(), actor(c), path); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
