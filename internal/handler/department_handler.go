package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workforce/internal/service"
)

// DepartmentHandler handles department endpoints nested under a company.
type DepartmentHandler struct {
	svc    service.DepartmentService
	logger *zap.Logger
}

// NewDepartmentHandler creates a new department handler.
func NewDepartmentHandler(svc service.DepartmentService, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{svc: svc, logger: logger.Named("department_handler")}
}

// List godoc
// @Summary List the departments of a company
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Success 200 {array} DepartmentResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments [get]
func (h *DepartmentHandler) List(c echo.Context) error {
	companyID, err := pathID(c, "company_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	summaries, err := h.svc.List(c.Request().Context(), actor(c), companyID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	resp := make([]DepartmentResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = newDepartmentResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a department with its employees
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Success 200 {object} DepartmentDetailResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id} [get]
func (h *DepartmentHandler) Get(c echo.Context) error {
	ids, err := pathIDs(c, "company_id", "department_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	tree, err := h.svc.Get(c.Request().Context(), actor(c), ids[0], ids[1])
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, newDepartmentDetailResponse(*tree))
}

// Create godoc
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param request body DepartmentRequest true "Department"
// @Success 201 {object} DepartmentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments [post]
func (h *DepartmentHandler) Create(c echo.Context) error {
	companyID, err := pathID(c, "company_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req DepartmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), actor(c), companyID, req.input())
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, newDepartmentResponse(*created))
}

// Update godoc
// @Summary Replace a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param request body DepartmentRequest true "Department"
// @Success 200 {object} DepartmentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id} [put]
func (h *DepartmentHandler) Update(c echo.Context) error {
	var req DepartmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.update(c, req.input())
}

// Patch godoc
// @Summary Partially update a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Param request body DepartmentPatchRequest true "Department fields"
// @Success 200 {object} DepartmentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id} [patch]
func (h *DepartmentHandler) Patch(c echo.Context) error {
	var req DepartmentPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.update(c, DepartmentRequest(req).input())
}

func (h *DepartmentHandler) update(c echo.Context, input service.DepartmentInput) error {
	ids, err := pathIDs(c, "company_id", "department_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	updated, err := h.svc.Update(c.Request().Context(), actor(c), ids[0], ids[1], input)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, newDepartmentResponse(*updated))
}

// Delete godoc
// @Summary Delete a department with its employees
// @Tags departments
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param department_id path int true "Department ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id}/departments/{department_id} [delete]
func (h *DepartmentHandler) Delete(c echo.Context) error {
	ids, err := pathIDs(c, "company_id", "department_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	if _, err := h.svc.Delete(c.Request().Context(), actor(c), ids[0], ids[1]); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
