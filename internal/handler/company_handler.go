package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workforce/internal/service"
)

// CompanyHandler handles company endpoints.
type CompanyHandler struct {
	svc    service.CompanyService
	logger *zap.Logger
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(svc service.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{svc: svc, logger: logger.Named("company_handler")}
}

// List godoc
// @Summary List companies
// @Description Admins get every company in the flat schema plus global statistics. Other roles get the companies they manage with nested departments and employees.
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CompanyListResponse "admin schema"
// @Success 200 {array} CompanyDetailResponse "manager schema"
// @Failure 401 {object} errors.ErrorResponse
// @Router /companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	listing, err := h.svc.List(c.Request().Context(), actor(c))
	if err != nil {
		return fail(c, h.logger, err)
	}

	switch listing.Scope {
	case service.ScopeAll:
		companies := make([]CompanyResponse, len(listing.Companies))
		for i, t := range listing.Companies {
			companies[i] = newCompanyResponse(t.CompanySummary)
		}
		return c.JSON(http.StatusOK, CompanyListResponse{Statistics: listing.Statistics, Companies: companies})
	default:
		companies := make([]CompanyDetailResponse, len(listing.Companies))
		for i, t := range listing.Companies {
			companies[i] = newCompanyDetailResponse(t)
		}
		return c.JSON(http.StatusOK, companies)
	}
}

// Get godoc
// @Summary Get a company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Success 200 {object} CompanyDetailResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "company_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	tree, err := h.svc.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, h.logger, err)
	}
	if a := actor(c); a != nil && a.Role.IsAdmin() {
		return c.JSON(http.StatusOK, newCompanyResponse(tree.CompanySummary))
	}
	return c.JSON(http.StatusOK, newCompanyDetailResponse(*tree))
}

// Create godoc
// @Summary Create a company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompanyRequest true "Company"
// @Success 201 {object} CompanyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	var req CompanyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), actor(c), req.input())
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, newCompanyResponse(*created))
}

// Update godoc
// @Summary Replace a company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param request body CompanyRequest true "Company"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	var req CompanyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.update(c, req.input())
}

// Patch godoc
// @Summary Partially update a company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Param request body CompanyPatchRequest true "Company fields"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id} [patch]
func (h *CompanyHandler) Patch(c echo.Context) error {
	var req CompanyPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.update(c, CompanyRequest(req).input())
}

func (h *CompanyHandler) update(c echo.Context, input service.CompanyInput) error {
	id, err := pathID(c, "company_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	updated, err := h.svc.Update(c.Request().Context(), actor(c), id, input)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, newCompanyResponse(*updated))
}

// Delete godoc
// @Summary Delete a company with its departments and employees
// @Tags companies
// @Security BearerAuth
// @Param company_id path int true "Company ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /companies/{company_id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "company_id")
	if err != nil {
		return fail(c, h.logger, err)
	}
	if _, err := h.svc.Delete(c.Request().Context(), actor(c), id); err != nil {
		return fail(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
