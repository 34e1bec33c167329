package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workforce/internal/auth"
	apperrors "workforce/internal/errors"
	"workforce/internal/service"
)

// fail renders err as an ErrorResponse. Only unexpected errors are logged;
// domain errors are part of the API.
func fail(c echo.Context, logger *zap.Logger, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.MapErrorToHTTP(err).ToErrorResponse())
	}
	return nil
}

// pathID parses a positive numeric path parameter. A malformed id cannot
// address anything and is reported as missing.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrNotFound
	}
	return uint(id), nil
}

func pathIDs(c echo.Context, names ...string) ([]uint, error) {
	ids := make([]uint, len(names))
	for i, name := range names {
		id, err := pathID(c, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func employeePath(c echo.Context) (service.EmployeePath, error) {
	ids, err := pathIDs(c, "company_id", "department_id", "employee_id")
	if err != nil {
		return service.EmployeePath{}, err
	}
	return service.EmployeePath{CompanyID: ids[0], DepartmentID: ids[1], EmployeeID: ids[2]}, nil
}

func actor(c echo.Context) *auth.Actor {
	return auth.ActorFrom(c)
}
