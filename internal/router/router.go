package router

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"workforce/internal/auth"
	apperrors "workforce/internal/errors"
	"workforce/internal/handler"
	"workforce/internal/logging"
	"workforce/internal/metrics"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Company    *handler.CompanyHandler
	Department *handler.DepartmentHandler
	Employee   *handler.EmployeeHandler
}

// Options carries the infrastructure the router wires into middleware.
type Options struct {
	Logger     *zap.Logger
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface
	Metrics    *metrics.Metrics
	// Gatherer backs /metrics; nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, h Handlers) {
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(opts.Metrics.Middleware())
	e.Use(logging.RequestLogger(opts.Logger))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: opts.JWT.Secret(),
			ContextKey: auth.ContextKeyToken,
			NewClaimsFunc: func(echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(echo.Context, error) error {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: apperrors.ErrUnauthorized.Error(),
					Code:  "UNAUTHORIZED",
				})
			},
		}),
		auth.ActorMiddleware(opts.TokenStore, opts.Logger),
	)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/me", h.User.Me)
	secured.PATCH("/me", h.User.UpdateMe)

	companies := secured.Group("/companies")
	companies.GET("", h.Company.List)
	companies.POST("", h.Company.Create)
	companies.GET("/:company_id", h.Company.Get)
	companies.PUT("/:company_id", h.Company.Update)
	companies.PATCH("/:company_id", h.Company.Patch)
	companies.DELETE("/:company_id", h.Company.Delete)

	departments := companies.Group("/:company_id/departments")
	departments.GET("", h.Department.List)
	departments.POST("", h.Department.Create)
	departments.GET("/:department_id", h.Department.Get)
	departments.PUT("/:department_id", h.Department.Update)
	departments.PATCH("/:department_id", h.Department.Patch)
	departments.DELETE("/:department_id", h.Department.Delete)

	employees := departments.Group("/:department_id/employees")
	employees.GET("", h.Employee.List)
	employees.POST("", h.Employee.Create)
	employees.GET("/:employee_id", h.Employee.Get)
	employees.PUT("/:employee_id", h.Employee.Update)
	employees.PATCH("/:employee_id", h.Employee.Patch)
	employees.DELETE("/:employee_id", h.Employee.Delete)
	employees.POST("/:employee_id/update_status", h.Employee.UpdateStatus)
	employees.GET("/:employee_id/history", h.Employee.History)
}
