package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hrms-suite/ledger-api/internal/middleware"
	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
)

// Handlers bundles every HTTP handler the router wires up.
type Handlers struct {
	Calendar   *CalendarHandler
	Attendance *AttendanceHandler
	Leave      *LeaveHandler
	Report     *ReportHandler
	Employee   *EmployeeHandler
	Policy     *PolicyHandler
	Settings   *SettingsHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts every endpoint under the API prefix. Observability
// endpoints stay outside the prefix so probes never need a token.
func RegisterRoutes(r *gin.Engine, prefix string, tokens *service.TokenService, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.JWT(tokens))

	managers := middleware.RequireRoles(models.RoleAdmin, models.RoleHR)
	admins := middleware.RequireRoles(models.RoleAdmin)

	calendar := api.Group("/calendar")
	{
		calendar.GET("/holidays", h.Calendar.ListHolidays)
		calendar.GET("/days/:date", h.Calendar.ClassifyDay)
		calendar.GET("/working-days", h.Calendar.GetWorkingDays)
		calendar.POST("/holidays", managers, h.Calendar.AddHoliday)
		calendar.POST("/holidays/toggle", managers, h.Calendar.ToggleHoliday)
		calendar.POST("/working-days/toggle", managers, h.Calendar.ToggleWorkingDay)
	}

	attendance := api.Group("/attendance")
	{
		attendance.POST("/check", h.Attendance.Check)
		attendance.GET("/today", h.Attendance.Today)
		attendance.GET("", h.Attendance.List)
	}

	leaves := api.Group("/leaves")
	{
		leaves.POST("", h.Leave.Create)
		leaves.GET("", h.Leave.List)
		leaves.GET("/:id", h.Leave.Get)
		leaves.PUT("/:id", h.Leave.Update)
		leaves.DELETE("/:id", h.Leave.Delete)
		leaves.PATCH("/:id/status", managers, h.Leave.SetStatus)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/monthly", h.Report.Monthly)
		reports.GET("/monthly/export", h.Report.Export)
	}

	employees := api.Group("/employees")
	{
		employees.GET("", managers, h.Employee.List)
		employees.POST("", managers, h.Employee.Create)
		employees.GET("/:id", middleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleHR)), h.Employee.Get)
		employees.PUT("/:id", managers, h.Employee.Update)
		employees.DELETE("/:id", admins, h.Employee.Archive)
		employees.POST("/:id/restore", admins, h.Employee.Restore)
		employees.GET("/archived", admins, h.Employee.ListArchived)
		employees.DELETE("/archived/:id", admins, h.Employee.PurgeArchived)
	}

	policies := api.Group("/policies")
	{
		policies.GET("", h.Policy.List)
		policies.GET("/:id", h.Policy.Get)
		policies.POST("", managers, h.Policy.Create)
		policies.PUT("/:id", managers, h.Policy.Update)
		policies.DELETE("/:id", managers, h.Policy.Delete)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", admins, h.Settings.Update)
	}
}
