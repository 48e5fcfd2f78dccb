package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coachdesk/coachdesk-api/internal/middleware"
	"github.com/coachdesk/coachdesk-api/internal/models"
	"github.com/coachdesk/coachdesk-api/internal/service"
	"github.com/coachdesk/coachdesk-api/internal/store"
)

// Handlers bundles every HTTP handler the API mounts.
type Handlers struct {
	Auth        *AuthHandler
	Enrollments *EnrollmentHandler
	Students    *StudentHandler
	Ledger      *LedgerHandler
	Metrics     *MetricsHandler
	Stores      *store.Stores
	AuthService *service.AuthService
}

// RegisterRoutes mounts the full API surface on the router under prefix.
//
// Public routes: login, the enrollment intake pair, and receipt downloads
// (the download token is its own credential). Everything else sits behind
// JWT with role checks.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/enrollments", h.Enrollments.Intake)
	api.POST("/enrollments/payments/confirm", h.Enrollments.ConfirmPayment)
	api.GET("/downloads", h.Ledger.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(h.AuthService))

	secured.PUT("/auth/password", h.Auth.ChangePassword)

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(string(models.RoleAdmin)))

	admin.GET("/enrollments", h.Enrollments.List)
	admin.GET("/enrollments/:id", h.Enrollments.Get)
	admin.POST("/enrollments/:id/payments", h.Enrollments.RecordPayment)
	admin.POST("/enrollments/:id/convert", h.Enrollments.Convert)
	admin.DELETE("/enrollments/:id", h.Enrollments.Reject)

	admin.GET("/students", h.Students.List)
	admin.POST("/students", h.Students.Create)
	admin.PUT("/students/:id", h.Students.Update)
	admin.POST("/students/:id/payments", h.Students.RecordPayment)
	admin.DELETE("/students/:id", h.Students.Delete)

	admin.GET("/ledger", h.Ledger.Get)
	admin.POST("/ledger/exports", h.Ledger.Export)

	// Students may read their own record and receipts.
	selfOrStaff := secured.Group("")
	selfOrStaff.Use(middleware.RequireRoles(string(models.RoleAdmin), string(models.RoleTeacher), "self"))
	selfOrStaff.GET("/students/:id", h.Students.Get)
	selfOrStaff.GET("/students/:id/receipts/:receiptId", h.Students.Receipt)

	staff := secured.Group("")
	staff.Use(middleware.RequireRoles(string(models.RoleAdmin), string(models.RoleTeacher)))
	registerResource(staff, "/courses", h.Stores.Courses)
	registerResource(staff, "/teachers", h.Stores.Teachers)
	registerResource(staff, "/tests", h.Stores.Tests)
	registerResource(staff, "/marks", h.Stores.Marks)
	registerResource(staff, "/notes", h.Stores.Notes)
	registerResource(staff, "/attendance", h.Stores.Attendance)
}

func registerResource[T store.Entity[T]](rg *gin.RouterGroup, path string, collection *store.Collection[T]) {
	NewResourceHandler(collection).Register(rg.Group(path))
}
