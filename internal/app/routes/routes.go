package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/akademix/internal/app/controllers"
	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	enquiryController *controllers.EnquiryController,
	feeController *controllers.FeeController,
	catalogController *controllers.CatalogController,
	appointmentController *controllers.AppointmentController,
	adminController *controllers.AdminController,
	staffController *controllers.StaffController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      dto.SuccessResponse{Message: "ok"},
			Timestamp: time.Now(),
		})
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// Catalog reads are open to every authenticated role.
		authenticated.GET("/courses", catalogController.ListCourses)

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/dashboard", adminController.Dashboard)
			admin.GET("/users", userController.GetAll)
			admin.POST("/users", userController.Create)
			admin.PUT("/users/:id", userController.Update)
			admin.DELETE("/users/:id", userController.Delete)
			admin.POST("/users/:id/toggle-active", userController.ToggleActive)
			admin.GET("/audit-logs", adminController.AuditLogs)
			admin.GET("/financial-report", adminController.FinancialReport)
			admin.GET("/settings", adminController.GetSettings)
			admin.PUT("/settings", adminController.UpdateSettings)
		}

		// Catalog mutations are admin-only.
		catalogAdmin := authenticated.Group("")
		catalogAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			catalogAdmin.POST("/courses", catalogController.CreateCourse)
			catalogAdmin.PUT("/courses/:id", catalogController.RenameCourse)
			catalogAdmin.DELETE("/courses/:id", catalogController.DeleteCourse)
			catalogAdmin.POST("/courses/:id/subjects", catalogController.CreateSubject)
			catalogAdmin.PUT("/subjects/:id", catalogController.RenameSubject)
			catalogAdmin.DELETE("/subjects/:id", catalogController.DeleteSubject)
		}

		// --- Receptionist routes ---
		reception := authenticated.Group("")
		reception.Use(authMiddleware.RoleRequired(models.RoleReceptionist))
		{
			reception.GET("/enquiries", enquiryController.List)
			reception.POST("/enquiries", enquiryController.Create)
			reception.POST("/enquiries/:id/cancel", enquiryController.Cancel)
			reception.POST("/enquiries/:id/admit", enquiryController.Admit)
			reception.POST("/admissions/direct", enquiryController.DirectAdmission)
			reception.GET("/students/:id", enquiryController.GetStudent)
			reception.GET("/fees", feeController.List)
			reception.GET("/fees/:id", feeController.Get)
			reception.POST("/fees/:id/payments", feeController.RecordPayment)
			reception.POST("/appointments", appointmentController.Schedule)
		}

		// Student and appointment lists are shared between the front desk
		// and the admin side.
		shared := authenticated.Group("")
		shared.Use(authMiddleware.RoleRequired(models.RoleReceptionist, models.RoleAdmin))
		{
			shared.GET("/students", enquiryController.ListStudents)
			shared.GET("/appointments", appointmentController.List)
		}

		// --- Staff routes ---
		staff := authenticated.Group("/staff")
		staff.Use(authMiddleware.RoleRequired(models.RoleStaff))
		{
			staff.GET("/home", staffController.Home)
		}
	}
}
