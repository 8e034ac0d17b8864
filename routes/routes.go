package routes

import (
	"beautyflow-backend/config"
	"beautyflow-backend/controllers"
	"beautyflow-backend/models"
	"beautyflow-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.RegisterSalon)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public discovery and booking, no token required.
	public := r.Group("/public")
	{
		public.GET("/salons", controllers.GetPublicSalons)
		public.GET("/salons/:id", controllers.GetPublicSalon)
		public.GET("/salons/:id/services", controllers.GetPublicSalonServices)
		public.GET("/salons/:id/staff", controllers.GetPublicSalonStaff)
		public.GET("/salons/:id/slots", controllers.GetAvailableSlots)
		public.POST("/salons/:id/book", controllers.BookAppointment)
		public.POST("/staff-register", controllers.StaffRegister)
		public.POST("/chat", controllers.PublicChat)
	}

	// Salon owner routes.
	patron := r.Group("/patron")
	patron.Use(utils.AuthMiddleware(), utils.RequireRole(models.RolePatron, models.RoleSuperAdmin))
	{
		patron.GET("/dashboard", controllers.GetPatronDashboard)

		appointments := patron.Group("/appointments")
		{
			appointments.GET("", controllers.GetAppointments)
			appointments.POST("", controllers.CreateAppointment)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
			appointments.POST("/:id/complete", controllers.CompleteAppointment)
		}

		services := patron.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
			services.GET("/:id/recipe", controllers.GetServiceRecipe)
			services.PUT("/:id/recipe", controllers.UpdateServiceRecipe)
			services.DELETE("/:id/recipe/:stockId", controllers.DeleteServiceRecipeItem)
		}

		staff := patron.Group("/staff")
		{
			staff.GET("", controllers.GetStaff)
			staff.POST("", controllers.AddStaff)
			staff.PATCH("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
			staff.GET("/pending", controllers.GetPendingStaff)
			staff.POST("/:id/approve", controllers.ApproveStaff)
			staff.POST("/:id/reject", controllers.RejectStaff)
			staff.POST("/:id/commissions", controllers.SetCommissionOverrides)
			staff.POST("/:id/advances", controllers.AddStaffAdvance)
			staff.GET("/:id/earnings", controllers.GetStaffEarnings)
		}

		stock := patron.Group("/stock")
		{
			stock.GET("", controllers.GetStock)
			stock.GET("/brands", controllers.GetStockBrands)
			stock.POST("", controllers.CreateStockItem)
			stock.POST("/:id/count", controllers.RecordStockCount)
			stock.POST("/bulk-count", controllers.RecordBulkStockCount)
			stock.GET("/shrinkage", controllers.GetShrinkageReports)
			stock.GET("/low", controllers.GetLowStock)
		}

		finance := patron.Group("/finance")
		{
			finance.GET("/stats", controllers.GetFinanceStats)
			finance.POST("/transactions", controllers.CreateTransaction)
			finance.DELETE("/transactions/:id", controllers.DeleteTransaction)
		}

		settings := patron.Group("/settings")
		{
			settings.GET("", controllers.GetSettings)
			settings.PATCH("", controllers.UpdateSalonProfile)
			settings.POST("/hours", controllers.UpdateWorkingHours)
			settings.PATCH("/password", controllers.ChangePassword)
		}

		patron.POST("/chat", controllers.PatronChat)
	}

	// Staff self-service routes.
	staff := r.Group("/staff")
	staff.Use(utils.AuthMiddleware(), utils.RequireRole(models.RoleStaff))
	{
		staff.GET("/dashboard", controllers.GetStaffDashboard)
		staff.GET("/appointments", controllers.GetMyAppointments)
		staff.POST("/appointments/:id/complete", controllers.CompleteOwnAppointment)
		staff.POST("/appointments/:id/cancel", controllers.CancelOwnAppointment)
		staff.POST("/chat", controllers.StaffChat)
	}

	superadmin := r.Group("/superadmin")
	superadmin.Use(utils.AuthMiddleware(), utils.RequireRole(models.RoleSuperAdmin))
	{
		superadmin.GET("/salons/pending", controllers.GetPendingSalons)
		superadmin.GET("/salons", controllers.GetAllSalons)
		superadmin.POST("/salons/:id/approve", controllers.ApproveSalon)
		superadmin.POST("/salons/:id/toggle-status", controllers.ToggleSalonStatus)
		superadmin.GET("/analytics", controllers.GetPlatformAnalytics)
	}

	return r
}
