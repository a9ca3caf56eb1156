package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/controllers"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	linkController *controllers.GuardianLinkController,
	planController *controllers.PlanController,
	eventController *controllers.EventController,
	resourceController *controllers.ResourceController,
	companyController *controllers.CompanyController,
	invitationController *controllers.InvitationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/register/company", authController.RegisterCompany)
		auth.POST("/login", authController.Login)
	}

	// Registration forms check codes before submitting
	v1.GET("/invitations/validate/:code", invitationController.ValidateCode)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetMe)

		// Guardian links
		links := authenticated.Group("/guardian-links")
		{
			links.POST("", linkController.RequestLink)
			links.GET("", linkController.ListMine)
			links.GET("/children", linkController.ListChildren)

			linksTutorProtected := links.Group("")
			linksTutorProtected.Use(middleware.RoleRequired(models.RoleTutor, models.RoleAdmin))
			{
				linksTutorProtected.GET("/pending", linkController.ListPending)
				linksTutorProtected.PATCH("/:id/decision", linkController.DecideLink)
			}
		}

		// Orientation plans. Visibility and modification rules are enforced
		// in the service layer, so the routes stay open to all roles.
		plans := authenticated.Group("/plans")
		{
			plans.GET("", planController.ListPlans)
			plans.GET("/:id", planController.GetPlan)
			plans.POST("/items/:itemId/tasks", planController.AddTask)
			plans.PATCH("/items/:itemId/status", planController.SetItemStatus)
			plans.PATCH("/tasks/:taskId/status", planController.SetTaskStatus)

			plansTutorProtected := plans.Group("")
			plansTutorProtected.Use(middleware.RoleRequired(models.RoleTutor, models.RoleAdmin))
			{
				plansTutorProtected.POST("", planController.CreatePlan)
				plansTutorProtected.POST("/:id/items", planController.AddItem)
			}
		}

		// Events
		events := authenticated.Group("/events")
		{
			events.GET("", eventController.ListEvents)
			events.GET("/:id", eventController.GetEvent)
			events.POST("", eventController.CreateEvent)
			events.POST("/:id/publish", eventController.PublishEvent)
			events.POST("/:id/cancel", eventController.CancelEvent)
			events.GET("/:id/registrations", eventController.ListRegistrations)

			eventsStudentProtected := events.Group("")
			eventsStudentProtected.Use(middleware.RoleRequired(models.RoleStudent))
			{
				eventsStudentProtected.POST("/:id/registrations", eventController.Register)
				eventsStudentProtected.DELETE("/:id/registrations", eventController.CancelRegistration)
				eventsStudentProtected.POST("/:id/waitlist", eventController.JoinWaitlist)
			}

			eventsTutorProtected := events.Group("")
			eventsTutorProtected.Use(middleware.RoleRequired(models.RoleTutor, models.RoleAdmin))
			{
				eventsTutorProtected.PATCH("/:id/decision", eventController.DecideEvent)
				eventsTutorProtected.POST("/:id/attendance", eventController.MarkAttendance)
			}
		}

		// Resources. Creation stays open because companies submit resources
		// too; the service decides who may author what.
		resources := authenticated.Group("/resources")
		{
			resources.GET("", resourceController.ListResources)
			resources.GET("/:id", resourceController.GetResource)
			resources.POST("", resourceController.CreateResource)
			resources.PATCH("/:id", resourceController.UpdateResource)

			resourcesTutorProtected := resources.Group("")
			resourcesTutorProtected.Use(middleware.RoleRequired(models.RoleTutor, models.RoleAdmin))
			{
				resourcesTutorProtected.POST("/:id/publish", resourceController.PublishResource)
				resourcesTutorProtected.PATCH("/:id/decision", resourceController.DecideResource)
			}
		}

		// Companies
		companies := authenticated.Group("/companies")
		{
			companies.GET("/me", companyController.GetOwnCompany)
			companies.GET("/:id", companyController.GetCompany)
			companies.PATCH("/:id", companyController.UpdateCompany)
			companies.GET("", companyController.ListCompanies)

			companiesAdminProtected := companies.Group("")
			companiesAdminProtected.Use(middleware.RoleRequired(models.RoleAdmin))
			{
				companiesAdminProtected.PATCH("/:id/decision", companyController.DecideCompany)
				companiesAdminProtected.POST("/:id/suspend", companyController.SuspendCompany)
			}
		}

		// Invitations
		invitations := authenticated.Group("/invitations")
		invitations.Use(middleware.RoleRequired(models.RoleTutor, models.RoleAdmin))
		{
			invitations.POST("", invitationController.CreateInvitation)
			invitations.GET("", invitationController.ListInvitations)
			invitations.DELETE("/:id", invitationController.RevokeInvitation)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
