package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marmushop/booking-api/internal/config"
	"github.com/marmushop/booking-api/internal/handlers"
	infraRepo "github.com/marmushop/booking-api/internal/infra/repository"
	"github.com/marmushop/booking-api/internal/media"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/models"
	"github.com/marmushop/booking-api/internal/notify"
	"github.com/marmushop/booking-api/internal/otp"
	ucBooking "github.com/marmushop/booking-api/internal/usecase/booking"
)

type Deps struct {
	DB         *gorm.DB
	Config     *config.Config
	OTPStore   *otp.Store
	Mailer     notify.Mailer
	Dispatcher *notify.Dispatcher
	Gallery    *media.Gallery
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db := deps.DB
	cfg := deps.Config

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	// ======================================================
	// USE CASES (BOOKING)
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(bookingRepo)

	cancelBookingUC := ucBooking.NewCancelAppointment(
		bookingRepo,
		deps.Dispatcher,
	)

	setUnavailabilityUC := ucBooking.NewSetUnavailability(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, deps.OTPStore, deps.Mailer)

	bookingHandler := handlers.NewBookingHandler(
		db,
		bookingRepo,
		availabilityUC,
		createBookingUC,
		cancelBookingUC,
	)

	staffHandler := handlers.NewStaffHandler(db, setUnavailabilityUC)
	feedbackHandler := handlers.NewFeedbackHandler(db)
	adminHandler := handlers.NewAdminHandler(db, bookingRepo, deps.Dispatcher)
	galleryHandler := handlers.NewGalleryHandler(deps.Gallery)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/signup/otp", authHandler.SignupSendOTP)
		api.POST("/auth/signup", authHandler.SignupVerify)
		api.POST("/auth/forgot/otp", authHandler.ForgotSendOTP)
		api.POST("/auth/forgot/reset", authHandler.ResetPassword)

		api.GET("/staff", staffHandler.ListByService)
		api.GET("/appointments/slots", bookingHandler.AvailableSlots)
		api.GET("/feedback", feedbackHandler.List)
		api.GET("/gallery", galleryHandler.List)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", authHandler.Me)
			secured.POST("/auth/password", authHandler.ChangePassword)

			secured.POST("/appointments", bookingHandler.Create)
			secured.GET("/appointments", bookingHandler.ListForUser)
			secured.POST("/appointments/:id/cancel", bookingHandler.Cancel)

			secured.POST("/feedback", feedbackHandler.Create)
		}

		// ------------------------------
		// STAFF
		// ------------------------------
		staff := api.Group("/staff")
		staff.Use(
			middleware.AuthMiddleware(cfg),
			middleware.RequireRoles(models.RoleBarber, models.RoleTattooArtist),
		)
		{
			staff.GET("/appointments", staffHandler.ListAppointments)
			staff.GET("/unavailability", staffHandler.ListUnavailability)
			staff.POST("/unavailability", staffHandler.SetUnavailability)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(
			middleware.AuthMiddleware(cfg),
			middleware.RequireRoles(models.RoleAdmin),
		)
		{
			admin.GET("/dashboard", adminHandler.DashboardData)
			admin.GET("/appointments/summary", adminHandler.AppointmentsSummary)
			admin.GET("/reports/monthly", adminHandler.MonthlyReport)

			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.AddUser)

			admin.GET("/appointments", adminHandler.ListAppointments)
			admin.PUT("/appointments/:id/status", adminHandler.UpdateAppointmentStatus)
			admin.GET("/unavailability", adminHandler.ListUnavailability)

			admin.GET("/feedback", adminHandler.ListFeedback)
			admin.POST("/feedback/:id/reply", adminHandler.ReplyFeedback)
			admin.POST("/feedback/:id/resolve", adminHandler.ResolveFeedback)

			admin.POST("/gallery", galleryHandler.Upload)
		}
	}
}
