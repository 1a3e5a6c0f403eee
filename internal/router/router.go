package router

import (
	"time"

	"trixtech/config"
	"trixtech/internal/handler"
	"trixtech/internal/middleware"
	"trixtech/internal/repository"
	"trixtech/internal/service"
	"trixtech/pkg/cloudinary"
	"trixtech/pkg/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		MaxAge:       12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, time.Minute)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	timeslotRepo := repository.NewTimeSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	gateway := stripe.NewClient(cfg.Stripe.SecretKey)
	authSvc := service.NewAuthService(cfg, userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, timeslotRepo, serviceRepo, adminLogRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo, timeslotRepo, adminLogRepo, gateway, cfg.Stripe.Currency)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	userHandler := handler.NewUserHandler(userRepo, bookingRepo, reviewRepo)
	serviceHandler := handler.NewServiceHandler(serviceRepo, timeslotRepo, bookingRepo)
	timeslotHandler := handler.NewTimeSlotHandler(timeslotRepo, serviceRepo)
	bookingHandler := handler.NewBookingHandler(bookingSvc, bookingRepo)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, paymentRepo)
	webhookHandler := handler.NewPaymentWebhookHandler(paymentSvc, &cfg.Stripe)
	reviewHandler := handler.NewReviewHandler(reviewRepo, bookingRepo, adminLogRepo)
	adminHandler := handler.NewAdminHandler(adminRepo, adminLogRepo, bookingSvc)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/verify", authMw, authHandler.Verify)
		}

		users := api.Group("/users")
		users.Use(authMw)
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", authHandler.ChangePassword)
			users.GET("/list", adminMw, userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.DELETE("/:id", userHandler.Delete)
		}

		services := api.Group("/services")
		services.Use(authMw)
		{
			services.GET("", serviceHandler.List)
			services.GET("/:id", serviceHandler.Get)
			services.POST("", adminMw, serviceHandler.Create)
			services.PUT("/:id", adminMw, serviceHandler.Update)
			services.DELETE("/:id", adminMw, serviceHandler.Delete)
		}

		timeslots := api.Group("/timeslots")
		timeslots.Use(authMw)
		{
			timeslots.GET("", timeslotHandler.List)
			timeslots.POST("", adminMw, timeslotHandler.Create)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authMw)
		{
			bookings.GET("", bookingHandler.List)
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/:id", bookingHandler.Update)
			bookings.DELETE("/:id", bookingHandler.Cancel)
		}

		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("/create-intent", paymentHandler.CreateIntent)
			payments.POST("/confirm", paymentHandler.Confirm)
			payments.GET("/list", paymentHandler.List)
			payments.POST("/refund", adminMw, paymentHandler.Refund)
		}

		reviews := api.Group("/reviews")
		reviews.Use(authMw)
		{
			reviews.POST("", reviewHandler.Create)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/dashboard/stats", adminHandler.DashboardStats)
			admin.PUT("/bookings/status", adminHandler.SetBookingStatus)
			admin.POST("/payments/reconcile", paymentHandler.Reconcile)
			admin.GET("/logs", adminHandler.Logs)
			admin.GET("/system/health", adminHandler.SystemHealth)
			admin.GET("/reviews", reviewHandler.List)
			admin.PUT("/reviews/:id/approve", reviewHandler.Approve)
			admin.DELETE("/reviews/:id", reviewHandler.Delete)
			admin.POST("/uploads/service-image", uploadHandler.UploadServiceImage)
		}

		// Gateway webhook: authenticated by signature, not by JWT.
		api.POST("/webhooks/stripe", webhookHandler.Handle)
	}

	return r
}
