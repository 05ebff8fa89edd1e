package main

import (
	"log"
	"os"
	"time"

	"jengaestate-server/handlers/admin"
	"jengaestate-server/handlers/agents"
	"jengaestate-server/handlers/auth"
	"jengaestate-server/handlers/bookings"
	"jengaestate-server/handlers/dashboard"
	"jengaestate-server/handlers/favorites"
	"jengaestate-server/handlers/messages"
	"jengaestate-server/handlers/notifications"
	"jengaestate-server/handlers/payments"
	"jengaestate-server/handlers/properties"
	"jengaestate-server/migrations"
	"jengaestate-server/models"
	"jengaestate-server/seed"
	"jengaestate-server/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	r := gin.Default()

	webOrigin := os.Getenv("WEB_ORIGIN")
	if webOrigin == "" {
		webOrigin = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{webOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	utils.ConnectDatabase()

	migrations.MigrateCore()
	migrations.MigrateEngagement()
	migrations.MigratePayments()

	// Seed Initial Data
	if err := seed.SeedAdmin(); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	if err := seed.SeedSampleAgents(); err != nil {
		log.Fatalf("Failed to seed agents: %v", err)
	}

	// Public routes
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/logout", auth.Logout)
	r.POST("/auth/request-otp", auth.RequestOTP)
	r.POST("/auth/verify-otp", auth.VerifyOTPReset)
	r.POST("/auth/reset-password", auth.ResetPassword)

	// Catalog reads are public; views are attributed when a session exists
	r.GET("/properties", properties.ListProperties)
	r.GET("/properties/:id", properties.GetProperty)
	r.GET("/agents", agents.ListAgents)

	// Provider callbacks authenticate themselves
	r.POST("/payments/stripe/webhook", payments.HandleStripeWebhook)
	r.POST("/payments/mpesa/callback", payments.MpesaCallback)

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/properties", auth.RequireRoles(models.RoleAgent, models.RoleLandlord, models.RoleAdmin), properties.CreateProperty)
		protected.PUT("/properties/:id", properties.UpdateProperty)
		protected.DELETE("/properties/:id", properties.DeleteProperty)
		protected.POST("/properties/:id/reviews", properties.CreateReview)

		protected.POST("/agents", auth.RequireRoles(models.RoleAgent, models.RoleAdmin), agents.UpdateProfile)
		protected.GET("/agents/stats", auth.RequireRoles(models.RoleAgent, models.RoleAdmin), agents.Stats)

		protected.GET("/admin", auth.RequireRoles(models.RoleAdmin), admin.AdminGet)
		protected.POST("/admin", auth.RequireRoles(models.RoleAdmin), admin.AdminPost)

		protected.GET("/user/dashboard", dashboard.User)
		protected.GET("/landlord/dashboard", auth.RequireRoles(models.RoleLandlord, models.RoleAdmin), dashboard.Landlord)

		protected.POST("/bookings", bookings.CreateBooking)
		protected.GET("/bookings", bookings.ListBookings)
		protected.PUT("/bookings/:id", bookings.UpdateBooking)

		protected.POST("/messages", messages.SendMessage)
		protected.GET("/messages", messages.ListMessages)
		protected.PUT("/messages/:id/read", messages.MarkMessageRead)

		protected.POST("/favorites", favorites.SaveFavorite)
		protected.GET("/favorites", favorites.ListFavorites)
		protected.DELETE("/favorites/:id", favorites.RemoveFavorite)

		protected.POST("/payments/stripe", payments.CreateStripePayment)
		protected.POST("/payments/mpesa", payments.InitiateMpesaPayment)
		protected.GET("/payments", payments.ListPayments)
		protected.GET("/payments/:id/verify", payments.VerifyPayment)

		notifications.RegisterNotificationsRoutes(protected)
	}

	// Browser page routes redirect instead of answering 401
	pages := r.Group("/dashboard")
	pages.Use(auth.PageGate(), auth.AuthMiddleware())
	{
		pages.GET("/user", dashboard.User)
		pages.GET("/landlord", dashboard.Landlord)
		pages.GET("/agent", agents.Stats)
		pages.GET("/admin", admin.AdminGet)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
