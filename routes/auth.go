package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/controllers"
	"github.com/workbuddy/workbuddy-server/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes. Token and OTP endpoints are rate limited per IP.
	limiter := middleware.RateLimit(5, time.Minute)
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/verify-email", limiter, controllers.VerifyEmail)
	auth.Post("/resend-verification", limiter, controllers.ResendEmailVerification)
	auth.Post("/forgot-password", limiter, controllers.ForgotPassword)
	auth.Post("/reset-password", limiter, controllers.ResetPassword)
	auth.Post("/send-otp", limiter, controllers.SendOTP)
	auth.Post("/verify-otp", limiter, controllers.VerifyOTP)

	// Protected routes
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
	auth.Get("/me", middleware.Protected(), controllers.GetProfile)
	auth.Put("/me", middleware.Protected(), controllers.UpdateProfile)
	auth.Patch("/me/profile-picture", middleware.Protected(), controllers.UpdateProfilePicture)

	// Provider directory
	app.Get("/providers", middleware.Protected(), controllers.GetAllProviders)
}
