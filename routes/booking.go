package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/controllers"
	"github.com/workbuddy/workbuddy-server/controllers/admin"
	"github.com/workbuddy/workbuddy-server/controllers/provider"
	"github.com/workbuddy/workbuddy-server/middleware"
	"github.com/workbuddy/workbuddy-server/models"
)

// SetupBookingRoutes configures all booking related routes. Static paths are
// registered before the /:id parameter so they are not shadowed by it.
func SetupBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.Protected())

	bookings.Get("/availability", controllers.CheckSlotAvailability)

	// Provider-side booking management
	prov := bookings.Group("/provider", middleware.RequireRole(models.RoleProvider))
	prov.Get("/", provider.GetProviderBookings)
	prov.Get("/schedule", provider.GetProviderSchedule)
	prov.Get("/:id", provider.GetProviderBooking)
	prov.Patch("/:id/status", provider.UpdateBookingStatus)

	// Admin oversight
	adm := bookings.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adm.Get("/", admin.GetAllBookings)
	adm.Get("/:id", admin.GetBooking)
	adm.Delete("/:id", admin.DeleteBooking)

	// Customer-side booking lifecycle
	bookings.Post("/", controllers.CreateBooking)
	bookings.Get("/", controllers.GetMyBookings)
	bookings.Get("/:id", controllers.GetBookingDetails)
	bookings.Put("/:id", controllers.UpdateBooking)
	bookings.Put("/:id/cancel", controllers.CancelBooking)
	bookings.Put("/:id/feedback", controllers.AddFeedback)
}

// SetupAdminRoutes configures user administration routes.
func SetupAdminRoutes(app *fiber.App) {
	users := app.Group("/admin/users", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))

	users.Get("/", admin.GetAllUsers)
	users.Get("/:id", admin.GetUser)
	users.Patch("/:id/role", admin.UpdateUserRole)
	users.Delete("/:id", admin.DeleteUser)
}
