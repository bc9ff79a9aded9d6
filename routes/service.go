package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/controllers"
	"github.com/workbuddy/workbuddy-server/middleware"
	"github.com/workbuddy/workbuddy-server/models"
)

// SetupServiceRoutes configures the service catalog routes. Browsing is open
// to any authenticated account; mutation is provider-only.
func SetupServiceRoutes(app *fiber.App) {
	services := app.Group("/services", middleware.Protected())

	services.Get("/", controllers.GetAllServices)
	services.Get("/:id", controllers.GetService)

	services.Post("/", middleware.RequireRole(models.RoleProvider), controllers.CreateService)
	services.Put("/:id", middleware.RequireRole(models.RoleProvider), controllers.UpdateService)
	services.Delete("/:id", middleware.RequireRole(models.RoleProvider), controllers.DeleteService)
}
