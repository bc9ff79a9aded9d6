package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/controllers"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
)

// GetAllBookings lists every booking in the system, optionally filtered by
// status, customer or provider.
func GetAllBookings(c *fiber.Ctx) error {
	q := db.DB.Preload("Customer").Preload("Provider").Preload("Service")

	if status := c.Query("status"); status != "" {
		if !models.BookingStatus(status).IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status filter",
			})
		}
		q = q.Where("status = ?", status)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if providerID := c.Query("providerId"); providerID != "" {
		q = q.Where("provider_id = ?", providerID)
	}

	var bookings []models.Booking
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bookings",
		})
	}

	views := make([]controllers.BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, controllers.ToBookingView(&bookings[i]))
	}
	return c.JSON(fiber.Map{
		"count":    len(views),
		"bookings": views,
	})
}

// GetBooking returns any booking by id, regardless of owner.
func GetBooking(c *fiber.Ctx) error {
	id := c.Params("id")

	var booking models.Booking
	if db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		First(&booking, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	return c.JSON(fiber.Map{"booking": controllers.ToBookingView(&booking)})
}

// DeleteBooking removes a booking record entirely.
func DeleteBooking(c *fiber.Ctx) error {
	id := c.Params("id")

	var booking models.Booking
	if db.DB.First(&booking, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	if err := db.DB.Unscoped().Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete booking",
		})
	}

	return c.JSON(fiber.Map{"message": "Booking deleted successfully"})
}
