package provider

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/controllers"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
)

// GetProviderBookings lists the bookings addressed to the calling provider,
// optionally filtered by status.
func GetProviderBookings(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	q := db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		Where("provider_id = ?", providerID)

	if status := c.Query("status"); status != "" {
		if !models.BookingStatus(status).IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status filter",
			})
		}
		q = q.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
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

// GetProviderBooking returns one of the provider's own bookings.
func GetProviderBooking(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)
	id := c.Params("id")

	var booking models.Booking
	if db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		Where("id = ? AND provider_id = ?", id, providerID).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found or access denied",
		})
	}

	return c.JSON(fiber.Map{"booking": controllers.ToBookingView(&booking)})
}

// UpdateBookingStatus sets a booking's status. Any member of the status enum
// is accepted as a target; terminal states simply stop accepting further
// customer-side changes.
func UpdateBookingStatus(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)
	id := c.Params("id")

	type StatusInput struct {
		Status models.BookingStatus `json:"status"`
	}

	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}
	if !input.Status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking status",
		})
	}

	var booking models.Booking
	if db.DB.Where("id = ? AND provider_id = ?", id, providerID).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found or access denied",
		})
	}

	booking.Status = input.Status
	if err := db.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update booking status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Booking status updated",
		"booking": booking,
	})
}

// GetProviderSchedule returns the provider's non-cancelled bookings for a
// single day, ordered by start time.
func GetProviderSchedule(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	date := c.Query("date")
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date. Use YYYY-MM-DD",
		})
	}

	var bookings []models.Booking
	if err := db.DB.Preload("Customer").Preload("Service").
		Where("provider_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			providerID, models.StatusCancelled, day, day.Add(24*time.Hour)).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch schedule",
		})
	}

	views := make([]controllers.BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, controllers.ToBookingView(&bookings[i]))
	}
	return c.JSON(fiber.Map{
		"date":     date,
		"count":    len(views),
		"bookings": views,
	})
}
