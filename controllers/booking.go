package controllers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
	"github.com/workbuddy/workbuddy-server/utils"
)

// BookingView is the customer-facing projection of a booking: the raw record
// plus joined display fields, minus bookkeeping columns.
type BookingView struct {
	ID            uint                 `json:"id"`
	BookingDate   time.Time            `json:"booking_date"`
	StartTime     time.Time            `json:"start_time"`
	EndTime       time.Time            `json:"end_time"`
	Location      string               `json:"location"`
	Status        models.BookingStatus `json:"status"`
	TotalPrice    float64              `json:"total_price"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Feedback      string               `json:"feedback,omitempty"`
	Rating        int                  `json:"rating"`
	CreatedAt     time.Time            `json:"created_at"`

	Provider struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"provider"`
	Customer struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer"`
	Service struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"service"`
}

// ToBookingView projects a booking loaded with its Customer, Provider and
// Service associations.
func ToBookingView(b *models.Booking) BookingView {
	v := BookingView{
		ID:            b.ID,
		BookingDate:   b.BookingDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Location:      b.Location,
		Status:        b.Status,
		TotalPrice:    b.TotalPrice,
		PaymentStatus: b.PaymentStatus,
		Feedback:      b.Feedback,
		Rating:        b.Rating,
		CreatedAt:     b.CreatedAt,
	}
	v.Provider.ID = b.ProviderID
	v.Provider.Name = b.Provider.Name
	v.Provider.Email = b.Provider.Email
	v.Customer.ID = b.CustomerID
	v.Customer.Name = b.Customer.Name
	v.Customer.Email = b.Customer.Email
	v.Service.ID = b.ServiceID
	v.Service.Name = b.Service.Name
	v.Service.Price = b.Service.Price
	return v
}

// HasOverlappingBooking reports whether any non-cancelled booking of the
// provider intersects the requested [start,end) interval. excludeID skips
// the booking being rescheduled; pass 0 on creation.
func HasOverlappingBooking(providerID uint, start, end time.Time, excludeID uint) (bool, error) {
	q := db.DB.Where("provider_id = ? AND status <> ?", providerID, models.StatusCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return false, err
	}
	for i := range bookings {
		if utils.Overlaps(bookings[i].StartTime, bookings[i].EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// CreateBooking books a slot against a provider's service.
func CreateBooking(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	type BookingInput struct {
		ProviderID  uint   `json:"provider_id"`
		ServiceID   uint   `json:"service_id"`
		BookingDate string `json:"booking_date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
		Location    string `json:"location"`
	}

	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	// The service must exist and belong to the named provider.
	var service models.Service
	if db.DB.Where("id = ? AND provider_id = ?", input.ServiceID, input.ProviderID).
		First(&service).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found or invalid provider",
		})
	}

	start, end, err := utils.ParseSlot(input.BookingDate, input.StartTime, input.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	overlapping, err := HasOverlappingBooking(input.ProviderID, start, end, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check availability",
		})
	}
	if overlapping {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Time slot unavailable",
		})
	}

	bookingDate, _ := time.Parse("2006-01-02", input.BookingDate)
	booking := models.Booking{
		CustomerID:  customerID,
		ProviderID:  input.ProviderID,
		ServiceID:   input.ServiceID,
		BookingDate: bookingDate,
		StartTime:   start,
		EndTime:     end,
		Location:    input.Location,
		// Priced from the service's rate at creation time.
		TotalPrice: models.TotalPriceFor(service.Price, start, end),
	}

	if err := db.DB.Create(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create booking",
		})
	}

	notifyBookingCreated(&booking, &service)

	if err := db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		First(&booking, booking.ID).Error; err == nil {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"booking": ToBookingView(&booking),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// GetMyBookings lists the caller's bookings, newest first.
func GetMyBookings(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	var bookings []models.Booking
	if err := db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bookings",
		})
	}

	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, ToBookingView(&bookings[i]))
	}
	return c.JSON(fiber.Map{
		"count":    len(views),
		"bookings": views,
	})
}

// GetBookingDetails returns one booking; someone else's id reads as absent.
func GetBookingDetails(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)
	id := c.Params("id")

	var booking models.Booking
	if db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found or access denied",
		})
	}

	return c.JSON(fiber.Map{"booking": ToBookingView(&booking)})
}

// UpdateBooking reschedules a non-terminal booking owned by the caller.
func UpdateBooking(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)
	id := c.Params("id")

	type RescheduleInput struct {
		BookingDate string `json:"booking_date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}

	input := new(RescheduleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	var booking models.Booking
	if db.DB.Where("id = ? AND customer_id = ?", id, customerID).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found or access denied",
		})
	}

	if booking.IsTerminal() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Cannot reschedule a %s booking", booking.Status),
		})
	}

	start, end, err := utils.ParseSlot(input.BookingDate, input.StartTime, input.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	overlapping, err := HasOverlappingBooking(booking.ProviderID, start, end, booking.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check availability",
		})
	}
	if overlapping {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Time slot already booked",
		})
	}

	bookingDate, _ := time.Parse("2006-01-02", input.BookingDate)
	booking.BookingDate = bookingDate
	booking.StartTime = start
	booking.EndTime = end

	if err := db.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update booking",
		})
	}

	return c.JSON(fiber.Map{"booking": booking})
}

// CancelBooking moves a booking into the cancelled terminal state.
func CancelBooking(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)
	id := c.Params("id")

	var booking models.Booking
	if db.DB.Where("id = ? AND customer_id = ?", id, customerID).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found or access denied",
		})
	}

	if booking.Status == models.StatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Completed bookings cannot be cancelled",
		})
	}
	if booking.Status == models.StatusCancelled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking is already cancelled",
		})
	}

	booking.Status = models.StatusCancelled
	if err := db.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel booking",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Booking cancelled successfully",
		"booking": booking,
	})
}

// AddFeedback attaches feedback to a completed booking and folds the rating
// into the provider's average. The booking write and the provider aggregate
// are two independent writes; a failure between them surfaces as an error.
func AddFeedback(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)
	id := c.Params("id")

	type FeedbackInput struct {
		Feedback string `json:"feedback"`
		Rating   int    `json:"rating"`
	}

	input := new(FeedbackInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	if input.Rating < 1 || input.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be between 1 and 5",
		})
	}
	if len(input.Feedback) > 1000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Feedback must be at most 1000 characters",
		})
	}

	var booking models.Booking
	if db.DB.Where("id = ? AND customer_id = ? AND status = ?",
		id, customerID, models.StatusCompleted).
		First(&booking).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found or not eligible for feedback",
		})
	}

	booking.Feedback = input.Feedback
	booking.Rating = input.Rating
	if err := db.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save feedback",
		})
	}

	review := models.Review{
		ProviderID: booking.ProviderID,
		CustomerID: customerID,
		Feedback:   input.Feedback,
		Rating:     input.Rating,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save review",
		})
	}

	var reviews []models.Review
	if err := db.DB.Where("provider_id = ?", booking.ProviderID).Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to recompute provider rating",
		})
	}
	if err := db.DB.Model(&models.User{}).Where("id = ?", booking.ProviderID).
		Update("average_rating", models.AverageRating(reviews)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update provider rating",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Feedback submitted successfully",
		"booking": booking,
	})
}

// CheckSlotAvailability reports whether a slot can be booked. The working
// hours window is checked first; only inside it are existing bookings
// consulted. Unavailability is a normal answer, not an error.
func CheckSlotAvailability(c *fiber.Ctx) error {
	type availabilityQuery struct {
		ProviderID uint   `query:"providerId"`
		Date       string `query:"date"`
		StartTime  string `query:"startTime"`
		EndTime    string `query:"endTime"`
	}

	q := new(availabilityQuery)
	if err := c.QueryParser(q); err != nil || q.ProviderID == 0 || q.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "providerId, date, startTime and endTime are required",
		})
	}

	if !utils.IsClockTime(q.StartTime) || !utils.IsClockTime(q.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid time format. Use HH:MM (24-hour format)",
		})
	}

	start, end, err := utils.ParseSlot(q.Date, q.StartTime, q.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var provider models.User
	if db.DB.Where("id = ? AND role = ?", q.ProviderID, models.RoleProvider).
		First(&provider).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Provider not found",
		})
	}

	if !utils.WithinWorkingHours(provider.WorkStartTime, provider.WorkEndTime, start, end) {
		return c.JSON(fiber.Map{
			"isAvailable": false,
			"message":     "Requested slot is outside working hours",
		})
	}

	overlapping, err := HasOverlappingBooking(q.ProviderID, start, end, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check availability",
		})
	}
	if overlapping {
		return c.JSON(fiber.Map{
			"isAvailable": false,
			"message":     "Time slot is already booked",
		})
	}

	return c.JSON(fiber.Map{
		"isAvailable": true,
		"message":     "Time slot is available",
	})
}

// notifyBookingCreated mails both parties. Best-effort: the booking stands
// even when the mail relay is down.
func notifyBookingCreated(booking *models.Booking, service *models.Service) {
	var customer, provider models.User
	if err := db.DB.First(&customer, booking.CustomerID).Error; err != nil {
		log.Printf("booking %d: failed to load customer for email: %v", booking.ID, err)
		return
	}
	if err := db.DB.First(&provider, booking.ProviderID).Error; err != nil {
		log.Printf("booking %d: failed to load provider for email: %v", booking.ID, err)
		return
	}

	slot := booking.StartTime.Format("2006-01-02 15:04") + " to " + booking.EndTime.Format("15:04")

	customerBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your booking has been created.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Slot:</strong> %s</li>
			<li><strong>Total:</strong> %.2f</li>
		</ul>
		<p>Best regards,<br>The WorkBuddy Team</p>
	`, customer.Name, service.Name, provider.Name, slot, booking.TotalPrice)
	if err := utils.SendEmail(customer.Email, "Booking Confirmation - WorkBuddy", customerBody); err != nil {
		log.Printf("booking %d: failed to email customer: %v", booking.ID, err)
	}

	providerBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have a new booking.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Customer:</strong> %s</li>
			<li><strong>Slot:</strong> %s</li>
		</ul>
		<p>Best regards,<br>The WorkBuddy Team</p>
	`, provider.Name, service.Name, customer.Name, slot)
	if err := utils.SendEmail(provider.Email, "New Booking - WorkBuddy", providerBody); err != nil {
		log.Printf("booking %d: failed to email provider: %v", booking.ID, err)
	}
}
