package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
	"gorm.io/gorm"
)

func setupBookingDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// An in-memory database exists per connection; pin the pool to one.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.Review{},
		&models.Message{},
	))
	db.DB = gdb
}

// asUser stands in for the auth middleware's success handler.
func asUser(id uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", id)
		return c.Next()
	}
}

func bookingTestApp(callerID uint) *fiber.App {
	app := fiber.New()
	app.Post("/bookings", asUser(callerID), CreateBooking)
	app.Get("/bookings/:id", asUser(callerID), GetBookingDetails)
	app.Put("/bookings/:id", asUser(callerID), UpdateBooking)
	app.Put("/bookings/:id/cancel", asUser(callerID), CancelBooking)
	app.Put("/bookings/:id/feedback", asUser(callerID), AddFeedback)
	return app
}

func seedAccounts(t *testing.T) (customer, provider models.User, service models.Service) {
	t.Helper()
	customer = models.User{Name: "Alex", Email: "alex@example.com", Role: models.RoleUser}
	require.NoError(t, db.DB.Create(&customer).Error)
	provider = models.User{Name: "Dana", Email: "dana@example.com", Role: models.RoleProvider}
	require.NoError(t, db.DB.Create(&provider).Error)
	service = models.Service{Name: "Deep Clean", Category: "cleaning", Price: 50, DurationHours: 1, ProviderID: provider.ID}
	require.NoError(t, db.DB.Create(&service).Error)
	return customer, provider, service
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bookingPayload(provider models.User, service models.Service, start, end string) fiber.Map {
	return fiber.Map{
		"provider_id":  provider.ID,
		"service_id":   service.ID,
		"booking_date": "2026-09-10",
		"start_time":   start,
		"end_time":     end,
		"location":     "Berlin",
	}
}

func TestCreateBookingConflicts(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	resp := doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "10:00", "11:00"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Overlapping slot for the same provider is rejected
	resp = doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "10:30", "11:30"))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Back-to-back slot shares an endpoint and books fine
	resp = doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "11:00", "12:00"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateBookingValidation(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	// Unknown service/provider pairing
	payload := bookingPayload(provider, service, "10:00", "11:00")
	payload["service_id"] = service.ID + 99
	resp := doJSON(t, app, "POST", "/bookings", payload)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "25:00", "11:00"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "11:00", "10:00"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateBookingPricing(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	resp := doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "10:00", "12:30"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking models.Booking
	require.NoError(t, db.DB.First(&booking).Error)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, models.PaymentUnpaid, booking.PaymentStatus)
	assert.Equal(t, 125.0, booking.TotalPrice)
}

func TestCancelCompletedBooking(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	booking := models.Booking{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		StartTime:  time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
		Status:     models.StatusCompleted,
	}
	require.NoError(t, db.DB.Create(&booking).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/bookings/%d/cancel", booking.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var got models.Booking
	require.NoError(t, db.DB.First(&got, booking.ID).Error)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestFeedbackRatingOutOfRange(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	booking := models.Booking{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		Status:     models.StatusCompleted,
	}
	require.NoError(t, db.DB.Create(&booking).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/bookings/%d/feedback", booking.ID),
		fiber.Map{"rating": 6, "feedback": "great"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Nothing was written
	var got models.Booking
	require.NoError(t, db.DB.First(&got, booking.ID).Error)
	assert.Empty(t, got.Feedback)

	var reviewCount int64
	require.NoError(t, db.DB.Model(&models.Review{}).Count(&reviewCount).Error)
	assert.Zero(t, reviewCount)
}

func TestFeedbackFoldsProviderRating(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	booking := models.Booking{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		Status:     models.StatusCompleted,
	}
	require.NoError(t, db.DB.Create(&booking).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/bookings/%d/feedback", booking.ID),
		fiber.Map{"rating": 4, "feedback": "spotless"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.User
	require.NoError(t, db.DB.First(&got, provider.ID).Error)
	assert.Equal(t, 4.0, got.AverageRating)
}

func TestBookingDetailsCrossTenant(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)

	other := models.User{Name: "Sam", Email: "sam@example.com", Role: models.RoleUser}
	require.NoError(t, db.DB.Create(&other).Error)

	booking := models.Booking{
		CustomerID: customer.ID,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
	}
	require.NoError(t, db.DB.Create(&booking).Error)

	// Probing another customer's booking id reads as absent
	app := bookingTestApp(other.ID)
	resp := doJSON(t, app, "GET", fmt.Sprintf("/bookings/%d", booking.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	app = bookingTestApp(customer.ID)
	resp = doJSON(t, app, "GET", fmt.Sprintf("/bookings/%d", booking.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRescheduleExcludesOwnSlot(t *testing.T) {
	setupBookingDB(t)
	customer, provider, service := seedAccounts(t)
	app := bookingTestApp(customer.ID)

	resp := doJSON(t, app, "POST", "/bookings", bookingPayload(provider, service, "10:00", "11:00"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking models.Booking
	require.NoError(t, db.DB.First(&booking).Error)

	// Shifting within the booking's own interval is not a conflict with itself
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/bookings/%d", booking.ID), fiber.Map{
		"booking_date": "2026-09-10",
		"start_time":   "10:30",
		"end_time":     "11:30",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
