package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
	"gorm.io/gorm"
)

// GetAllServices lists the catalog, optionally filtered by category.
func GetAllServices(c *fiber.Ctx) error {
	q := db.DB.Preload("Provider", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id, name, email, location, average_rating")
	})
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch services",
		})
	}
	return c.JSON(services)
}

// GetService returns a single catalog entry.
func GetService(c *fiber.Ctx) error {
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Preload("Provider", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id, name, email, location, average_rating")
	}).First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}
	return c.JSON(service)
}

// CreateService publishes a new offering owned by the calling provider.
func CreateService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	service := new(models.Service)
	if err := c.BodyParser(service); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	if service.Name == "" || service.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and category are required",
		})
	}
	if service.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price can't be negative",
		})
	}
	if service.DurationHours < 0.5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Duration must be at least half an hour",
		})
	}

	service.ProviderID = providerID
	service.Provider = models.User{}
	if err := db.DB.Create(service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create service",
		})
	}

	// Publishing a first service can complete the provider profile.
	refreshProfileComplete(providerID)

	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService mutates an offering; cross-tenant ids read as absent.
func UpdateService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Where("id = ? AND provider_id = ?", id, providerID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	type ServiceInput struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Price         *float64 `json:"price"`
		Category      *string  `json:"category"`
		DurationHours *float64 `json:"duration_hours"`
		IsAvailable   *bool    `json:"is_available"`
	}

	input := new(ServiceInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Price can't be negative",
			})
		}
		service.Price = *input.Price
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.DurationHours != nil {
		if *input.DurationHours < 0.5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Duration must be at least half an hour",
			})
		}
		service.DurationHours = *input.DurationHours
	}
	if input.IsAvailable != nil {
		service.IsAvailable = *input.IsAvailable
	}

	if err := db.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update service",
		})
	}
	return c.JSON(service)
}

// DeleteService removes an offering; cross-tenant ids read as absent.
func DeleteService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Where("id = ? AND provider_id = ?", id, providerID).First(&service).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Service not found",
		})
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete service",
		})
	}

	refreshProfileComplete(providerID)

	return c.SendStatus(fiber.StatusNoContent)
}

// refreshProfileComplete re-derives the provider's completeness flag after a
// catalog change.
func refreshProfileComplete(providerID uint) {
	var user models.User
	if err := db.DB.First(&user, providerID).Error; err != nil {
		return
	}
	var serviceCount int64
	db.DB.Model(&models.Service{}).Where("provider_id = ?", providerID).Count(&serviceCount)
	db.DB.Model(&user).Update("is_profile_complete", user.ProfileComplete(serviceCount))
}
