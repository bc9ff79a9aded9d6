package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
)

// GetAllUsers lists every account, optionally filtered by role.
func GetAllUsers(c *fiber.Ctx) error {
	q := db.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		if !models.Role(role).IsValid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid role filter",
			})
		}
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(fiber.Map{
		"count": len(users),
		"users": users,
	})
}

// GetUser returns one account by id.
func GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if db.DB.Preload("Services").Preload("Reviews").
		First(&user, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{"user": user})
}

// UpdateUserRole reassigns an account's role.
func UpdateUserRole(c *fiber.Ctx) error {
	id := c.Params("id")

	type RoleInput struct {
		Role models.Role `json:"role"`
	}

	input := new(RoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}
	if !input.Role.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var user models.User
	if db.DB.First(&user, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Role = input.Role
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user role",
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "User role updated",
		"user":    user,
	})
}

// DeleteUser removes an account and its services.
func DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if db.DB.First(&user, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := db.DB.Where("provider_id = ?", user.ID).
		Delete(&models.Service{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user's services",
		})
	}
	if err := db.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
