package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
	"github.com/workbuddy/workbuddy-server/utils"
)

// providerView is the public projection of a provider account: no
// credentials, no token bookkeeping.
type providerView struct {
	ID                uint             `json:"id"`
	Name              string           `json:"name"`
	ProfilePictureURL string           `json:"profile_picture_url,omitempty"`
	Bio               string           `json:"bio,omitempty"`
	Skills            string           `json:"skills,omitempty"`
	Experience        string           `json:"experience,omitempty"`
	Gender            string           `json:"gender,omitempty"`
	Location          string           `json:"location,omitempty"`
	Pricing           float64          `json:"pricing,omitempty"`
	IsProfileComplete bool             `json:"is_profile_complete"`
	AverageRating     float64          `json:"average_rating"`
	Services          []models.Service `json:"services,omitempty"`
}

func toProviderView(u *models.User) providerView {
	return providerView{
		ID:                u.ID,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		Bio:               u.Bio,
		Skills:            u.Skills,
		Experience:        u.Experience,
		Gender:            u.Gender,
		Location:          u.Location,
		Pricing:           u.Pricing,
		IsProfileComplete: u.IsProfileComplete,
		AverageRating:     u.AverageRating,
		Services:          u.Services,
	}
}

// GetProfile returns the caller's own account.
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.Preload("Services").Preload("Reviews").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile updates the caller's provider profile fields and refreshes
// the profile-completeness flag.
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type ProfileInput struct {
		Bio           *string  `json:"bio"`
		Skills        *string  `json:"skills"`
		Experience    *string  `json:"experience"`
		Gender        *string  `json:"gender"`
		Location      *string  `json:"location"`
		Pricing       *float64 `json:"pricing"`
		WorkStartTime *string  `json:"work_start_time"`
		WorkEndTime   *string  `json:"work_end_time"`
	}

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Skills != nil {
		user.Skills = *input.Skills
	}
	if input.Experience != nil {
		user.Experience = *input.Experience
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.Pricing != nil {
		user.Pricing = *input.Pricing
	}
	if input.WorkStartTime != nil {
		if *input.WorkStartTime != "" && !utils.IsClockTime(*input.WorkStartTime) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "work_start_time must be HH:MM (24-hour)",
			})
		}
		user.WorkStartTime = *input.WorkStartTime
	}
	if input.WorkEndTime != nil {
		if *input.WorkEndTime != "" && !utils.IsClockTime(*input.WorkEndTime) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "work_end_time must be HH:MM (24-hour)",
			})
		}
		user.WorkEndTime = *input.WorkEndTime
	}

	var serviceCount int64
	db.DB.Model(&models.Service{}).Where("provider_id = ?", user.ID).Count(&serviceCount)
	user.IsProfileComplete = user.ProfileComplete(serviceCount)

	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UpdateProfilePicture uploads a new picture to Cloudinary and stores its
// id and URL.
func UpdateProfilePicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	file, err := c.FormFile("profile_picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "profile_picture file is required",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer f.Close()

	uploaded, err := utils.UploadToCloudinary(f, "workbuddy_profile_pics")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload profile picture",
		})
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"profile_picture_id":  uploaded.PublicID,
		"profile_picture_url": uploaded.URL,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message":         "Profile picture updated successfully",
		"profile_picture": uploaded,
	})
}

// GetAllProviders lists every service provider as a public projection.
func GetAllProviders(c *fiber.Ctx) error {
	var providers []models.User
	if err := db.DB.Preload("Services").
		Where("role = ? AND is_deleted = ?", models.RoleProvider, false).
		Find(&providers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch service providers",
		})
	}

	if len(providers) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No service providers found",
		})
	}

	views := make([]providerView, 0, len(providers))
	for i := range providers {
		views = append(views, toProviderView(&providers[i]))
	}

	return c.JSON(fiber.Map{"providers": views})
}
