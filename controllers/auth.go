package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/middleware"
	"github.com/workbuddy/workbuddy-server/models"
	"github.com/workbuddy/workbuddy-server/redis"
	"github.com/workbuddy/workbuddy-server/utils"
)

const (
	verificationTokenTTL = 40 * time.Minute
	resetTokenTTL        = time.Hour
	otpTTL               = 10 * time.Minute
	accessTokenTTL       = 24 * time.Hour
)

// Register handles user registration
func Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Name     string      `json:"name" form:"name"`
		Email    string      `json:"email" form:"email"`
		Password string      `json:"password" form:"password"`
		Role     models.Role `json:"role" form:"role"`
	}

	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse request body",
		})
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if !strongPassword(input.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character",
		})
	}

	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if !input.Role.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown role",
		})
	}

	var existing models.User
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User with this email already exists",
		})
	}

	user := models.User{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	// Optional profile picture on multipart registrations.
	if file, err := c.FormFile("profile_picture"); err == nil {
		f, err := file.Open()
		if err == nil {
			defer f.Close()
			if uploaded, err := utils.UploadToCloudinary(f, "workbuddy_profile_pics"); err == nil {
				user.ProfilePictureID = uploaded.PublicID
				user.ProfilePictureURL = uploaded.URL
			} else {
				log.Printf("profile picture upload failed: %v", err)
			}
		}
	}

	verificationToken := utils.GenerateToken()
	user.VerificationToken = utils.HashToken(verificationToken)
	user.VerificationTokenExpires = time.Now().Add(verificationTokenTTL)

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	emailBody := "<p>Hello " + user.Name + ",</p>" +
		"<p>Please verify your email with this code:</p>" +
		"<p><strong>" + verificationToken + "</strong></p>" +
		"<p>The code is valid for 40 minutes. If you did not register, ignore this email.</p>"
	if err := utils.SendEmail(user.Email, "Verify Your Email - WorkBuddy", emailBody); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully. A verification email has been sent to your email address.",
		"user":    user,
	})
}

// VerifyEmail marks the account verified when the emailed code matches.
func VerifyEmail(c *fiber.Ctx) error {
	type VerifyInput struct {
		Token string `json:"token"`
	}

	input := new(VerifyInput)
	if err := c.BodyParser(input); err != nil || input.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Verification token is required",
		})
	}

	var user models.User
	if db.DB.Where("verification_token = ? AND verification_token_expires > ?",
		utils.HashToken(input.Token), time.Now()).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpires = time.Time{}
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully. You can now log in!",
	})
}

// ResendEmailVerification issues a fresh verification code.
func ResendEmailVerification(c *fiber.Ctx) error {
	type ResendInput struct {
		Email string `json:"email"`
	}

	input := new(ResendInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if user.EmailVerified {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is already verified",
		})
	}

	verificationToken := utils.GenerateToken()
	user.VerificationToken = utils.HashToken(verificationToken)
	user.VerificationTokenExpires = time.Now().Add(verificationTokenTTL)
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	emailBody := "<p>Hello " + user.Name + ",</p>" +
		"<p>Your new verification code:</p><p><strong>" + verificationToken + "</strong></p>"
	if err := utils.SendEmail(user.Email, "Resend Email Verification - WorkBuddy", emailBody); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send verification email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "A new verification email has been sent successfully.",
	})
}

// Login handles user authentication
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}
	if err := user.ComparePassword(input.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}
	if !user.EmailVerified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Please verify your email before logging in",
		})
	}

	tokenString, err := signAccessToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	setTokenCookie(c, tokenString)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   tokenString,
		"user": fiber.Map{
			"id":                  user.ID,
			"name":                user.Name,
			"email":               user.Email,
			"role":                user.Role,
			"profile_picture_url": user.ProfilePictureURL,
		},
	})
}

// Logout clears the auth cookie; the JWT itself stays valid until expiry.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// ForgotPassword emails a password reset code.
func ForgotPassword(c *fiber.Ctx) error {
	type ForgotInput struct {
		Email string `json:"email"`
	}

	input := new(ForgotInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	resetToken := utils.GenerateToken()
	user.ResetPasswordToken = utils.HashToken(resetToken)
	user.ResetPasswordExpires = time.Now().Add(resetTokenTTL)
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	emailBody := "<p>Hello " + user.Name + ",</p>" +
		"<p>Use this code to reset your password:</p><p><strong>" + resetToken + "</strong></p>" +
		"<p>The code is valid for 1 hour. If you did not request a reset, ignore this email.</p>"
	if err := utils.SendEmail(user.Email, "Password Reset Request - WorkBuddy", emailBody); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send reset email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password reset email sent successfully",
	})
}

// ResetPassword sets a new password given a valid reset code.
func ResetPassword(c *fiber.Ctx) error {
	type ResetInput struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}

	input := new(ResetInput)
	if err := c.BodyParser(input); err != nil || input.Token == "" || input.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token and new password are required",
		})
	}
	if !strongPassword(input.NewPassword) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character",
		})
	}

	var user models.User
	if db.DB.Where("reset_password_token = ? AND reset_password_expires > ?",
		utils.HashToken(input.Token), time.Now()).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = time.Time{}
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully. You can now log in!",
	})
}

// SendOTP emails a one-time login code, kept in Redis with a short TTL.
func SendOTP(c *fiber.Ctx) error {
	type OTPInput struct {
		Email string `json:"email"`
	}

	input := new(OTPInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}
	email := strings.ToLower(input.Email)

	var user models.User
	if db.DB.Where("email = ?", email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	otp := utils.GenerateOTP()
	if err := redis.Client.Set(redis.Ctx, "otp:"+email, otp, otpTTL).Err(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store OTP",
		})
	}

	emailBody := "<p>Hello " + user.Name + ",</p>" +
		"<p>Your one-time login code is <strong>" + otp + "</strong>. It expires in 10 minutes.</p>"
	if err := utils.SendEmail(user.Email, "Your Login Code - WorkBuddy", emailBody); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send OTP email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent successfully",
	})
}

// VerifyOTP exchanges a valid OTP for an access token.
func VerifyOTP(c *fiber.Ctx) error {
	type VerifyOTPInput struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}

	input := new(VerifyOTPInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" || input.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and OTP are required",
		})
	}
	email := strings.ToLower(input.Email)

	var user models.User
	if db.DB.Where("email = ?", email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	stored, err := redis.Client.Get(redis.Ctx, "otp:"+email).Result()
	if err != nil || stored != input.OTP {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired OTP",
		})
	}
	redis.Client.Del(redis.Ctx, "otp:"+email)

	tokenString, err := signAccessToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}
	setTokenCookie(c, tokenString)

	return c.JSON(fiber.Map{
		"message": "OTP verified successfully",
		"token":   tokenString,
	})
}

func signAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}

func setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(accessTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// strongPassword mirrors the registration policy: at least 8 characters with
// an uppercase letter, a lowercase letter, a digit and a special character.
func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*", r):
			special = true
		}
	}
	return upper && lower && digit && special
}
