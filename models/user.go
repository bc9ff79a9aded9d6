package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleProvider Role = "service-provider"
)

// IsValid reports whether r is one of the known account roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleProvider:
		return true
	}
	return false
}

type User struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Name          string `json:"name"`
	Email         string `json:"email" gorm:"unique"`
	Password      string `json:"password,omitempty"`
	Role          Role   `json:"role" gorm:"default:user"`
	EmailVerified bool   `json:"email_verified"`

	ProfilePictureID  string `json:"profile_picture_id,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`

	// Provider profile fields
	Bio               string  `json:"bio,omitempty"`
	Skills            string  `json:"skills,omitempty"`
	Experience        string  `json:"experience,omitempty"`
	Gender            string  `json:"gender,omitempty"`
	Location          string  `json:"location,omitempty"`
	Pricing           float64 `json:"pricing,omitempty"`
	IsProfileComplete bool    `json:"is_profile_complete"`

	// Daily availability window, "HH:MM" 24-hour. Empty means unrestricted.
	WorkStartTime string `json:"work_start_time,omitempty"`
	WorkEndTime   string `json:"work_end_time,omitempty"`

	AverageRating float64 `json:"average_rating" gorm:"default:1"`

	VerificationToken        string    `json:"-"`
	VerificationTokenExpires time.Time `json:"-"`
	ResetPasswordToken       string    `json:"-"`
	ResetPasswordExpires     time.Time `json:"-"`

	IsDeleted bool `json:"is_deleted"`

	Services []Service `json:"services,omitempty" gorm:"foreignKey:ProviderID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:ProviderID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes the plain-text password with bcrypt before it is stored.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ComparePassword checks a plain-text password against the stored hash.
func (u *User) ComparePassword(plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain))
}

// ProfileComplete reports whether a provider profile is usable by customers:
// at least one published service, a positive price and a location.
func (u *User) ProfileComplete(serviceCount int64) bool {
	return serviceCount > 0 && u.Pricing > 0 && u.Location != ""
}
