package models

import (
	"gorm.io/gorm"
)

type Service struct {
	gorm.Model
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	DurationHours float64 `json:"duration_hours"` // minimum bookable duration, 0.5 steps
	ProviderID    uint    `json:"provider_id"`
	Provider      User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	IsAvailable   bool    `json:"is_available" gorm:"default:true"`
}
