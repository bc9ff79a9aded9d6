package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	ProviderID uint   `json:"provider_id"`
	Provider   User   `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	CustomerID uint   `json:"customer_id"`
	Customer   User   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Feedback   string `json:"feedback" gorm:"size:1000"`
	Rating     int    `json:"rating"`
}

// AverageRating folds a provider's reviews into the arithmetic mean.
// Unrated providers default to 1, never 0, so they don't sort as worst-rated.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 1
	}
	var sum float64
	for _, r := range reviews {
		sum += float64(r.Rating)
	}
	return sum / float64(len(reviews))
}
