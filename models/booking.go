package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether s is one of the four booking statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

type Booking struct {
	gorm.Model
	CustomerID uint    `json:"customer_id"`
	Customer   User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProviderID uint    `json:"provider_id"`
	Provider   User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ServiceID  uint    `json:"service_id"`
	Service    Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`

	BookingDate time.Time `json:"booking_date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location"`

	Status        BookingStatus `json:"status" gorm:"default:pending"`
	TotalPrice    float64       `json:"total_price"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"default:unpaid"`

	Feedback      string `json:"feedback,omitempty" gorm:"size:1000"`
	Rating        int    `json:"rating" gorm:"default:1"`
	TransactionID string `json:"transaction_id,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentUnpaid
	}
	return nil
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// TotalPriceFor computes the booking price from the hourly service price and
// the slot length. Priced at creation time; never recomputed afterwards.
func TotalPriceFor(pricePerHour float64, start, end time.Time) float64 {
	return pricePerHour * end.Sub(start).Hours()
}
