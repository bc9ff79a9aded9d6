package models

import (
	"gorm.io/gorm"
)

type Message struct {
	gorm.Model
	SenderID   uint   `json:"sender_id"`
	Sender     User   `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uint   `json:"receiver_id"`
	Receiver   User   `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Content    string `json:"message"`
}
