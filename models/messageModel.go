package models

import "gorm.io/gorm"

const (
	NotificationTypeOrder   = "ORDER"
	NotificationTypeMessage = "MESSAGE"

	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"
)

// Message is one chat line attached to an order.
type Message struct {
	gorm.Model
	OrderID    uint   `json:"orderId" gorm:"index"`
	SenderID   uint   `json:"senderId"`
	SenderRole string `json:"senderRole" gorm:"size:20"`
	Content    string `json:"content"`
	Type       string `json:"type" gorm:"size:10;default:TEXT"`
	Read       bool   `json:"read" gorm:"default:false"`
	Sender     User   `json:"sender" gorm:"foreignKey:SenderID"`
}

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userId" gorm:"index"`
	Type    string `json:"type" gorm:"size:10"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	OrderID *uint  `json:"orderId"`
	Read    bool   `json:"read" gorm:"default:false"`
}
