package models

import "gorm.io/gorm"

// Review is limited to one per (user, order) and only for delivered orders.
type Review struct {
	gorm.Model
	UserID        uint    `json:"userId" gorm:"uniqueIndex:idx_user_order"`
	OrderID       uint    `json:"orderId" gorm:"uniqueIndex:idx_user_order"`
	ProductID     *uint   `json:"productId"`
	Rating        int     `json:"rating"`
	Comment       string  `json:"comment"`
	AdminResponse *string `json:"adminResponse"`
	User          User    `json:"user" gorm:"foreignKey:UserID"`
}
