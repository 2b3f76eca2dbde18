package models

import (
	"time"

	"gorm.io/gorm"
)

type Cart struct {
	gorm.Model
	UserID uint       `json:"userId" gorm:"uniqueIndex"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem holds one product selection. The (cart_id, product_id) unique
// index is what makes concurrent adds safe: adds go through an upsert
// against this index, never a check-then-insert. Lines are hard-deleted;
// a soft-deleted row would keep occupying the unique index.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CartID    uint      `json:"cartId" gorm:"uniqueIndex:idx_cart_product"`
	ProductID uint      `json:"productId" gorm:"uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
}
