package models

import "gorm.io/gorm"

type Favorite struct {
	gorm.Model
	UserID    uint    `json:"userId" gorm:"uniqueIndex:idx_user_product_fav"`
	ProductID uint    `json:"productId" gorm:"uniqueIndex:idx_user_product_fav"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}
