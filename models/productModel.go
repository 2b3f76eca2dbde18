package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Category    string         `json:"category" binding:"required" gorm:"index;size:100"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Image       string         `json:"image"`
	Tags        datatypes.JSON `json:"tags"`
	Available   bool           `json:"available" gorm:"default:true"`
	Popular     bool           `json:"popular" gorm:"default:false"`
}
