package models

import (
	"math"

	"gorm.io/gorm"
)

const (
	LoyaltyTxEarned   = "EARNED"
	LoyaltyTxRedeemed = "REDEEMED"

	// MinRedeemPoints is the smallest redemption the ledger accepts.
	MinRedeemPoints = 10

	// PointsPerDiscountUnit converts points to currency: 10 points = 1 DH.
	PointsPerDiscountUnit = 10
)

// LoyaltyPoints keeps one balance row per user. The invariant
// points == totalEarned - totalSpent must hold at all times, so every
// balance change is paired with its LoyaltyTransaction in one transaction.
type LoyaltyPoints struct {
	gorm.Model
	UserID       uint                 `json:"userId" gorm:"uniqueIndex"`
	Points       int                  `json:"points"`
	TotalEarned  int                  `json:"totalEarned"`
	TotalSpent   int                  `json:"totalSpent"`
	Transactions []LoyaltyTransaction `json:"-" gorm:"foreignKey:LoyaltyPointsID"`
}

// LoyaltyTransaction is an append-only audit row; never updated or deleted.
type LoyaltyTransaction struct {
	gorm.Model
	UserID          uint   `json:"userId" gorm:"index"`
	LoyaltyPointsID uint   `json:"loyaltyPointsId"`
	OrderID         *uint  `json:"orderId"`
	Type            string `json:"type" gorm:"size:10"`
	Points          int    `json:"points"`
	Description     string `json:"description"`
}

// PointsForSubtotal returns the points earned on an order: one point per DH
// of subtotal, floored. Delivery fee and discounts never earn points.
func PointsForSubtotal(subtotal float64) int {
	if subtotal <= 0 {
		return 0
	}
	return int(math.Floor(subtotal))
}

// RedeemDiscount converts points to a currency discount by integer floor
// division: 10 points = 1 DH.
func RedeemDiscount(points int) int {
	return points / PointsPerDiscountUnit
}
