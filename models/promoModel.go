package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	PromoTypePercentage   = "PERCENTAGE"
	PromoTypeFixed        = "FIXED"
	PromoTypeFreeDelivery = "FREE_DELIVERY"
)

var (
	ErrPromoInactive    = errors.New("promo code is inactive")
	ErrPromoNotInWindow = errors.New("promo code expired or not yet valid")
	ErrPromoExhausted   = errors.New("promo code usage limit reached")
)

type PromoCode struct {
	gorm.Model
	Code        string    `json:"code" gorm:"uniqueIndex;size:50"`
	Type        string    `json:"type" gorm:"size:20"`
	Value       float64   `json:"value"`
	MinAmount   *float64  `json:"minAmount"`
	MaxDiscount *float64  `json:"maxDiscount"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidUntil  time.Time `json:"validUntil"`
	UsageLimit  *int      `json:"usageLimit"`
	UsageCount  int       `json:"usageCount"`
	Active      bool      `json:"active" gorm:"default:true"`
}

// CheckUsable validates the code against its window, usage cap and minimum
// order amount. It performs no mutation; usage counting happens separately,
// inside the order-creation transaction.
func (p *PromoCode) CheckUsable(now time.Time, orderTotal float64) error {
	if !p.Active {
		return ErrPromoInactive
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return ErrPromoNotInWindow
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return ErrPromoExhausted
	}
	if p.MinAmount != nil && orderTotal < *p.MinAmount {
		return fmt.Errorf("minimum order amount: %.0f DH", *p.MinAmount)
	}
	return nil
}

// DiscountFor computes the discount this code grants on orderTotal.
// PERCENTAGE is clamped to MaxDiscount when set; FIXED is flat;
// FREE_DELIVERY yields 0 here because the delivery-fee waiver is a separate
// line handled by the order workflow. The result never exceeds orderTotal.
func (p *PromoCode) DiscountFor(orderTotal float64) float64 {
	var discount float64
	switch p.Type {
	case PromoTypePercentage:
		discount = orderTotal * p.Value / 100
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
	case PromoTypeFixed:
		discount = p.Value
	}
	if discount > orderTotal {
		discount = orderTotal
	}
	return discount
}

// DeliveryFeeWaiver returns the portion of the delivery fee waived by a
// FREE_DELIVERY code, capped at the fee itself.
func (p *PromoCode) DeliveryFeeWaiver(deliveryFee float64) float64 {
	if p.Type != PromoTypeFreeDelivery {
		return 0
	}
	if p.Value > deliveryFee || p.Value <= 0 {
		return deliveryFee
	}
	return p.Value
}
