package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ValidatePromoCode checks a code against an order total and returns the
// discount it would grant. Pure with respect to storage: usage counting
// happens only when an order actually commits.
func ValidatePromoCode(ctx *gin.Context) {
	var input struct {
		Code       string  `json:"code" binding:"required"`
		OrderTotal float64 `json:"orderTotal"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Promo code required")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))

	var promo models.PromoCode
	if err := initializers.DB.Where("code = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Invalid promo code")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to validate promo code")
		}
		return
	}

	if err := promo.CheckUsable(time.Now(), input.OrderTotal); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":       promo.Code,
		"type":       promo.Type,
		"value":      promo.Value,
		"discount":   promo.DiscountFor(input.OrderTotal),
		"minAmount":  promo.MinAmount,
		"validUntil": promo.ValidUntil,
	})
}

func GetPromoCodes(ctx *gin.Context) {
	var promos []models.PromoCode
	if result := initializers.DB.Order("created_at desc").Find(&promos); result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch promo codes")
		return
	}
	ctx.JSON(http.StatusOK, promos)
}

type promoInput struct {
	Code        string    `json:"code"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	MinAmount   *float64  `json:"minAmount"`
	MaxDiscount *float64  `json:"maxDiscount"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidUntil  time.Time `json:"validUntil"`
	UsageLimit  *int      `json:"usageLimit"`
	Active      *bool     `json:"active"`
}

func validPromoType(t string) bool {
	switch t {
	case models.PromoTypePercentage, models.PromoTypeFixed, models.PromoTypeFreeDelivery:
		return true
	}
	return false
}

func CreatePromoCode(ctx *gin.Context) {
	var input promoInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if input.Code == "" || input.Type == "" || input.Value == 0 ||
		input.ValidFrom.IsZero() || input.ValidUntil.IsZero() {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !validPromoType(input.Type) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid promo type")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))

	var existing models.PromoCode
	if err := initializers.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "This promo code already exists")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	promo := models.PromoCode{
		Code:        code,
		Type:        input.Type,
		Value:       input.Value,
		MinAmount:   input.MinAmount,
		MaxDiscount: input.MaxDiscount,
		ValidFrom:   input.ValidFrom,
		ValidUntil:  input.ValidUntil,
		UsageLimit:  input.UsageLimit,
		Active:      active,
	}

	if err := initializers.DB.Create(&promo).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create promo code")
		return
	}

	ctx.JSON(http.StatusCreated, promo)
}

func UpdatePromoCode(ctx *gin.Context) {
	code := strings.ToUpper(ctx.Param("code"))

	var promo models.PromoCode
	if err := initializers.DB.Where("code = ?", code).First(&promo).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Promo code not found")
		return
	}

	var input promoInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if input.Type != "" && !validPromoType(input.Type) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid promo type")
		return
	}

	updates := map[string]any{
		"min_amount":   input.MinAmount,
		"max_discount": input.MaxDiscount,
		"usage_limit":  input.UsageLimit,
	}
	if input.Type != "" {
		updates["type"] = input.Type
	}
	if input.Value != 0 {
		updates["value"] = input.Value
	}
	if !input.ValidFrom.IsZero() {
		updates["valid_from"] = input.ValidFrom
	}
	if !input.ValidUntil.IsZero() {
		updates["valid_until"] = input.ValidUntil
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := initializers.DB.Model(&promo).Updates(updates).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update promo code")
		return
	}

	initializers.DB.Where("code = ?", code).First(&promo)
	ctx.JSON(http.StatusOK, promo)
}

func DeletePromoCode(ctx *gin.Context) {
	code := strings.ToUpper(ctx.Param("code"))

	result := initializers.DB.Where("code = ?", code).Delete(&models.PromoCode{})
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete promo code")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Promo code not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code deleted successfully"})
}
