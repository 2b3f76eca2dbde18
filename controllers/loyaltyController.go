package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// earnLoyaltyPoints credits points for an order inside the caller's
// transaction. The balance update is an atomic increment paired with its
// audit row; zero-point earnings create no rows at all.
func earnLoyaltyPoints(tx *gorm.DB, userID uint, points int, orderID uint) error {
	if points <= 0 {
		return nil
	}

	var loyalty models.LoyaltyPoints
	if err := tx.Where(models.LoyaltyPoints{UserID: userID}).FirstOrCreate(&loyalty).Error; err != nil {
		return err
	}

	result := tx.Model(&models.LoyaltyPoints{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"points":       gorm.Expr("points + ?", points),
			"total_earned": gorm.Expr("total_earned + ?", points),
		})
	if result.Error != nil {
		return result.Error
	}

	oid := orderID
	return tx.Create(&models.LoyaltyTransaction{
		UserID:          userID,
		LoyaltyPointsID: loyalty.ID,
		OrderID:         &oid,
		Type:            models.LoyaltyTxEarned,
		Points:          points,
		Description:     fmt.Sprintf("Points earned for order #%d", orderID),
	}).Error
}

func GetLoyaltyPoints(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var loyalty models.LoyaltyPoints
	if err := initializers.DB.Where(models.LoyaltyPoints{UserID: user.ID}).FirstOrCreate(&loyalty).Error; err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch loyalty points")
		return
	}

	var transactions []models.LoyaltyTransaction
	initializers.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(10).
		Find(&transactions)

	var totalSpentCurrency float64
	var ordersCount int64
	initializers.DB.Model(&models.Order{}).
		Where("user_id = ?", user.ID).
		Count(&ordersCount)
	initializers.DB.Model(&models.Order{}).
		Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalSpentCurrency)

	progress := loyalty.Points % 100

	ctx.JSON(http.StatusOK, gin.H{
		"points":                    loyalty.Points,
		"totalEarned":               loyalty.TotalEarned,
		"totalSpent":                loyalty.TotalSpent,
		"total_spent":               totalSpentCurrency,
		"orders_count":              ordersCount,
		"progress_percent":          progress,
		"next_reward_amount_needed": 100 - progress,
		"recentTransactions":        transactions,
	})
}

func GetLoyaltyHistory(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var transactions []models.LoyaltyTransaction
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&transactions)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch loyalty history")
		return
	}

	var total int64
	initializers.DB.Model(&models.LoyaltyTransaction{}).Where("user_id = ?", user.ID).Count(&total)

	ctx.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// RedeemLoyaltyPoints swaps points for a currency discount. The balance
// decrement is guarded by the prior balance in the WHERE clause, so two
// concurrent redemptions can never overdraw.
func RedeemLoyaltyPoints(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		PointsToRedeem int `json:"pointsToRedeem"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if input.PointsToRedeem < models.MinRedeemPoints {
		sendErrorResponse(ctx, http.StatusBadRequest, "Minimum 10 points required for redemption")
		return
	}

	discountAmount := models.RedeemDiscount(input.PointsToRedeem)
	var remainingPoints int

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		var loyalty models.LoyaltyPoints
		if err := tx.Where(models.LoyaltyPoints{UserID: user.ID}).FirstOrCreate(&loyalty).Error; err != nil {
			return err
		}

		result := tx.Model(&models.LoyaltyPoints{}).
			Where("user_id = ? AND points >= ?", user.ID, input.PointsToRedeem).
			Updates(map[string]any{
				"points":      gorm.Expr("points - ?", input.PointsToRedeem),
				"total_spent": gorm.Expr("total_spent + ?", input.PointsToRedeem),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &orderRejection{"Insufficient points"}
		}

		if err := tx.Create(&models.LoyaltyTransaction{
			UserID:          user.ID,
			LoyaltyPointsID: loyalty.ID,
			Type:            models.LoyaltyTxRedeemed,
			Points:          input.PointsToRedeem,
			Description:     fmt.Sprintf("Redeemed %d points for %d DH discount", input.PointsToRedeem, discountAmount),
		}).Error; err != nil {
			return err
		}

		var updated models.LoyaltyPoints
		if err := tx.Where("user_id = ?", user.ID).First(&updated).Error; err != nil {
			return err
		}
		remainingPoints = updated.Points
		return nil
	})

	if err != nil {
		var rejection *orderRejection
		if errors.As(err, &rejection) {
			sendErrorResponse(ctx, http.StatusBadRequest, rejection.msg)
			return
		}
		log.Println("Redeem error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to redeem points")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":         true,
		"discountAmount":  discountAmount,
		"remainingPoints": remainingPoints,
	})
}

func GetLoyaltyRules(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"earnRate":              "1 point per DH spent on the order subtotal",
		"redeemRate":            fmt.Sprintf("%d points = 1 DH discount", models.PointsPerDiscountUnit),
		"minimumRedeem":         models.MinRedeemPoints,
		"deliveryFeeEarnsPoint": false,
	})
}
