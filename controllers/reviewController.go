package controllers

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
)

func CreateReview(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		OrderID   uint   `json:"orderId" binding:"required"`
		ProductID *uint  `json:"productId"`
		Rating    int    `json:"rating" binding:"required"`
		Comment   string `json:"comment"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Order and rating are required")
		return
	}

	if input.Rating < 1 || input.Rating > 5 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	// Reviews are allowed only on the caller's own delivered orders.
	var order models.Order
	err := initializers.DB.
		Where("id = ? AND user_id = ? AND status = ?", input.OrderID, user.ID, models.OrderStatusDelivered).
		First(&order).Error
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found or not yet delivered")
		return
	}

	var existing models.Review
	if err := initializers.DB.Where("order_id = ? AND user_id = ?", input.OrderID, user.ID).First(&existing).Error; err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "You already reviewed this order")
		return
	}

	if input.ProductID != nil {
		var item models.OrderItem
		if err := initializers.DB.Where("order_id = ? AND product_id = ?", input.OrderID, *input.ProductID).First(&item).Error; err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "This product is not part of your order")
			return
		}
	}

	review := models.Review{
		UserID:    user.ID,
		OrderID:   input.OrderID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := initializers.DB.Create(&review).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create review")
		return
	}

	initializers.DB.Preload("User").First(&review, review.ID)
	ctx.JSON(http.StatusCreated, review)
}

func paginationParams(ctx *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}

// GetReviews lists the caller's own reviews.
func GetReviews(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)
	page, limit, offset := paginationParams(ctx)

	var reviews []models.Review
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	var total int64
	initializers.DB.Model(&models.Review{}).Where("user_id = ?", user.ID).Count(&total)

	ctx.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetProductReviews(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	page, limit, offset := paginationParams(ctx)

	var reviews []models.Review
	result := initializers.DB.
		Where("product_id = ?", productID).
		Preload("User").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product reviews")
		return
	}

	var total int64
	initializers.DB.Model(&models.Review{}).Where("product_id = ?", productID).Count(&total)

	ctx.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetReviewStats(ctx *gin.Context) {
	var totalReviews int64
	initializers.DB.Model(&models.Review{}).Count(&totalReviews)

	var avgRating float64
	initializers.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	type ratingCount struct {
		Rating int
		Count  int64
	}
	var counts []ratingCount
	initializers.DB.Model(&models.Review{}).
		Select("rating, count(*) as count").
		Group("rating").
		Scan(&counts)

	distribution := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, c := range counts {
		distribution[c.Rating] = c.Count
	}

	ctx.JSON(http.StatusOK, gin.H{
		"avgRating":          math.Round(avgRating*10) / 10,
		"totalReviews":       totalReviews,
		"ratingDistribution": distribution,
	})
}

func UpdateReview(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse review id")
		return
	}

	var review models.Review
	if err := initializers.DB.Where("id = ? AND user_id = ?", reviewID, user.ID).First(&review).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		return
	}

	var input struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Rating must be between 1 and 5")
			return
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}

	if err := initializers.DB.Save(&review).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update review")
		return
	}

	initializers.DB.Preload("User").First(&review, review.ID)
	ctx.JSON(http.StatusOK, review)
}

func DeleteReview(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse review id")
		return
	}

	query := initializers.DB.Where("id = ?", reviewID)
	if !user.IsAdminTier() {
		query = query.Where("user_id = ?", user.ID)
	}

	var review models.Review
	if err := query.First(&review).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		return
	}

	if err := initializers.DB.Delete(&review).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func GetAllReviews(ctx *gin.Context) {
	var reviews []models.Review
	result := initializers.DB.
		Preload("User").
		Order("created_at desc").
		Find(&reviews)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

func RespondToReview(ctx *gin.Context) {
	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse review id")
		return
	}

	var input struct {
		AdminResponse string `json:"adminResponse" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Response required")
		return
	}

	var review models.Review
	if err := initializers.DB.First(&review, reviewID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		return
	}

	if err := initializers.DB.Model(&review).Update("admin_response", input.AdminResponse).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to respond to review")
		return
	}

	initializers.DB.Preload("User").First(&review, review.ID)
	ctx.JSON(http.StatusOK, review)
}
