package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
)

func GetFavorites(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var favorites []models.Favorite
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Preload("Product").
		Find(&favorites)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch favorites")
		return
	}

	ctx.JSON(http.StatusOK, favorites)
}

func AddFavorite(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	var existing models.Favorite
	if err := initializers.DB.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&existing).Error; err == nil {
		sendErrorResponse(ctx, http.StatusConflict, "Product already in favorites")
		return
	}

	favorite := models.Favorite{UserID: user.ID, ProductID: product.ID}
	if err := initializers.DB.Create(&favorite).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add favorite")
		return
	}

	initializers.DB.Preload("Product").First(&favorite, favorite.ID)
	ctx.JSON(http.StatusCreated, favorite)
}

func RemoveFavorite(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	result := initializers.DB.Where("user_id = ? AND product_id = ?", user.ID, productID).Delete(&models.Favorite{})
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Favorite not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Favorite removed"})
}
