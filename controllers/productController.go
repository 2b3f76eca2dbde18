package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetProducts(ctx *gin.Context) {
	query := initializers.DB.Where("available = ?", true)

	if category := ctx.Query("category"); category != "" && category != "Tous" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if result := query.Order("popular desc").Order("created_at desc").Find(&products); result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	ctx.JSON(http.StatusOK, products)
}

func GetPopularProducts(ctx *gin.Context) {
	var products []models.Product
	result := initializers.DB.
		Where("popular = ? AND available = ?", true, true).
		Order("created_at desc").
		Limit(10).
		Find(&products)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch popular products")
		return
	}

	ctx.JSON(http.StatusOK, products)
}

func GetCategories(ctx *gin.Context) {
	var categories []string
	result := initializers.DB.Model(&models.Product{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

func GetProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Name, description, category and price are required")
		return
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create product")
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func UpdateProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Image       *string  `json:"image"`
		Available   *bool    `json:"available"`
		Popular     *bool    `json:"popular"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Price must be greater than zero")
			return
		}
		updates["price"] = *input.Price
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if input.Popular != nil {
		updates["popular"] = *input.Popular
	}

	if err := initializers.DB.Model(&product).Updates(updates).Error; err != nil {
		log.Println("Update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update product")
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog. A product already
// referenced by order items is only marked unavailable so historical
// snapshots keep a resolvable reference.
func DeleteProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	var referenced int64
	initializers.DB.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&referenced)

	if referenced > 0 {
		if err := initializers.DB.Model(&product).Update("available", false).Error; err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete product")
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product has past orders and was marked unavailable instead."})
		return
	}

	if err := initializers.DB.Delete(&product).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully."})
}

// getAWSUploader returns a configured S3 uploader.
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

func UploadProductImage(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	uploader, err := getAWSUploader()
	if err != nil {
		log.Println("AWS config error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to configure upload")
		return
	}

	bucket := os.Getenv("S3_BUCKET")
	key := fmt.Sprintf("products/%d-%d-%s", product.ID, time.Now().Unix(), fileHeader.Filename)

	result, err := uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		log.Println("Upload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	if err := initializers.DB.Model(&product).Update("image", result.Location).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Image uploaded but could not be saved")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Image uploaded successfully", "url": result.Location})
}
