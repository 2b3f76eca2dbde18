package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func getOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	return cart, err
}

// findOwnedCartItem resolves a cart item by id for the requesting user. The
// ownership check joins through the cart rather than trusting the client id;
// a mismatch is indistinguishable from a missing row.
func findOwnedCartItem(userID uint, itemID int) (models.CartItem, error) {
	var item models.CartItem
	err := initializers.DB.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	return item, err
}

func GetCart(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var cart models.Cart
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Preload("Items.Product").
		First(&cart)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
		} else {
			log.Println("Database error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to get cart")
		}
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// upsertCartItem adds quantity to the (cart, product) line, inserting it if
// absent. The unique index makes this safe under concurrent adds.
func upsertCartItem(db *gorm.DB, cartID, productID uint, quantity int) error {
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	return db.Omit("Product").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
		}),
	}).Create(&item).Error
}

func AddCartItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		ProductID uint `json:"productId" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var product models.Product
	if err := initializers.DB.First(&product, input.ProductID).Error; err != nil || !product.Available {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product not available")
		return
	}

	cart, err := getOrCreateCart(initializers.DB, user.ID)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item")
		return
	}

	if err := upsertCartItem(initializers.DB, cart.ID, product.ID, input.Quantity); err != nil {
		log.Println("Upsert error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item")
		return
	}

	var item models.CartItem
	if err := initializers.DB.Preload("Product").
		Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
		First(&item).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add item")
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func UpdateCartItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse item id")
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := findOwnedCartItem(user.ID, itemID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	// Quantity at or below zero means removal, not an error.
	if input.Quantity <= 0 {
		if err := initializers.DB.Delete(&item).Error; err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update item")
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed"})
		return
	}

	if err := initializers.DB.Model(&item).Update("quantity", input.Quantity).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update item")
		return
	}

	initializers.DB.Preload("Product").First(&item, item.ID)
	ctx.JSON(http.StatusOK, item)
}

func RemoveCartItem(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse item id")
		return
	}

	item, err := findOwnedCartItem(user.ID, itemID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	if err := initializers.DB.Delete(&item).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item removed"})
}

func ClearCart(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var cart models.Cart
	err := initializers.DB.Where("user_id = ?", user.ID).First(&cart).Error
	if err == nil {
		if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
			return
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

// ValidateCart re-checks availability of every line. Items that became
// unavailable after being added surface here, never silently dropped.
func ValidateCart(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var cart models.Cart
	err := initializers.DB.Where("user_id = ?", user.ID).Preload("Items.Product").First(&cart).Error
	if err != nil || len(cart.Items) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
		return
	}

	invalidItems := []gin.H{}
	var total float64
	for _, item := range cart.Items {
		if !item.Product.Available {
			invalidItems = append(invalidItems, gin.H{
				"id":          item.ID,
				"productName": item.Product.Name,
				"reason":      "Product not available",
			})
		} else {
			total += item.Product.Price * float64(item.Quantity)
		}
	}

	if len(invalidItems) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":        "Some items are not available",
			"invalidItems": invalidItems,
			"validTotal":   total,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"total":     total,
		"itemCount": len(cart.Items),
	})
}

// MergeCart folds a guest-held selection into the server-side cart after
// login, summing quantities through the same upsert used by AddCartItem.
// Unavailable products are skipped and reported, not merged.
func MergeCart(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		Items []struct {
			ProductID uint `json:"productId" binding:"required"`
			Quantity  int  `json:"quantity"`
		} `json:"items" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cart, err := getOrCreateCart(initializers.DB, user.ID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to merge cart")
		return
	}

	skipped := []gin.H{}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			continue
		}

		var product models.Product
		if err := initializers.DB.First(&product, line.ProductID).Error; err != nil || !product.Available {
			skipped = append(skipped, gin.H{"productId": line.ProductID, "reason": "Product not available"})
			continue
		}

		if err := upsertCartItem(initializers.DB, cart.ID, product.ID, line.Quantity); err != nil {
			log.Println("Merge upsert error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to merge cart")
			return
		}
	}

	var merged models.Cart
	initializers.DB.Where("id = ?", cart.ID).Preload("Items.Product").First(&merged)

	ctx.JSON(http.StatusOK, gin.H{
		"cart":    merged,
		"skipped": skipped,
	})
}
