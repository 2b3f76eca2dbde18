package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidInput        = "Invalid request body"
	msgInternalServerError = "Internal server error"
	msgNotFound            = "Resource not found"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

// sendErrorResponse writes the uniform error shape. The message is always
// human readable; raw driver errors never pass through here.
func sendErrorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func GetHome(ctx *gin.Context) {
	message := `Welcome to the FND API ❤️. Enjoy seamless interaction with this API.

The following are the main endpoint groups:

PRODUCTS
- GET  "/api/products"            - Browse the menu
- GET  "/api/products/popular"    - Popular dishes
- GET  "/api/products/categories" - Menu categories

CART
- GET/POST/PUT/DELETE "/api/cart..." - Manage your cart

ORDERS
- POST "/api/orders"              - Place an order (guests welcome)
- GET  "/api/orders"              - Your order history
- PUT  "/api/orders/:id/status"   - Staff: move an order along
- PUT  "/api/orders/:id/cancel"   - Cancel a pending order

LOYALTY
- GET  "/api/loyalty/points"      - Your points balance
- POST "/api/loyalty/redeem"      - Redeem points for a discount

PROMOS
- POST "/api/promos/validate"     - Check a promo code

REVIEWS & FAVORITES
- "/api/reviews...", "/api/favorites..."`

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message})
}
