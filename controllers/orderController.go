package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/fnd-app/fnd-api/utils"
	"github.com/fnd-app/fnd-api/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createOrderInput struct {
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	PromoCode string `json:"promoCode"`
	Items     []struct {
		ProductID uint `json:"productId"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
}

// resolvedLine pairs a live catalog product with the requested quantity.
type resolvedLine struct {
	Product  models.Product
	Quantity int
}

// resolveOrderLines builds the priced lines for an order. Authenticated
// actors order exactly what their server-side cart holds; client-supplied
// item lists are ignored for them to prevent price and ownership spoofing.
// Guests must supply items, resolved all-or-nothing against the catalog.
func resolveOrderLines(db *gorm.DB, user *models.User, input createOrderInput) ([]resolvedLine, error) {
	if user != nil {
		var cart models.Cart
		err := db.Where("user_id = ?", user.ID).Preload("Items.Product").First(&cart).Error
		if err != nil || len(cart.Items) == 0 {
			return nil, errors.New("Cart is empty")
		}
		lines := make([]resolvedLine, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, resolvedLine{Product: item.Product, Quantity: item.Quantity})
		}
		return lines, nil
	}

	if len(input.Items) == 0 {
		return nil, errors.New("Cart is empty")
	}
	lines := make([]resolvedLine, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("Invalid quantity for product %d", item.ProductID)
		}
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			return nil, fmt.Errorf("Product %d not found", item.ProductID)
		}
		lines = append(lines, resolvedLine{Product: product, Quantity: item.Quantity})
	}
	return lines, nil
}

// CreateOrder places an order: snapshot lines, compute totals, consume the
// promo slot, credit loyalty points and clear the cart — all inside one
// transaction so no partial order is ever observable.
func CreateOrder(ctx *gin.Context) {
	var input createOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if input.Phone == "" || input.Address == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Phone and address are required")
		return
	}

	var actor *models.User
	if user, ok := middlewares.CurrentUser(ctx); ok {
		actor = &user
	}

	lines, err := resolveOrderLines(initializers.DB, actor, input)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	// Availability is checked against the live catalog; one bad line
	// rejects the whole order with the offending lines listed.
	invalidItems := []gin.H{}
	var subtotal float64
	for _, line := range lines {
		if !line.Product.Available {
			invalidItems = append(invalidItems, gin.H{
				"productId":   line.Product.ID,
				"productName": line.Product.Name,
				"reason":      "Product not available",
			})
		} else {
			subtotal += line.Product.Price * float64(line.Quantity)
		}
	}
	if len(invalidItems) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":        "Some items are not available",
			"invalidItems": invalidItems,
		})
		return
	}

	var order models.Order

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		deliveryFee := models.DeliveryFee
		var discount float64
		var promoCodePtr *string

		if input.PromoCode != "" {
			code := strings.ToUpper(strings.TrimSpace(input.PromoCode))

			var promo models.PromoCode
			if err := tx.Where("code = ?", code).First(&promo).Error; err != nil {
				return &orderRejection{"Invalid promo code"}
			}
			if err := promo.CheckUsable(time.Now(), subtotal); err != nil {
				return &orderRejection{err.Error()}
			}

			// Consume the usage slot with a guarded update so two
			// concurrent checkouts cannot both take the last slot.
			result := tx.Model(&models.PromoCode{}).
				Where("code = ? AND active = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", code, true).
				Update("usage_count", gorm.Expr("usage_count + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &orderRejection{"promo code usage limit reached"}
			}

			discount = promo.DiscountFor(subtotal)
			deliveryFee -= promo.DeliveryFeeWaiver(deliveryFee)
			promoCodePtr = &code
		}

		order = models.Order{
			Phone:         input.Phone,
			Address:       input.Address,
			Status:        models.OrderStatusPending,
			Subtotal:      subtotal,
			DeliveryFee:   deliveryFee,
			Discount:      discount,
			PromoCode:     promoCodePtr,
			Total:         subtotal + deliveryFee - discount,
			PaymentMethod: models.DefaultPaymentMethod,
			PaymentStatus: models.PaymentStatusPending,
			Notes:         input.Notes,
		}
		if actor != nil {
			userID := actor.ID
			order.UserID = &userID
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			item := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    line.Product.ID,
				ProductName:  line.Product.Name,
				ProductPrice: line.Product.Price,
				Quantity:     line.Quantity,
				Subtotal:     line.Product.Price * float64(line.Quantity),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if actor != nil {
			if err := earnLoyaltyPoints(tx, actor.ID, models.PointsForSubtotal(subtotal), order.ID); err != nil {
				return err
			}

			var cart models.Cart
			if err := tx.Where("user_id = ?", actor.ID).First(&cart).Error; err == nil {
				if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})

	if err != nil {
		var rejection *orderRejection
		if errors.As(err, &rejection) {
			sendErrorResponse(ctx, http.StatusBadRequest, rejection.msg)
			return
		}
		log.Println("Create order error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		return
	}

	var created models.Order
	initializers.DB.Preload("Items").First(&created, order.ID)

	utils.NotifyOrderEvent("order.created", created)
	ws.MainHub.Broadcast("role:"+models.RoleCuisinier, ws.Event{Type: "order:new", Payload: created})
	ws.MainHub.Broadcast("role:"+models.RoleAdmin, ws.Event{Type: "order:new", Payload: created})

	ctx.JSON(http.StatusCreated, created)
}

// orderRejection marks business-rule failures inside the creation
// transaction so they roll back and surface as 400s, not 500s.
type orderRejection struct {
	msg string
}

func (r *orderRejection) Error() string { return r.msg }

// GetOrders lists the caller's order history. Guests track their orders by
// the phone number they ordered with.
func GetOrders(ctx *gin.Context) {
	query := initializers.DB
	if user, ok := middlewares.CurrentUser(ctx); ok {
		query = query.Where("user_id = ? OR phone = ?", user.ID, user.Phone)
	} else {
		phone := ctx.Query("phone")
		if phone == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, "Phone number required for guest order lookup")
			return
		}
		query = query.Where("user_id IS NULL AND phone = ?", phone)
	}

	var orders []models.Order
	result := query.
		Preload("Items").
		Order("created_at desc").
		Find(&orders)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

func GetOrderByID(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	query := initializers.DB.Preload("Items").Where("id = ?", orderID)
	if user, ok := middlewares.CurrentUser(ctx); ok {
		if !user.IsStaff() {
			query = query.Where("user_id = ? OR phone = ?", user.ID, user.Phone)
		}
	} else {
		phone := ctx.Query("phone")
		if phone == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, "Phone number required for guest order lookup")
			return
		}
		query = query.Where("user_id IS NULL AND phone = ?", phone)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order through the status machine. Kitchen and
// delivery roles follow the happy path; admin tier may set any status.
// Stamping deliveredAt happens exactly once.
func UpdateOrderStatus(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid status")
		return
	}

	var order models.Order
	if err := initializers.DB.First(&order, orderID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	if order.Status == input.Status {
		// Idempotent re-submission: accepted, nothing re-stamped.
		initializers.DB.Preload("Items").First(&order, order.ID)
		ctx.JSON(http.StatusOK, order)
		return
	}

	if user.IsAdminTier() {
		if order.Status.IsTerminal() {
			sendErrorResponse(ctx, http.StatusBadRequest, "Order is in a terminal status")
			return
		}
	} else if !order.Status.CanTransitionTo(input.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, input.Status))
		return
	}

	updates := map[string]any{"status": input.Status}
	if input.Status == models.OrderStatusDelivered && order.DeliveredAt == nil {
		updates["delivered_at"] = time.Now()
	}

	if err := initializers.DB.Model(&order).Updates(updates).Error; err != nil {
		log.Println("Update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	initializers.DB.Preload("Items").First(&order, order.ID)
	notifyStatusChange(order)

	ctx.JSON(http.StatusOK, order)
}

// notifyStatusChange persists a notification for the order owner, then
// pushes the change to the order room and the owner's user room, and to the
// external webhook. All pushes are fire and forget.
func notifyStatusChange(order models.Order) {
	if order.UserID != nil {
		orderID := order.ID
		notification := models.Notification{
			UserID:  *order.UserID,
			Type:    models.NotificationTypeOrder,
			Title:   "Order status updated",
			Body:    fmt.Sprintf("Your order #%d is now %s", order.ID, order.Status),
			OrderID: &orderID,
		}
		if err := initializers.DB.Create(&notification).Error; err != nil {
			log.Println("Notification error:", err)
		}

		ws.MainHub.Broadcast(fmt.Sprintf("user:%d", *order.UserID), ws.Event{
			Type:    "notification",
			Payload: notification,
		})
	}

	ws.MainHub.Broadcast(fmt.Sprintf("order:%d", order.ID), ws.Event{
		Type: "order:status-changed",
		Payload: gin.H{
			"orderId":   order.ID,
			"status":    order.Status,
			"updatedAt": order.UpdatedAt,
		},
	})

	utils.NotifyOrderEvent("order.status_changed", gin.H{
		"orderId": order.ID,
		"status":  order.Status,
	})
}

// CancelOrder is the narrow user-facing cancellation: only the owner, only
// while the order is still PENDING.
func CancelOrder(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	if err := initializers.DB.Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}

	if order.Status != models.OrderStatusPending {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cannot cancel an order already in preparation")
		return
	}

	if err := initializers.DB.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	initializers.DB.Preload("Items").First(&order, order.ID)
	notifyStatusChange(order)

	ctx.JSON(http.StatusOK, order)
}

func GetOrderStats(ctx *gin.Context) {
	var totalOrders, pendingOrders, completedOrders, cancelledOrders, todayOrders int64

	initializers.DB.Model(&models.Order{}).Count(&totalOrders)
	initializers.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)
	initializers.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusDelivered).Count(&completedOrders)
	initializers.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&cancelledOrders)

	type statusCount struct {
		Status models.OrderStatus `json:"status"`
		Count  int64              `json:"count"`
	}
	var ordersByStatus []statusCount
	initializers.DB.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&ordersByStatus)

	today := startOfToday()
	tomorrow := today.AddDate(0, 0, 1)

	initializers.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&todayOrders)

	var todayRevenue float64
	initializers.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", today, tomorrow, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&todayRevenue)

	ctx.JSON(http.StatusOK, gin.H{
		"totalOrders":     totalOrders,
		"pendingOrders":   pendingOrders,
		"completedOrders": completedOrders,
		"cancelledOrders": cancelledOrders,
		"ordersByStatus":  ordersByStatus,
		"todayOrders":     todayOrders,
		"todayRevenue":    todayRevenue,
	})
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func listOrdersByStatus(ctx *gin.Context, status models.OrderStatus) {
	var orders []models.Order
	result := initializers.DB.
		Where("status = ?", status).
		Preload("Items").
		Order("created_at asc").
		Find(&orders)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

func GetPendingOrders(ctx *gin.Context) {
	listOrdersByStatus(ctx, models.OrderStatusPending)
}

func GetReadyOrders(ctx *gin.Context) {
	listOrdersByStatus(ctx, models.OrderStatusReady)
}

func GetAllOrders(ctx *gin.Context) {
	var orders []models.Order
	result := initializers.DB.
		Preload("Items").
		Order("created_at desc").
		Find(&orders)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	ctx.JSON(http.StatusOK, orders)
}
