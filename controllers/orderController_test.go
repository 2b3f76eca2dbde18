package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fillCart(t *testing.T, db *gorm.DB, userID uint, lines map[uint]int) {
	t.Helper()
	cart, err := getOrCreateCart(db, userID)
	require.NoError(t, err)
	for productID, quantity := range lines {
		require.NoError(t, upsertCartItem(db, cart.ID, productID, quantity))
	}
}

func TestCreateOrderFromCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	tajine := createTestProduct(t, db, "Tajine poulet", 65, true)
	harira := createTestProduct(t, db, "Harira", 18, true)
	fillCart(t, db, user.ID, map[uint]int{tajine.ID: 2, harira.ID: 1})

	router := orderRouter()
	token := authToken(t, user)

	recorder := performRequest(router, "POST", "/api/orders", token,
		jsonBody(t, gin.H{"phone": "0612345678", "address": "12 Rue des Orangers"}))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order).Error)

	// 2*65 + 18 = 148 subtotal, plus the flat delivery fee.
	assert.InDelta(t, 148.0, order.Subtotal, 0.001)
	assert.InDelta(t, models.DeliveryFee, order.DeliveryFee, 0.001)
	assert.InDelta(t, 163.0, order.Total, 0.001)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.DefaultPaymentMethod, order.PaymentMethod)
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)
	assert.Len(t, order.Items, 2)

	// Lines are frozen snapshots of the catalog.
	for _, item := range order.Items {
		if item.ProductID == tajine.ID {
			assert.Equal(t, "Tajine poulet", item.ProductName)
			assert.InDelta(t, 65.0, item.ProductPrice, 0.001)
			assert.InDelta(t, 130.0, item.Subtotal, 0.001)
		}
	}

	// The cart is emptied by the same transaction.
	var remaining int64
	db.Model(&models.CartItem{}).Count(&remaining)
	assert.Zero(t, remaining)

	// One point per DH of subtotal, floored.
	var loyalty models.LoyaltyPoints
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&loyalty).Error)
	assert.Equal(t, 148, loyalty.Points)
	assert.Equal(t, 148, loyalty.TotalEarned)

	var loyaltyTx models.LoyaltyTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&loyaltyTx).Error)
	assert.Equal(t, models.LoyaltyTxEarned, loyaltyTx.Type)
	assert.Equal(t, 148, loyaltyTx.Points)
}

func TestCreateOrderAsGuest(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "Couscous royal", 70, true)
	router := orderRouter()

	recorder := performRequest(router, "POST", "/api/orders", "",
		jsonBody(t, gin.H{
			"phone":   "0698765432",
			"address": "45 Avenue Hassan II",
			"items":   []gin.H{{"productId": product.ID, "quantity": 2}},
		}))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Nil(t, order.UserID)
	assert.InDelta(t, 140.0+models.DeliveryFee, order.Total, 0.001)

	// Guests earn no points.
	var loyaltyRows int64
	db.Model(&models.LoyaltyPoints{}).Count(&loyaltyRows)
	assert.Zero(t, loyaltyRows)
}

func TestCreateOrderRejections(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	router := orderRouter()
	token := authToken(t, user)

	t.Run("missing phone or address", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/orders", token,
			jsonBody(t, gin.H{"phone": "0612345678"}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/orders", token,
			jsonBody(t, gin.H{"phone": "0612345678", "address": "Somewhere"}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("guest without items", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/orders", "",
			jsonBody(t, gin.H{"phone": "0612345678", "address": "Somewhere"}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unavailable item rejects the whole order", func(t *testing.T) {
		available := createTestProduct(t, db, "Msemen", 10, true)
		unavailable := createTestProduct(t, db, "Pastilla", 80, false)
		fillCart(t, db, user.ID, map[uint]int{available.ID: 1, unavailable.ID: 1})

		recorder := performRequest(router, "POST", "/api/orders", token,
			jsonBody(t, gin.H{"phone": "0612345678", "address": "Somewhere"}))
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		payload := decodeJSON(t, recorder)
		assert.Len(t, payload["invalidItems"], 1)

		var orderCount int64
		db.Model(&models.Order{}).Count(&orderCount)
		assert.Zero(t, orderCount, "no partial order may be written")
	})
}

func TestCreateOrderWithPromo(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	product := createTestProduct(t, db, "Tajine poulet", 100, true)
	router := orderRouter()
	token := authToken(t, user)

	limit := 1
	promo := models.PromoCode{
		Code:       "BIENVENUE20",
		Type:       models.PromoTypePercentage,
		Value:      20,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		UsageLimit: &limit,
		Active:     true,
	}
	require.NoError(t, db.Create(&promo).Error)

	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	recorder := performRequest(router, "POST", "/api/orders", token,
		jsonBody(t, gin.H{
			"phone":     "0612345678",
			"address":   "Somewhere",
			"promoCode": "bienvenue20",
		}))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.InDelta(t, 20.0, order.Discount, 0.001)
	assert.InDelta(t, 100.0+models.DeliveryFee-20.0, order.Total, 0.001)
	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "BIENVENUE20", *order.PromoCode, "codes are stored uppercase")

	// The usage slot is consumed at commit time.
	var used models.PromoCode
	require.NoError(t, db.Where("code = ?", "BIENVENUE20").First(&used).Error)
	assert.Equal(t, 1, used.UsageCount)

	t.Run("exhausted code rejects and rolls back", func(t *testing.T) {
		fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

		recorder := performRequest(router, "POST", "/api/orders", token,
			jsonBody(t, gin.H{
				"phone":     "0612345678",
				"address":   "Somewhere",
				"promoCode": "BIENVENUE20",
			}))
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var orderCount int64
		db.Model(&models.Order{}).Count(&orderCount)
		assert.Equal(t, int64(1), orderCount)

		// The rejected attempt must not leave the cart cleared.
		var cartItems int64
		db.Model(&models.CartItem{}).Count(&cartItems)
		assert.Equal(t, int64(1), cartItems)
	})

	t.Run("unknown code", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/orders", token,
			jsonBody(t, gin.H{
				"phone":     "0612345678",
				"address":   "Somewhere",
				"promoCode": "NOPE",
			}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestCreateOrderWithFreeDeliveryPromo(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	product := createTestProduct(t, db, "Couscous royal", 70, true)
	router := orderRouter()
	token := authToken(t, user)

	promo := models.PromoCode{
		Code:       "LIVGRATUITE",
		Type:       models.PromoTypeFreeDelivery,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		Active:     true,
	}
	require.NoError(t, db.Create(&promo).Error)
	fillCart(t, db, user.ID, map[uint]int{product.ID: 1})

	recorder := performRequest(router, "POST", "/api/orders", token,
		jsonBody(t, gin.H{
			"phone":     "0612345678",
			"address":   "Somewhere",
			"promoCode": "LIVGRATUITE",
		}))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Zero(t, order.DeliveryFee)
	assert.Zero(t, order.Discount)
	assert.InDelta(t, 70.0, order.Total, 0.001)
}

func placeOrder(t *testing.T, db *gorm.DB, userID *uint, status models.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		UserID:        userID,
		Phone:         "0612345678",
		Address:       "Somewhere",
		Status:        status,
		Subtotal:      100,
		DeliveryFee:   models.DeliveryFee,
		Total:         100 + models.DeliveryFee,
		PaymentMethod: models.DefaultPaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestGetOrdersAsGuest(t *testing.T) {
	db := setupTestDB(t)
	router := orderRouter()

	placeOrder(t, db, nil, models.OrderStatusPending)

	t.Run("phone is required", func(t *testing.T) {
		recorder := performRequest(router, "GET", "/api/orders", "", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("matches on the order phone", func(t *testing.T) {
		recorder := performRequest(router, "GET", "/api/orders?phone=0612345678", "", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var orders []models.Order
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &orders))
		assert.Len(t, orders, 1)
	})

	t.Run("other phones see nothing", func(t *testing.T) {
		recorder := performRequest(router, "GET", "/api/orders?phone=0600000001", "", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var orders []models.Order
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &orders))
		assert.Empty(t, orders)
	})
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	router := orderRouter()
	token := authToken(t, user)

	t.Run("owner cancels a pending order", func(t *testing.T) {
		order := placeOrder(t, db, &user.ID, models.OrderStatusPending)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/cancel", order.ID), token, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var cancelled models.Order
		require.NoError(t, db.First(&cancelled, order.ID).Error)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	})

	t.Run("too late once preparation started", func(t *testing.T) {
		order := placeOrder(t, db, &user.ID, models.OrderStatusPreparing)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/cancel", order.ID), token, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("cannot cancel someone else's order", func(t *testing.T) {
		stranger := createTestUser(t, db, models.RoleClient)
		order := placeOrder(t, db, &stranger.ID, models.OrderStatusPending)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/cancel", order.ID), token, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	client := createTestUser(t, db, models.RoleClient)
	cook := createTestUser(t, db, models.RoleCuisinier)
	admin := createTestUser(t, db, models.RoleAdmin)
	router := orderRouter()
	cookToken := authToken(t, cook)
	adminToken := authToken(t, admin)

	t.Run("kitchen follows the happy path", func(t *testing.T) {
		order := placeOrder(t, db, &client.ID, models.OrderStatusPending)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), cookToken,
			jsonBody(t, gin.H{"status": "PREPARING"}))
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		var updated models.Order
		require.NoError(t, db.First(&updated, order.ID).Error)
		assert.Equal(t, models.OrderStatusPreparing, updated.Status)

		// A notification row is written for the order owner.
		var notifications int64
		db.Model(&models.Notification{}).Where("user_id = ?", client.ID).Count(&notifications)
		assert.Equal(t, int64(1), notifications)
	})

	t.Run("kitchen cannot skip ahead", func(t *testing.T) {
		order := placeOrder(t, db, &client.ID, models.OrderStatusPending)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), cookToken,
			jsonBody(t, gin.H{"status": "DELIVERED"}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("admin may skip ahead", func(t *testing.T) {
		order := placeOrder(t, db, &client.ID, models.OrderStatusPending)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), adminToken,
			jsonBody(t, gin.H{"status": "READY"}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var updated models.Order
		require.NoError(t, db.First(&updated, order.ID).Error)
		assert.Equal(t, models.OrderStatusReady, updated.Status)
	})

	t.Run("delivered stamps deliveredAt exactly once", func(t *testing.T) {
		order := placeOrder(t, db, &client.ID, models.OrderStatusDelivering)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), cookToken,
			jsonBody(t, gin.H{"status": "DELIVERED"}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var delivered models.Order
		require.NoError(t, db.First(&delivered, order.ID).Error)
		require.NotNil(t, delivered.DeliveredAt)
		stamped := *delivered.DeliveredAt

		// Idempotent re-submission keeps the original stamp.
		recorder = performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), cookToken,
			jsonBody(t, gin.H{"status": "DELIVERED"}))
		require.Equal(t, http.StatusOK, recorder.Code)

		require.NoError(t, db.First(&delivered, order.ID).Error)
		require.NotNil(t, delivered.DeliveredAt)
		assert.True(t, delivered.DeliveredAt.Equal(stamped))
	})

	t.Run("terminal orders stay terminal", func(t *testing.T) {
		order := placeOrder(t, db, &client.ID, models.OrderStatusCancelled)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), adminToken,
			jsonBody(t, gin.H{"status": "PREPARING"}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		order := placeOrder(t, db, &client.ID, models.OrderStatusPending)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/orders/%d/status", order.ID), cookToken,
			jsonBody(t, gin.H{"status": "SHIPPED"}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
