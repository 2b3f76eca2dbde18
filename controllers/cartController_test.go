package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCartItem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	product := createTestProduct(t, db, "Tajine poulet", 65, true)
	router := cartRouter()
	token := authToken(t, user)

	t.Run("adds a new line", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/cart/items", token,
			jsonBody(t, gin.H{"productId": product.ID, "quantity": 2}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var item models.CartItem
		require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("adding the same product sums quantities", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/cart/items", token,
			jsonBody(t, gin.H{"productId": product.ID, "quantity": 3}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var items []models.CartItem
		require.NoError(t, db.Where("product_id = ?", product.ID).Find(&items).Error)
		require.Len(t, items, 1, "must stay a single line per product")
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("defaults quantity to one", func(t *testing.T) {
		other := createTestProduct(t, db, "Harira", 18, true)
		recorder := performRequest(router, "POST", "/api/cart/items", token,
			jsonBody(t, gin.H{"productId": other.ID}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var item models.CartItem
		require.NoError(t, db.Where("product_id = ?", other.ID).First(&item).Error)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("rejects unavailable product", func(t *testing.T) {
		unavailable := createTestProduct(t, db, "Pastilla", 80, false)
		recorder := performRequest(router, "POST", "/api/cart/items", token,
			jsonBody(t, gin.H{"productId": unavailable.ID, "quantity": 1}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/cart/items", token,
			jsonBody(t, gin.H{"productId": 9999, "quantity": 1}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/cart/items", "",
			jsonBody(t, gin.H{"productId": product.ID, "quantity": 1}))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestUpdateCartItem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	product := createTestProduct(t, db, "Couscous royal", 70, true)
	router := cartRouter()
	token := authToken(t, user)

	cart, err := getOrCreateCart(db, user.ID)
	require.NoError(t, err)
	require.NoError(t, upsertCartItem(db, cart.ID, product.ID, 2))

	var item models.CartItem
	require.NoError(t, db.Where("cart_id = ?", cart.ID).First(&item).Error)

	t.Run("updates quantity", func(t *testing.T) {
		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/cart/items/%d", item.ID), token,
			jsonBody(t, gin.H{"quantity": 4}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var updated models.CartItem
		require.NoError(t, db.First(&updated, item.ID).Error)
		assert.Equal(t, 4, updated.Quantity)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/cart/items/%d", item.ID), token,
			jsonBody(t, gin.H{"quantity": 0}))
		require.Equal(t, http.StatusOK, recorder.Code)

		var count int64
		db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("cannot touch another user's item", func(t *testing.T) {
		stranger := createTestUser(t, db, models.RoleClient)
		strangerCart, err := getOrCreateCart(db, stranger.ID)
		require.NoError(t, err)
		require.NoError(t, upsertCartItem(db, strangerCart.ID, product.ID, 1))

		var strangerItem models.CartItem
		require.NoError(t, db.Where("cart_id = ?", strangerCart.ID).First(&strangerItem).Error)

		recorder := performRequest(router, "PUT", fmt.Sprintf("/api/cart/items/%d", strangerItem.ID), token,
			jsonBody(t, gin.H{"quantity": 10}))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestClearCartAllowsReAdding(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	product := createTestProduct(t, db, "Brochettes", 45, true)
	router := cartRouter()
	token := authToken(t, user)

	recorder := performRequest(router, "POST", "/api/cart/items", token,
		jsonBody(t, gin.H{"productId": product.ID, "quantity": 2}))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(router, "DELETE", "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The unique (cart, product) index must not be blocked by the removal.
	recorder = performRequest(router, "POST", "/api/cart/items", token,
		jsonBody(t, gin.H{"productId": product.ID, "quantity": 1}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestValidateCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	router := cartRouter()
	token := authToken(t, user)

	t.Run("empty cart rejected", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/cart/validate", token, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	good := createTestProduct(t, db, "Msemen", 10, true)
	bad := createTestProduct(t, db, "Sellou", 30, true)

	cart, err := getOrCreateCart(db, user.ID)
	require.NoError(t, err)
	require.NoError(t, upsertCartItem(db, cart.ID, good.ID, 3))
	require.NoError(t, upsertCartItem(db, cart.ID, bad.ID, 1))

	t.Run("all available", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/cart/validate", token, nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		payload := decodeJSON(t, recorder)
		assert.Equal(t, true, payload["valid"])
		assert.InDelta(t, 60.0, payload["total"].(float64), 0.001)
	})

	t.Run("unavailable items are listed", func(t *testing.T) {
		require.NoError(t, db.Model(&bad).Update("available", false).Error)

		recorder := performRequest(router, "POST", "/api/cart/validate", token, nil)
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		payload := decodeJSON(t, recorder)
		assert.Len(t, payload["invalidItems"], 1)
		assert.InDelta(t, 30.0, payload["validTotal"].(float64), 0.001)
	})
}

func TestMergeCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, models.RoleClient)
	kept := createTestProduct(t, db, "Thé à la menthe", 12, true)
	gone := createTestProduct(t, db, "Cornes de gazelle", 25, false)
	router := cartRouter()
	token := authToken(t, user)

	// One line already lives server side.
	cart, err := getOrCreateCart(db, user.ID)
	require.NoError(t, err)
	require.NoError(t, upsertCartItem(db, cart.ID, kept.ID, 1))

	recorder := performRequest(router, "POST", "/api/cart/merge", token,
		jsonBody(t, gin.H{"items": []gin.H{
			{"productId": kept.ID, "quantity": 2},
			{"productId": gone.ID, "quantity": 1},
		}}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("cart_id = ?", cart.ID).Find(&items).Error)
	require.Len(t, items, 1, "unavailable product must not create a line")
	assert.Equal(t, 3, items[0].Quantity, "guest and server quantities must sum")

	payload := decodeJSON(t, recorder)
	assert.Len(t, payload["skipped"], 1)
}
