package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promoValidationRouter() *gin.Engine {
	router := gin.New()
	router.POST("/api/promos/validate", ValidatePromoCode)
	return router
}

func TestValidatePromoCode(t *testing.T) {
	db := setupTestDB(t)
	router := promoValidationRouter()

	minAmount := 50.0
	promo := models.PromoCode{
		Code:       "RAMADAN10",
		Type:       models.PromoTypePercentage,
		Value:      10,
		MinAmount:  &minAmount,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		Active:     true,
	}
	require.NoError(t, db.Create(&promo).Error)

	t.Run("valid code returns the discount", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/promos/validate", "",
			jsonBody(t, gin.H{"code": "ramadan10", "orderTotal": 200}))
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		payload := decodeJSON(t, recorder)
		assert.Equal(t, "RAMADAN10", payload["code"])
		assert.InDelta(t, 20.0, payload["discount"].(float64), 0.001)
	})

	t.Run("below minimum amount", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/promos/validate", "",
			jsonBody(t, gin.H{"code": "RAMADAN10", "orderTotal": 30}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		recorder := performRequest(router, "POST", "/api/promos/validate", "",
			jsonBody(t, gin.H{"code": "NOPE", "orderTotal": 200}))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("expired code", func(t *testing.T) {
		expired := models.PromoCode{
			Code:       "ANCIEN",
			Type:       models.PromoTypeFixed,
			Value:      5,
			ValidFrom:  time.Now().Add(-48 * time.Hour),
			ValidUntil: time.Now().Add(-24 * time.Hour),
			Active:     true,
		}
		require.NoError(t, db.Create(&expired).Error)

		recorder := performRequest(router, "POST", "/api/promos/validate", "",
			jsonBody(t, gin.H{"code": "ANCIEN", "orderTotal": 200}))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("validation never consumes a usage slot", func(t *testing.T) {
		var after models.PromoCode
		require.NoError(t, db.Where("code = ?", "RAMADAN10").First(&after).Error)
		assert.Zero(t, after.UsageCount)
	})
}
