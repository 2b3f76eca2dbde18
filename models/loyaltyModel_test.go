package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsForSubtotal(t *testing.T) {
	assert.Equal(t, 149, PointsForSubtotal(149.9))
	assert.Equal(t, 150, PointsForSubtotal(150))
	assert.Equal(t, 0, PointsForSubtotal(0.5))
	assert.Equal(t, 0, PointsForSubtotal(0))
	assert.Equal(t, 0, PointsForSubtotal(-10))
}

func TestRedeemDiscount(t *testing.T) {
	assert.Equal(t, 3, RedeemDiscount(35))
	assert.Equal(t, 1, RedeemDiscount(10))
	assert.Equal(t, 0, RedeemDiscount(9))
	assert.Equal(t, 10, RedeemDiscount(100))
}
