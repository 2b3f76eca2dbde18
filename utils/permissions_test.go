package utils

import (
	"testing"

	"github.com/fnd-app/fnd-api/models"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	// Clients manage their own cart and orders but never the catalog.
	assert.True(t, HasPermission(models.RoleClient, "cart:create"))
	assert.True(t, HasPermission(models.RoleClient, "orders:cancel-own"))
	assert.False(t, HasPermission(models.RoleClient, "products:create"))
	assert.False(t, HasPermission(models.RoleClient, "orders:update-status"))

	// Kitchen staff keep the client set plus kitchen operations.
	assert.True(t, HasPermission(models.RoleCuisinier, "orders:update-status"))
	assert.True(t, HasPermission(models.RoleCuisinier, "cart:create"))
	assert.False(t, HasPermission(models.RoleCuisinier, "promos:create"))

	// Delivery staff see ready orders, not kitchen views.
	assert.True(t, HasPermission(models.RoleLivreur, "orders:read-ready"))
	assert.False(t, HasPermission(models.RoleLivreur, "orders:view-kitchen"))

	// Admins get management permissions on top of both staff sets.
	assert.True(t, HasPermission(models.RoleAdmin, "products:create"))
	assert.True(t, HasPermission(models.RoleAdmin, "orders:view-kitchen"))
	assert.True(t, HasPermission(models.RoleAdmin, "stats:dashboard"))

	// Super admin holds everything, including tags no role list carries.
	assert.True(t, HasPermission(models.RoleSuperAdmin, "stats:dashboard"))
	assert.True(t, HasPermission(models.RoleSuperAdmin, "anything:at-all"))

	// Unknown roles hold nothing.
	assert.False(t, HasPermission("GUEST", "cart:create"))
}
