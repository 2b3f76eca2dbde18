package utils

import "github.com/fnd-app/fnd-api/models"

// Permission tags per role. Roles form a hierarchy: each staff role extends
// the client set, admin extends kitchen and delivery, super admin implies
// everything (no stringly wildcard; it is handled in HasPermission).

var clientPermissions = []string{
	"products:read",
	"cart:create", "cart:read", "cart:update", "cart:delete",
	"orders:create", "orders:read-own", "orders:cancel-own",
	"favorites:create", "favorites:read", "favorites:delete",
	"reviews:create", "reviews:read", "reviews:update-own", "reviews:delete-own",
	"profile:read", "profile:update",
	"chat:send", "chat:read-own",
	"loyalty:read", "loyalty:redeem",
	"notifications:read", "notifications:mark-read",
}

var cuisinierPermissions = append([]string{
	"orders:read-all", "orders:update-status", "orders:view-kitchen",
	"products:update-availability",
	"chat:read-order", "chat:send-order",
}, clientPermissions...)

var livreurPermissions = append([]string{
	"orders:read-ready", "orders:update-status", "orders:view-delivery",
	"chat:read-order", "chat:send-order",
}, clientPermissions...)

var adminPermissions = append([]string{
	"products:create", "products:update", "products:delete",
	"orders:read-all", "orders:update-all", "orders:cancel-any", "orders:view-stats",
	"promos:create", "promos:read", "promos:update", "promos:delete",
	"reviews:read-all", "reviews:delete-any", "reviews:respond",
	"users:read", "users:update",
	"stats:dashboard", "stats:reports",
	"chat:read-all", "chat:send-any",
}, append(cuisinierPermissions, livreurPermissions...)...)

var rolePermissions = map[string]map[string]bool{
	models.RoleClient:    toSet(clientPermissions),
	models.RoleCuisinier: toSet(cuisinierPermissions),
	models.RoleLivreur:   toSet(livreurPermissions),
	models.RoleAdmin:     toSet(adminPermissions),
}

func toSet(perms []string) map[string]bool {
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

// HasPermission checks role membership for a permission tag.
// SUPER_ADMIN holds every permission.
func HasPermission(role, permission string) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	return rolePermissions[role][permission]
}
