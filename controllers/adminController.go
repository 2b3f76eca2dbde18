package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
)

func GetDashboardStats(ctx *gin.Context) {
	today := startOfToday()
	tomorrow := today.AddDate(0, 0, 1)

	var todayOrders, pendingOrders, preparingOrders int64
	initializers.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&todayOrders)
	initializers.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&pendingOrders)
	initializers.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPreparing).
		Count(&preparingOrders)

	var todayRevenue float64
	initializers.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", today, tomorrow, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&todayRevenue)

	ctx.JSON(http.StatusOK, gin.H{
		"todayOrders":     todayOrders,
		"pendingOrders":   pendingOrders,
		"preparingOrders": preparingOrders,
		"todayRevenue":    todayRevenue,
	})
}

func periodRange(period string) (time.Time, time.Time) {
	now := time.Now()
	switch period {
	case "week":
		return startOfToday().AddDate(0, 0, -7), now
	case "month":
		return startOfToday().AddDate(0, -1, 0), now
	default: // today
		start := startOfToday()
		return start, start.AddDate(0, 0, 1)
	}
}

func GetSalesStats(ctx *gin.Context) {
	period := ctx.DefaultQuery("period", "today")
	startDate, endDate := periodRange(period)

	type salesAgg struct {
		TotalSales  float64
		Subtotal    float64
		DeliveryFee float64
		OrderCount  int64
	}
	var agg salesAgg
	result := initializers.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", startDate, endDate, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0) as total_sales, COALESCE(SUM(subtotal), 0) as subtotal, COALESCE(SUM(delivery_fee), 0) as delivery_fee, COUNT(*) as order_count").
		Scan(&agg)

	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch sales stats")
		return
	}

	var average float64
	if agg.OrderCount > 0 {
		average = agg.TotalSales / float64(agg.OrderCount)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"period":            period,
		"totalSales":        agg.TotalSales,
		"subtotal":          agg.Subtotal,
		"deliveryFees":      agg.DeliveryFee,
		"orderCount":        agg.OrderCount,
		"averageOrderValue": average,
	})
}

func GetProductStats(ctx *gin.Context) {
	var totalProducts, availableProducts, popularProducts int64
	initializers.DB.Model(&models.Product{}).Count(&totalProducts)
	initializers.DB.Model(&models.Product{}).Where("available = ?", true).Count(&availableProducts)
	initializers.DB.Model(&models.Product{}).Where("popular = ?", true).Count(&popularProducts)

	type topProduct struct {
		ProductID uint   `json:"id"`
		Name      string `json:"name"`
		Category  string `json:"category"`
		TotalSold int64  `json:"totalSold"`
	}
	var topProducts []topProduct
	initializers.DB.Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.product_name as name, products.category, SUM(order_items.quantity) as total_sold").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, order_items.product_name, products.category").
		Order("total_sold desc").
		Limit(10).
		Scan(&topProducts)

	ctx.JSON(http.StatusOK, gin.H{
		"totalProducts":     totalProducts,
		"availableProducts": availableProducts,
		"popularProducts":   popularProducts,
		"topProducts":       topProducts,
	})
}

func GetUserStats(ctx *gin.Context) {
	var totalUsers int64
	initializers.DB.Model(&models.User{}).Count(&totalUsers)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	var activeUsers int64
	initializers.DB.Model(&models.User{}).
		Where("id IN (?)", initializers.DB.Model(&models.Order{}).
			Select("user_id").
			Where("user_id IS NOT NULL AND created_at >= ?", thirtyDaysAgo)).
		Count(&activeUsers)

	type roleCount struct {
		Role  string `json:"role"`
		Count int64  `json:"count"`
	}
	var usersByRole []roleCount
	initializers.DB.Model(&models.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&usersByRole)

	ctx.JSON(http.StatusOK, gin.H{
		"totalUsers":  totalUsers,
		"activeUsers": activeUsers,
		"usersByRole": usersByRole,
	})
}

func GetFinanceStats(ctx *gin.Context) {
	var revenue, deliveryFees, discountsGiven float64
	base := "status <> ?"

	initializers.DB.Model(&models.Order{}).
		Where(base, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue)
	initializers.DB.Model(&models.Order{}).
		Where(base, models.OrderStatusCancelled).
		Select("COALESCE(SUM(delivery_fee), 0)").
		Scan(&deliveryFees)
	initializers.DB.Model(&models.Order{}).
		Where(base, models.OrderStatusCancelled).
		Select("COALESCE(SUM(discount), 0)").
		Scan(&discountsGiven)

	var pointsIssued, pointsRedeemed int64
	initializers.DB.Model(&models.LoyaltyTransaction{}).
		Where("type = ?", models.LoyaltyTxEarned).
		Select("COALESCE(SUM(points), 0)").
		Scan(&pointsIssued)
	initializers.DB.Model(&models.LoyaltyTransaction{}).
		Where("type = ?", models.LoyaltyTxRedeemed).
		Select("COALESCE(SUM(points), 0)").
		Scan(&pointsRedeemed)

	ctx.JSON(http.StatusOK, gin.H{
		"totalRevenue":   revenue,
		"deliveryFees":   deliveryFees,
		"discountsGiven": discountsGiven,
		"loyalty": gin.H{
			"pointsIssued":   pointsIssued,
			"pointsRedeemed": pointsRedeemed,
		},
	})
}

func GetSalesReport(ctx *gin.Context) {
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

	var orders []models.Order
	result := initializers.DB.
		Where("created_at >= ? AND status <> ?", thirtyDaysAgo, models.OrderStatusCancelled).
		Order("created_at desc").
		Find(&orders)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to generate sales report")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"reportType":  "sales",
		"generatedAt": time.Now(),
		"period":      "last_30_days",
		"data":        orders,
	})
}

func GetStaff(ctx *gin.Context) {
	var staff []models.User
	result := initializers.DB.
		Where("role IN ?", models.StaffRoles).
		Order("created_at desc").
		Find(&staff)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch staff")
		return
	}

	ctx.JSON(http.StatusOK, staff)
}

func validStaffRole(role string) bool {
	for _, r := range models.StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

func CreateStaff(ctx *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if !validStaffRole(input.Role) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid staff role")
		return
	}

	var existing models.User
	if err := initializers.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		sendErrorResponse(ctx, http.StatusConflict, msgUserAlreadyExists)
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	staff := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hashed,
		Role:     input.Role,
	}

	if err := initializers.DB.Create(&staff).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create staff member")
		return
	}

	ctx.JSON(http.StatusCreated, staff)
}

func UpdateStaff(ctx *gin.Context) {
	actor, _ := middlewares.CurrentUser(ctx)

	staffID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse staff id")
		return
	}

	var staff models.User
	if err := initializers.DB.First(&staff, staffID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Staff member not found")
		return
	}

	var input struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		Role  *string `json:"role"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Role != nil {
		// Role assignment is reserved to the super admin.
		if actor.Role != models.RoleSuperAdmin {
			sendErrorResponse(ctx, http.StatusForbidden, "Only a super admin may assign roles")
			return
		}
		if !validStaffRole(*input.Role) && *input.Role != models.RoleClient {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid staff role")
			return
		}
		updates["role"] = *input.Role
	}

	if err := initializers.DB.Model(&staff).Updates(updates).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update staff member")
		return
	}

	ctx.JSON(http.StatusOK, staff)
}

func DeleteStaff(ctx *gin.Context) {
	staffID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse staff id")
		return
	}

	result := initializers.DB.
		Where("id = ? AND role IN ?", staffID, models.StaffRoles).
		Delete(&models.User{})
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete staff member")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Staff member not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Staff member removed"})
}
