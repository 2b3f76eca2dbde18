package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/fnd-app/fnd-api/ws"
	"github.com/gin-gonic/gin"
)

// findChatOrder loads the order and checks the requester may access its chat.
// Staff can read any order chat, clients only their own.
func findChatOrder(ctx *gin.Context) (models.Order, bool) {
	user, _ := middlewares.CurrentUser(ctx)

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return models.Order{}, false
	}

	var order models.Order
	if err := initializers.DB.First(&order, orderID).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return models.Order{}, false
	}

	if !user.IsStaff() && (order.UserID == nil || *order.UserID != user.ID) {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return models.Order{}, false
	}

	return order, true
}

func GetOrderMessages(ctx *gin.Context) {
	order, ok := findChatOrder(ctx)
	if !ok {
		return
	}

	var messages []models.Message
	result := initializers.DB.
		Where("order_id = ?", order.ID).
		Order("created_at asc").
		Find(&messages)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	// Reading a conversation marks the other party's messages as read.
	user, _ := middlewares.CurrentUser(ctx)
	initializers.DB.Model(&models.Message{}).
		Where("order_id = ? AND sender_id <> ? AND `read` = ?", order.ID, user.ID, false).
		Update("read", true)

	ctx.JSON(http.StatusOK, messages)
}

func SendMessage(ctx *gin.Context) {
	order, ok := findChatOrder(ctx)
	if !ok {
		return
	}

	if order.Status.IsTerminal() {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cannot send messages on a closed order")
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
		Type    string `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, _ := middlewares.CurrentUser(ctx)

	msgType := input.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	message := models.Message{
		OrderID:    order.ID,
		SenderID:   user.ID,
		SenderRole: user.Role,
		Content:    input.Content,
		Type:       msgType,
	}

	if err := initializers.DB.Create(&message).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to send message")
		return
	}

	ws.MainHub.Broadcast(fmt.Sprintf("order:%d", order.ID), ws.Event{
		Type:    "chat.message",
		Payload: message,
	})

	// Notify the counterparty even when they are not in the order room.
	if user.IsStaff() && order.UserID != nil {
		ws.MainHub.Broadcast(fmt.Sprintf("user:%d", *order.UserID), ws.Event{
			Type:    "chat.message",
			Payload: message,
		})
	} else if !user.IsStaff() {
		ws.MainHub.Broadcast("role:"+models.RoleCuisinier, ws.Event{
			Type:    "chat.message",
			Payload: message,
		})
	}

	ctx.JSON(http.StatusCreated, message)
}

func GetNotifications(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)
	_, limit, offset := paginationParams(ctx)

	var notifications []models.Notification
	result := initializers.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&notifications)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	var unread int64
	initializers.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Count(&unread)

	ctx.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

func MarkNotificationRead(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	notificationID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse notification id")
		return
	}

	result := initializers.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, user.ID).
		Update("read", true)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Notification not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	result := initializers.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Update("read", true)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
}

func DeleteNotification(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	notificationID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse notification id")
		return
	}

	result := initializers.DB.
		Where("id = ? AND user_id = ?", notificationID, user.ID).
		Delete(&models.Notification{})
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Notification not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Notification deleted"})
}
