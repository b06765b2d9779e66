package handler

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"restaurant_manager/constants"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

func (h *Handler) GetNotifications(c *fiber.Ctx, ac middleware.AuthContext) error {
	var notifications []model.Notification
	query := h.DB.WithContext(c.UserContext()).Where("user_id = ?", ac.Claim.SubjectID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Order("id desc").Limit(100).Find(&notifications).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, notifications)
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "notificationId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	res := h.DB.WithContext(c.UserContext()).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, ac.Claim.SubjectID).
		Update("is_read", true)
	if res.Error != nil {
		return utils.HandleError(c, utils.NewInternalError(res.Error))
	}
	if res.RowsAffected == 0 {
		return utils.HandleError(c, utils.NewNotFoundError(constants.NOTIFICATION_NOT_FOUND))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.UPDATE_SUCCESS, fiber.Map{"id": id})
}

// RequireWebsocket rejects plain HTTP requests on the stream route.
func RequireWebsocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationStream relays the tenant's notification channel to the socket.
func (h *Handler) NotificationStream(conn *websocket.Conn) {
	defer conn.Close()

	ac, ok := middleware.FromLocals(conn.Locals(constants.AUTH_LOCALS_KEY))
	if !ok || ac.EffectiveTenantID == nil {
		conn.WriteJSON(fiber.Map{"success": false, "message": constants.FORBIDDEN})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pubsub := h.Notifier.Subscribe(ctx, *ac.EffectiveTenantID)
	if pubsub == nil {
		conn.WriteJSON(fiber.Map{"success": false, "message": "live notifications are disabled"})
		return
	}
	defer pubsub.Close()

	// reader loop only detects the client going away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": ac.Claim.SubjectID, "error": err}).Debug("notification stream closed")
				return
			}
		}
	}
}
