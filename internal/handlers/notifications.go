package handlers

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventcrew/eventcrew-api/internal/realtime"
	"github.com/eventcrew/eventcrew-api/internal/utils"
)

type NotificationHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
	Logger    *zap.Logger
}

func NewNotificationHandler(hub *realtime.Hub, jwtSecret string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{Hub: hub, JWTSecret: jwtSecret, Logger: logger}
}

// WebSocketHandler streams job-request status events to the authenticated
// user. The token travels as a query param because websocket upgrades do not
// pass through the bearer middleware.
func (h *NotificationHandler) WebSocketHandler(c *websocket.Conn) {
	claims, err := utils.ParseJWT(h.JWTSecret, c.Query("token"))
	if err != nil {
		h.Logger.Warn("ws rejected: bad token", zap.Error(err))
		c.Close()
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Drain the connection to keep it alive; clients only send ping frames.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
