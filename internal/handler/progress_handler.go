package handler

import (
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/pkg/serverutils"
	internalWS "code-concierge-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ProgressHandler upgrades admin connections that receive import progress frames.
type ProgressHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewProgressHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ServeWs authenticates the handshake and hands the connection to the hub.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the query wins.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return serverutils.Unauthorized("Missing token (Query 'token' or Header 'Authorization')")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		h.logger.Warn("PROGRESS_WS", "Invalid token in handshake", map[string]interface{}{"error": err})
		return serverutils.Unauthorized("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return serverutils.Unauthorized("Invalid token claims")
	}
	if role, _ := claims["role"].(string); role != serverutils.RoleAdmin {
		return serverutils.Forbidden("Access denied: Admins only")
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return serverutils.Unauthorized("Invalid user ID format in token")
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("PROGRESS_WS", "Session started", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("PROGRESS_WS", "Session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/admin/v1/ws", h.ServeWs)
}
