package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Handler struct {
	hub      *Hub
	auth     authenticator
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from the given origins; an empty list allows any origin.
func NewHandler(hub *Hub, auth authenticator, allowedOrigins []string) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// HandleTopic streams reply and topic events for one topic.
func (h *Handler) HandleTopic(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}
	h.handle(c, topicID.String(), "Connected to topic "+topicID.String())
}

// HandleGlobal streams topic created/updated/deleted events for list pages.
func (h *Handler) HandleGlobal(c *gin.Context) {
	h.handle(c, "", "Connected to global WebSocket")
}

func (h *Handler) handle(c *gin.Context, topicID, greeting string) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	user, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		h.hub.log.Error("ws authenticate", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(conn, user.ID.String())
	h.hub.register(topicID, client)
	hello, _ := json.Marshal(gin.H{"type": "connected", "message": greeting})
	client.send <- hello

	h.hub.log.Info("ws connected", slog.String("topic_id", topicID), slog.String("user_id", client.userID))
	go h.hub.writePump(client)
	h.hub.readPump(topicID, client)
	h.hub.log.Info("ws disconnected", slog.String("topic_id", topicID), slog.String("user_id", client.userID))
}
