package ws

import (
	"context"
	"net/http"
	"strings"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager *WebSocketManager
}

func NewWebSocketHandler(manager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{
		Manager: manager,
	}
}

func (h *WebSocketHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws", h.ServeWS)
}

// ServeWS upgrades the request. ?topics=a,b limits the relayed events.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "websocket upgrade error", "error", err.Error())
		return
	}

	clientID := uuid.NewString()
	// The request context ends with the handler; the client outlives it.
	ctx := logger.WithClientID(context.Background(), clientID)
	if requestID := logger.GetRequestID(c.Request.Context()); requestID != "" {
		ctx = logger.WithRequestID(ctx, requestID)
	}

	client := &Client{
		ID:      clientID,
		Conn:    conn,
		Send:    make(chan events.Event, 64),
		Ctx:     ctx,
		Manager: h.Manager,
	}
	if raw := c.Query("topics"); raw != "" {
		var topics []events.Topic
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, events.Topic(t))
			}
		}
		client.SetTopics(topics)
	}

	if !h.Manager.Register(client) {
		conn.Close()
		return
	}

	go client.readPump()
	go client.writePump()
}
