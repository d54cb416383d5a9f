package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

// IncomingWSMessage is a control message sent by the dashboard.
type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan events.Event
	Ctx  context.Context

	Manager *WebSocketManager

	mu     sync.RWMutex
	topics map[events.Topic]struct{}
}

// Wants reports whether the client listens to t. No topics means all.
func (c *Client) Wants(t events.Topic) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.topics) == 0 {
		return true
	}
	_, ok := c.topics[t]
	return ok
}

func (c *Client) SetTopics(topics []events.Topic) {
	set := make(map[events.Topic]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}
	c.mu.Lock()
	c.topics = set
	c.mu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessage)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.CtxWarn(c.Ctx, "websocket read error", "error", err.Error())
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.CtxWarn(c.Ctx, "failed to parse websocket message", "error", err.Error())
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				logger.CtxWarn(c.Ctx, "websocket write error", "error", err.Error())
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case "subscribe":
		var payload struct {
			Topics []events.Topic `json:"topics"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.CtxWarn(c.Ctx, "invalid subscribe payload", "error", err.Error())
			return
		}
		c.SetTopics(payload.Topics)
		logger.CtxDebug(c.Ctx, "websocket topics updated", "topics", payload.Topics)

	default:
		logger.CtxWarn(c.Ctx, "unhandled websocket action", "action", msg.Action)
	}
}
