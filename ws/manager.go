package ws

import (
	"context"
	"sync"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"
)

// WebSocketManager relays bus events to every connected dashboard.
type WebSocketManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	bus *events.Bus
}

func NewWebSocketManager(bus *events.Bus) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		bus:        bus,
	}
}

// Run serves registrations and relays events until ctx is cancelled.
func (manager *WebSocketManager) Run(ctx context.Context) {
	sub := manager.bus.Subscribe()
	defer manager.bus.Unsubscribe(sub)
	defer close(manager.done)
	defer manager.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.ID] = client
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.CtxInfo(client.Ctx, "websocket client registered", "total", total)

		case client := <-manager.unregister:
			manager.remove(client)

		case event := <-sub:
			manager.broadcastEvent(event)
		}
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if current, ok := manager.clients[client.ID]; ok && current == client {
		close(client.Send)
		delete(manager.clients, client.ID)
		logger.CtxInfo(client.Ctx, "websocket client unregistered", "total", len(manager.clients))
	}
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for id, client := range manager.clients {
		close(client.Send)
		delete(manager.clients, id)
	}
}

// Register hands a new client to Run. It returns false once Run has stopped.
func (manager *WebSocketManager) Register(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.done:
		return false
	}
}

func (manager *WebSocketManager) Unregister(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

func (manager *WebSocketManager) broadcastEvent(event events.Event) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for _, client := range manager.clients {
		if !client.Wants(event.Topic) {
			continue
		}
		select {
		case client.Send <- event:
		default:
			// Full send buffer: the client is stuck, drop it.
			go manager.Unregister(client)
			logger.CtxWarn(client.Ctx, "websocket client dropped due to full send channel")
		}
	}
}

func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}
