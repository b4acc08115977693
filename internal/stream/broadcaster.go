package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/impact/internal/collision"
)

// FrameEvent is the JSON payload pushed to every connected client
// once per simulation tick.
type FrameEvent struct {
	Scenario  string               `json:"scenario"`
	Time      float64              `json:"time"`
	Collided  bool                 `json:"collided"`
	Momentum  float64              `json:"momentum"`
	Energy    float64              `json:"energy"`
	Particles []collision.Particle `json:"particles"`
}

// Broadcaster fans frame events out to websocket clients. Client
// registration and message delivery are serialized through a single
// goroutine; the clients map is guarded for the writers collected
// outside it.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan FrameEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
}

func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan FrameEvent, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	b.wg.Add(1)
	go b.run()

	return b
}

// Upgrader returns the websocket upgrader for HTTP handlers.
func (b *Broadcaster) Upgrader() websocket.Upgrader {
	return b.upgrader
}

func (b *Broadcaster) RegisterClient(conn *websocket.Conn) {
	select {
	case b.register <- conn:
	case <-b.done:
	}
}

func (b *Broadcaster) UnregisterClient(conn *websocket.Conn) {
	select {
	case b.unregister <- conn:
	case <-b.done:
	}
}

// ClientCount reports the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Notify queues a frame for delivery to all clients.
func (b *Broadcaster) Notify(ctx context.Context, event FrameEvent) error {
	select {
	case b.broadcast <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return fmt.Errorf("broadcaster closed")
	case <-time.After(time.Second):
		return fmt.Errorf("broadcast queue full")
	}
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			if conn == nil {
				continue
			}
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case event, ok := <-b.broadcast:
			if !ok {
				return
			}
			b.deliver(event)
		}
	}
}

func (b *Broadcaster) deliver(event FrameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	b.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	var failed []*websocket.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, conn)
			conn.Close()
		}
	}

	if len(failed) > 0 {
		b.mu.Lock()
		for _, conn := range failed {
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	}
}

// Close disconnects all clients and stops the delivery goroutine.
func (b *Broadcaster) Close() error {
	close(b.done)

	b.mu.Lock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
