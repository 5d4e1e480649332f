package ws

import (
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/taller-erp/pkg/logger"
)

// Hub mantiene los clientes websocket conectados y les difunde los eventos
// de stock. Un solo goroutine (Run) atiende los tres canales.
type Hub struct {
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte

	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	log     *logger.Logger
}

// NewHub construye el hub. Llamar Run en un goroutine antes de aceptar clientes.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		clients:    make(map[*websocket.Conn]bool),
		log:        log,
	}
}

// Run atiende registros, bajas y difusión hasta que el proceso termina.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			h.log.Debug().Msg("Cliente websocket conectado")

		case conn := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}
