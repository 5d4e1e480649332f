package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-erp/internal/ws"
)

// WSUpgrade rechaza peticiones que no son de upgrade websocket.
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// StockFeed GET /ws/stock — suscribe la conexión al hub de eventos de stock.
// El feed es de solo lectura: los mensajes entrantes se descartan y el read
// loop solo existe para detectar el cierre.
func StockFeed(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		hub.Register <- conn
		defer func() { hub.Unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
