package live

import (
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type LiveController struct {
	Hub    *Hub
	Logger *zap.Logger
}

func NewLiveController(hub *Hub, logger *zap.Logger) *LiveController {
	return &LiveController{Hub: hub, Logger: logger}
}

// HandleWebSocket keeps the connection open and streams hub events.
// Reads are drained only to detect the close handshake.
func (c *LiveController) HandleWebSocket(conn *websocket.Conn) {
	send := c.Hub.register(conn)
	defer c.Hub.unregister(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
