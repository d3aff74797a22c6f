// Live moderation feed over websocket.
package web

import (
	"net/http"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/modlog"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin is not enforceable for local panel deployments
	CheckOrigin: func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// SetupModLogFeed registers the /ws/modlog endpoint streaming moderation
// events to the panel as they happen.
func SetupModLogFeed(s *Server, hub *modlog.Hub) {
	s.GET("/ws/modlog", requireLogin(), modLogFeedHandler(hub))
}

func modLogFeedHandler(hub *modlog.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("No se pudo abrir el websocket del modlog: "+err.Error(), "ModLogFeed")
			return
		}

		sub := hub.Subscribe()
		logger.Debug("Cliente conectado al feed de moderación", "ModLogFeed")

		// reader goroutine: only to detect the client going away
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		defer func() {
			hub.Unsubscribe(sub)
			conn.Close()
			logger.Debug("Cliente desconectado del feed de moderación", "ModLogFeed")
		}()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-done:
				return
			case data, ok := <-sub:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
