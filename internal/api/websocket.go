package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocket upgrades an authenticated admin to the live event feed.
func (h *Handler) WebSocket(c *gin.Context) {
	admin := currentAdmin(c)
	ws := h.svc.WebSockets()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("WebSocket upgrade failed for admin %s: %v", admin.ID, err)
		return
	}
	if !ws.AddConnection(admin.ID, conn) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections"))
		conn.Close()
		return
	}
	defer ws.RemoveConnection(admin.ID, conn)

	// The feed is server to client; reads only detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
