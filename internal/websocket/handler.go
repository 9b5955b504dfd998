package websocket

import (
	"context"
	"time"

	"ai-agent-platform/internal/pkg/logger"
	"ai-agent-platform/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// idleTimeout bounds how long a conversation waits for the next answer.
const idleTimeout = 30 * time.Minute

// ServeFeed attaches c to the hub's event feed and blocks until it closes.
func ServeFeed(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, ID: uuid.NewString(), Send: make(chan []byte, 256)}
	if !hub.add(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// ServeConversation runs an interactive profile session over c. A
// "session_id" query parameter resumes an existing session.
func ServeConversation(svc service.IProfileService, log logger.ILogger, c *websocket.Conn) {
	defer c.Close()

	ctx := context.Background()
	conv := NewConversation(svc)
	c.SetReadLimit(maxMessageSize)

	out := conv.Open(ctx, c.Query("session_id"))
	for {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(out); err != nil {
			log.Warn("ProfileWS", "Write failed", map[string]interface{}{"session_id": out.SessionId, "error": err.Error()})
			return
		}
		if conv.Done() {
			c.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		c.SetReadDeadline(time.Now().Add(idleTimeout))
		var in Inbound
		if err := c.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ProfileWS", "Read failed", map[string]interface{}{"session_id": out.SessionId, "error": err.Error()})
			}
			return
		}
		out = conv.Handle(ctx, in)
	}
}
