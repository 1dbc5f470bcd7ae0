package ws

import (
	"net/http"
	"time"

	"watchlist/config"
	"watchlist/internal/auth"
	"watchlist/internal/logger"
	"watchlist/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

func newUpgrader(allowedOrigin string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowedOrigin == "" || allowedOrigin == "*" || origin == allowedOrigin
		},
	}
}

// ServeFavorites upgrades to the caller's favorite change feed. Browsers cannot set headers on
// WebSocket requests, so the token may also come from the token query parameter.
func ServeFavorites(cfg *config.Config, hub *Hub) gin.HandlerFunc {
	upgrader := newUpgrader(cfg.Server.CORSOrigin)
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = middleware.BearerToken(c.GetHeader("Authorization"))
		}
		claims, err := auth.ParseAccessToken(&cfg.JWT, token)
		if err != nil {
			middleware.Unauthorized(c)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext("ws", "upgrade").WithError(err).Warn("upgrade failed")
			return
		}
		defer conn.Close()

		client := NewClient(claims.ID)
		hub.Register(client)
		defer client.Close()

		go writePump(client, conn)
		readPump(conn)
	}
}

// writePump copies messages from client.Send to the connection and keeps it alive with pings.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; it returns when the peer goes away.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
