package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	apperrors "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The live feed is read-only public data; no origin restriction.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return apperrors.ValidationError("websocket upgrade failed")
	}

	if err := s.hub.Register(conn); err != nil {
		// Register closes the connection on rejection.
		return nil
	}

	// Read loop detects client disconnects; the hub owns all writes.
	go func() {
		defer s.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				slog.Debug("WebSocket client read ended", "error", err)
				return
			}
		}
	}()

	return nil
}
