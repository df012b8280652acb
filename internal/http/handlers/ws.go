package handlers

import (
	"log"
	"net/http"

	"apoema_board/internal/service"
	"apoema_board/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// originAllowed accepts any origin when no allowed origin is configured.
func originAllowed(allowed, origin string) bool {
	return allowed == "" || origin == allowed
}

// WS upgrades the connection and attaches the session to its board's relay
// channel. The JWT comes in via query param because browsers cannot set
// headers on websocket upgrades.
func (h *Handler) WS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	boardID := c.Param("board")
	room, err := h.Hub.GetRoom(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(h.AllowedOrigin, r.Header.Get("Origin"))
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("ws upgrade error:", err)
		return
	}

	// session id may come from the client (so its REST calls can carry the
	// same origin), otherwise one is minted here
	sessionID := c.Query("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	client := ws.NewClient(sessionID, userID, conn, h.Hub, room)
	go client.Run()
}
