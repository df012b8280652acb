package handlers

import (
	"errors"
	"net/http"

	"apoema_board/internal/board"
	"apoema_board/internal/ws"

	"github.com/gin-gonic/gin"
)

// Column mutations go through the board's room, so REST callers and websocket
// sessions share one live state and every mutation is broadcast the same way.

func (h *Handler) CreateColumn(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	var req struct {
		ID    string `json:"id"`
		Title string `json:"title" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	col, err := room.CreateColumn(c.Request.Context(), sessionOrigin(c), req.ID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create column"})
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (h *Handler) UpdateColumn(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		BaseVersion int64  `json:"base_version"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	col, err := room.UpdateColumnTitle(c.Request.Context(), sessionOrigin(c), c.Param("column"), req.Title, req.BaseVersion)
	if err != nil {
		mutationError(c, err, "failed to update column")
		return
	}
	c.JSON(http.StatusOK, col)
}

func (h *Handler) DeleteColumn(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	id := c.Param("column")
	if err := room.DeleteColumn(c.Request.Context(), sessionOrigin(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete column"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) GetColumns(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}
	columns, _ := room.Snapshot()
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *Handler) room(c *gin.Context) (*ws.Room, bool) {
	room, err := h.Hub.GetRoom(c.Request.Context(), c.Param("board"))
	if err != nil {
		if errors.Is(err, ws.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load board"})
		}
		return nil, false
	}
	return room, true
}

func mutationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, board.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "version conflict"})
	case errors.Is(err, board.ErrColumnNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "column not found"})
	case errors.Is(err, board.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
