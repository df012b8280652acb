package handlers

import (
	"net/http"

	"apoema_board/internal/board"
	"apoema_board/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.Boards.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list boards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *Handler) CreateBoard(c *gin.Context) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	b := &domain.Board{ID: req.ID, Name: req.Name}
	if err := h.Boards.Create(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create board"})
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) RenameBoard(c *gin.Context) {
	id := c.Param("board")
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if err := h.Boards.Rename(c.Request.Context(), id, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename board"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name})
}

// DeleteBoard cascades to the board's columns and tasks, and closes the
// board's relay channel.
func (h *Handler) DeleteBoard(c *gin.Context) {
	id := c.Param("board")
	if err := h.Boards.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete board"})
		return
	}
	h.Hub.DropRoom(id)
	h.taskCounts.Delete(id)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetBoard is the initial load: the board plus its columns and rank-ordered
// tasks, taken from the live room so a reconnecting session sees exactly what
// the other sessions see.
func (h *Handler) GetBoard(c *gin.Context) {
	id := c.Param("board")
	ctx := c.Request.Context()

	b, err := h.Boards.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}

	room, err := h.Hub.GetRoom(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load board"})
		return
	}
	columns, tasks := room.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"board":   b,
		"columns": columns,
		"tasks":   tasks,
	})
}

// BoardSummary returns the board's task count, memoized for a short window so
// dashboard polling does not hammer the count query.
func (h *Handler) BoardSummary(c *gin.Context) {
	id := c.Param("board")

	if n, ok := h.taskCounts.Get(id); ok {
		c.JSON(http.StatusOK, gin.H{"board_id": id, "tasks": n, "cached": true})
		return
	}

	n, err := h.Boards.TaskCount(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count tasks"})
		return
	}
	h.taskCounts.Set(id, n)
	c.JSON(http.StatusOK, gin.H{"board_id": id, "tasks": n})
}

// GetColumnOrder returns the caller's saved column display order for the
// board. Column order is per-user: it is never shared between sessions.
func (h *Handler) GetColumnOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	order, err := h.Prefs.GetColumnOrder(c.Request.Context(), c.Param("board"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"column_order": order})
}

func (h *Handler) SaveColumnOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		ColumnOrder []string `json:"column_order" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Prefs.SaveColumnOrder(c.Request.Context(), c.Param("board"), userID, req.ColumnOrder); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"column_order": req.ColumnOrder})
}

// MoveColumn reorders the caller's column display order by dragging from_id
// over to_id. A caller with no saved order starts from the board's creation
// order.
func (h *Handler) MoveColumn(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		FromID string `json:"from_id" binding:"required"`
		ToID   string `json:"to_id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	boardID := c.Param("board")
	ctx := c.Request.Context()

	order, err := h.Prefs.GetColumnOrder(ctx, boardID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}
	if order == nil {
		room, err := h.Hub.GetRoom(ctx, boardID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		columns, _ := room.Snapshot()
		for _, col := range columns {
			order = append(order, col.ID)
		}
	}

	next, changed := board.ReorderColumns(order, req.FromID, req.ToID)
	if !changed {
		c.JSON(http.StatusOK, gin.H{"column_order": order})
		return
	}
	if err := h.Prefs.SaveColumnOrder(ctx, boardID, userID, next); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"column_order": next})
}
