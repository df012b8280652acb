package handlers

import (
	"net/http"

	"apoema_board/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateTask(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	var req struct {
		ID         string       `json:"id"`
		ColumnID   string       `json:"column_id" binding:"required"`
		Content    string       `json:"content" binding:"required"`
		AssignedTo *string      `json:"assigned_to"`
		Tag        *string      `json:"tag"`
		StartDate  *domain.Date `json:"start_date"`
		EndDate    *domain.Date `json:"end_date"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	t, err := room.CreateTask(c.Request.Context(), sessionOrigin(c), &domain.Task{
		ID:         req.ID,
		ColumnID:   req.ColumnID,
		Content:    req.Content,
		AssignedTo: req.AssignedTo,
		Tag:        req.Tag,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		mutationError(c, err, "failed to create task")
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTask applies a sparse patch: only fields present in the request body
// change, everything else stays as it was.
func (h *Handler) UpdateTask(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	var req struct {
		domain.TaskPatch
		BaseVersion int64 `json:"base_version"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	patch := req.TaskPatch
	patch.ID = c.Param("task")
	patch.BaseVersion = req.BaseVersion

	t, err := room.UpdateTask(c.Request.Context(), sessionOrigin(c), patch)
	if err != nil {
		mutationError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	id := c.Param("task")
	if err := room.DeleteTask(c.Request.Context(), sessionOrigin(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) GetTasks(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}
	_, tasks := room.Snapshot()
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// MoveTask handles both drag-and-drop drop targets: over a column's empty
// space (column_id) or over another task (over_task_id).
func (h *Handler) MoveTask(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}

	var req struct {
		ColumnID   string `json:"column_id"`
		OverTaskID string `json:"over_task_id"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	taskID := c.Param("task")
	origin := sessionOrigin(c)
	ctx := c.Request.Context()

	var t *domain.Task
	var err error
	switch {
	case req.OverTaskID != "":
		t, err = room.MoveTaskOver(ctx, origin, taskID, req.OverTaskID)
	case req.ColumnID != "":
		t, err = room.MoveTaskToColumn(ctx, origin, taskID, req.ColumnID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "column_id or over_task_id required"})
		return
	}
	if err != nil {
		mutationError(c, err, "failed to move task")
		return
	}
	c.JSON(http.StatusOK, t)
}
