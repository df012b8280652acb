package ws

import (
	"encoding/json"

	"apoema_board/internal/domain"
)

// Message is the envelope for client → server traffic.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// client → server
type CreateColumnPayload struct {
	ID    string `json:"id,omitempty"` // client-generated opaque id, filled in if empty
	Title string `json:"title"`
}

type UpdateColumnPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	BaseVersion int64  `json:"base_version,omitempty"`
}

type DeletePayload struct {
	ID string `json:"id"`
}

type CreateTaskPayload struct {
	ID         string       `json:"id,omitempty"`
	ColumnID   string       `json:"column_id"`
	Content    string       `json:"content"`
	AssignedTo *string      `json:"assigned_to,omitempty"`
	Tag        *string      `json:"tag,omitempty"`
	StartDate  *domain.Date `json:"start_date,omitempty"`
	EndDate    *domain.Date `json:"end_date,omitempty"`
}

type UpdateTaskPayload struct {
	domain.TaskPatch
	BaseVersion int64 `json:"base_version,omitempty"`
}

type MoveTaskToColumnPayload struct {
	TaskID   string `json:"task_id"`
	ColumnID string `json:"column_id"`
}

type MoveTaskOverPayload struct {
	TaskID     string `json:"task_id"`
	OverTaskID string `json:"over_task_id"`
}

// server → client
type StatePayload struct {
	BoardID string           `json:"board_id"`
	Columns []*domain.Column `json:"columns"`
	Tasks   []*domain.Task   `json:"tasks"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
