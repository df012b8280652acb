package board

import (
	"encoding/json"
	"fmt"

	"apoema_board/internal/domain"
)

// Mutation event names fanned out on a board's relay channel.
const (
	EvtColumnCreated = "columnCreated"
	EvtColumnUpdated = "columnUpdated"
	EvtColumnDeleted = "columnDeleted"
	EvtTaskCreated   = "taskCreated"
	EvtTaskUpdated   = "taskUpdated"
	EvtTaskDeleted   = "taskDeleted"
)

// Event is the envelope carried over the relay. Created/Updated events carry
// the full or partially-updated entity, Deleted events the bare id. Origin is
// the session that issued the mutation; it is skipped on fan-out because its
// local state is already correct from the optimistic apply.
// Source identifies the server instance that published the event, so an
// instance can drop its own echo coming back through the cross-instance
// bridge.
type Event struct {
	Name    string          `json:"name"`
	BoardID string          `json:"board_id"`
	Origin  string          `json:"origin,omitempty"`
	Source  string          `json:"source,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// DeletedPayload is the payload of columnDeleted and taskDeleted.
type DeletedPayload struct {
	ID string `json:"id"`
}

func newEvent(name, boardID, origin string, payload any) Event {
	raw, _ := json.Marshal(payload)
	return Event{Name: name, BoardID: boardID, Origin: origin, Payload: raw}
}

// ApplyEvent reconciles a remote event into the state. Delivery is at-most-once
// and unordered, so every branch is idempotent: duplicates and stale updates
// are dropped, updates and deletes for unknown ids are no-ops.
func (s *State) ApplyEvent(e Event) error {
	switch e.Name {
	case EvtColumnCreated:
		var c domain.Column
		if err := json.Unmarshal(e.Payload, &c); err != nil {
			return err
		}
		s.ApplyColumnCreated(&c)
	case EvtColumnUpdated:
		var p domain.ColumnPatch
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		s.ApplyColumnUpdated(p)
	case EvtColumnDeleted:
		var p DeletedPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		s.ApplyColumnDeleted(p.ID)
	case EvtTaskCreated:
		var t domain.Task
		if err := json.Unmarshal(e.Payload, &t); err != nil {
			return err
		}
		s.ApplyTaskCreated(&t)
	case EvtTaskUpdated:
		var p domain.TaskPatch
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		s.ApplyTaskUpdated(p)
	case EvtTaskDeleted:
		var p DeletedPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		s.ApplyTaskDeleted(p.ID)
	default:
		return fmt.Errorf("unknown event %q", e.Name)
	}
	return nil
}
