package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"apoema_board/internal/board"
	"apoema_board/internal/domain"
)

// Room is one board's relay channel: every session viewing the board is
// registered here, and every mutation event for the board fans out from here.
// Scoping the channel by board id means sessions never have to filter out
// another board's traffic.
//
// The room owns the board's live Store; mu serializes all mutations, which
// keeps the State single-writer.
type Room struct {
	BoardID string

	Register   chan *Client
	Disconnect chan *Client

	mu      sync.Mutex // guards store/state
	cmu     sync.RWMutex
	clients map[string]*Client // session id → client

	// unix nanos of the last register, disconnect or mutation; drives idle
	// room cleanup
	lastActive atomic.Int64

	store *board.Store
	coord *board.Coordinator
	hub   *Hub

	stop         chan struct{}
	cancelBridge func()
}

func NewRoom(boardID string, hub *Hub) *Room {
	r := &Room{
		BoardID:      boardID,
		Register:     make(chan *Client, 4),
		Disconnect:   make(chan *Client, 4),
		clients:      make(map[string]*Client),
		hub:          hub,
		stop:         make(chan struct{}),
		cancelBridge: func() {},
	}
	r.touch()
	return r
}

func (r *Room) touch() { r.lastActive.Store(time.Now().UnixNano()) }

// idleSince reports when the room last saw a session or mutation.
func (r *Room) idleSince() time.Time { return time.Unix(0, r.lastActive.Load()) }

func (r *Room) Run() {
	for {
		select {
		case c := <-r.Register:
			r.handleRegister(c)
		case c := <-r.Disconnect:
			r.handleDisconnect(c)
		case <-r.stop:
			return
		}
	}
}

func (r *Room) handleRegister(c *Client) {
	r.touch()
	r.cmu.Lock()
	r.clients[c.SessionID] = c
	n := len(r.clients)
	r.cmu.Unlock()

	SessionsConnected.WithLabelValues(r.BoardID).Set(float64(n))
	log.Printf("Room.handleRegister: board=%s session=%s sessions=%d", r.BoardID, c.SessionID, n)

	// initial snapshot so the session starts from ground truth
	r.mu.Lock()
	snap := StatePayload{
		BoardID: r.BoardID,
		Columns: r.store.State().Columns(),
		Tasks:   r.store.State().Tasks(),
	}
	r.mu.Unlock()

	raw, _ := json.Marshal(snap)
	data, _ := json.Marshal(Message{Type: MsgState, Payload: raw})
	c.queue(data)
}

func (r *Room) handleDisconnect(c *Client) {
	r.touch()
	r.cmu.Lock()
	delete(r.clients, c.SessionID)
	n := len(r.clients)
	r.cmu.Unlock()

	SessionsConnected.WithLabelValues(r.BoardID).Set(float64(n))
	log.Printf("Room.handleDisconnect: board=%s session=%s sessions=%d", r.BoardID, c.SessionID, n)
}

func (r *Room) clientCount() int {
	r.cmu.RLock()
	defer r.cmu.RUnlock()
	return len(r.clients)
}

func (r *Room) close() {
	r.cancelBridge()
	close(r.stop)
}

// Publish implements board.Publisher: fan the event out to every local session
// except the one that issued the mutation, then mirror it to other instances.
func (r *Room) Publish(ctx context.Context, e board.Event) {
	e.Source = r.hub.instanceID
	EventsPublished.WithLabelValues(e.Name).Inc()

	raw, err := json.Marshal(e)
	if err != nil {
		log.Printf("Room.Publish: board=%s marshal error: %v", r.BoardID, err)
		return
	}
	r.fanOut(e.Origin, raw)
	r.hub.bridge.Publish(ctx, r.BoardID, raw)
}

// ApplyRemote reconciles an event published by another instance into the local
// state and forwards it to local sessions. Our own echo from the bridge is
// dropped by source id; everything else is safe to apply twice because
// reconciliation is idempotent.
func (r *Room) ApplyRemote(data []byte) {
	var e board.Event
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("Room.ApplyRemote: board=%s bad event: %v", r.BoardID, err)
		return
	}
	if e.Source == r.hub.instanceID || e.BoardID != r.BoardID {
		return
	}

	r.mu.Lock()
	err := r.store.State().ApplyEvent(e)
	r.mu.Unlock()
	if err != nil {
		log.Printf("Room.ApplyRemote: board=%s apply error: %v", r.BoardID, err)
		return
	}

	EventsRelayed.WithLabelValues(e.Name).Inc()
	r.fanOut(e.Origin, data)
}

func (r *Room) fanOut(originSession string, event []byte) {
	data, _ := json.Marshal(Message{Type: MsgEvent, Payload: event})

	r.cmu.RLock()
	defer r.cmu.RUnlock()
	for sid, c := range r.clients {
		if sid == originSession {
			continue
		}
		select {
		case c.Send <- data:
		default:
			log.Printf("Room.fanOut: board=%s session=%s send buffer full, dropping", r.BoardID, sid)
		}
	}
}

// Mutation entry points, shared by websocket messages and the REST handlers so
// both surfaces drive the same live state.

func (r *Room) CreateColumn(ctx context.Context, origin, id, title string) (*domain.Column, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.CreateColumn(ctx, origin, id, title)
}

func (r *Room) UpdateColumnTitle(ctx context.Context, origin, id, title string, baseVersion int64) (*domain.Column, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.UpdateColumnTitle(ctx, origin, id, title, baseVersion)
}

func (r *Room) DeleteColumn(ctx context.Context, origin, id string) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.DeleteColumn(ctx, origin, id)
}

func (r *Room) CreateTask(ctx context.Context, origin string, t *domain.Task) (*domain.Task, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.CreateTask(ctx, origin, t)
}

func (r *Room) UpdateTask(ctx context.Context, origin string, p domain.TaskPatch) (*domain.Task, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.UpdateTask(ctx, origin, p)
}

func (r *Room) DeleteTask(ctx context.Context, origin, id string) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.DeleteTask(ctx, origin, id)
}

func (r *Room) MoveTaskToColumn(ctx context.Context, origin, taskID, columnID string) (*domain.Task, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coord.MoveTaskToColumn(ctx, origin, taskID, columnID)
}

func (r *Room) MoveTaskOver(ctx context.Context, origin, taskID, overTaskID string) (*domain.Task, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coord.MoveTaskOver(ctx, origin, taskID, overTaskID)
}

// Snapshot returns the current columns and rank-ordered tasks.
func (r *Room) Snapshot() ([]*domain.Column, []*domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.State().Columns(), r.store.State().Tasks()
}

// HandleMessage dispatches one client → server message. Mutation failures are
// reported back to the issuing session only; the other sessions never saw the
// optimistic state, so there is nothing to undo for them.
func (r *Room) HandleMessage(c *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.sendError(c, "malformed message")
		return
	}

	ctx := context.Background()
	origin := c.SessionID
	var err error

	switch msg.Type {
	case MsgCreateColumn:
		var p CreateColumnPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = r.CreateColumn(ctx, origin, p.ID, p.Title)
		}
	case MsgUpdateColumn:
		var p UpdateColumnPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = r.UpdateColumnTitle(ctx, origin, p.ID, p.Title, p.BaseVersion)
		}
	case MsgDeleteColumn:
		var p DeletePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = r.DeleteColumn(ctx, origin, p.ID)
		}
	case MsgCreateTask:
		var p CreateTaskPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = r.CreateTask(ctx, origin, &domain.Task{
				ID:         p.ID,
				ColumnID:   p.ColumnID,
				Content:    p.Content,
				AssignedTo: p.AssignedTo,
				Tag:        p.Tag,
				StartDate:  p.StartDate,
				EndDate:    p.EndDate,
			})
		}
	case MsgUpdateTask:
		var p UpdateTaskPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			patch := p.TaskPatch
			patch.BaseVersion = p.BaseVersion
			_, err = r.UpdateTask(ctx, origin, patch)
		}
	case MsgDeleteTask:
		var p DeletePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = r.DeleteTask(ctx, origin, p.ID)
		}
	case MsgMoveTaskToColumn:
		var p MoveTaskToColumnPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = r.MoveTaskToColumn(ctx, origin, p.TaskID, p.ColumnID)
		}
	case MsgMoveTaskOver:
		var p MoveTaskOverPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = r.MoveTaskOver(ctx, origin, p.TaskID, p.OverTaskID)
		}
	default:
		r.sendError(c, "unknown message type")
		return
	}

	if err != nil {
		log.Printf("Room.HandleMessage: board=%s session=%s type=%s: %v", r.BoardID, c.SessionID, msg.Type, err)
		r.sendError(c, err.Error())
	}
}

func (r *Room) sendError(c *Client, message string) {
	raw, _ := json.Marshal(ErrorPayload{Message: message})
	data, _ := json.Marshal(Message{Type: MsgError, Payload: raw})
	c.queue(data)
}
