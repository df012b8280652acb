package ws

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"apoema_board/internal/board"
	"apoema_board/internal/relay"
	"apoema_board/internal/repository"

	"github.com/google/uuid"
)

var ErrBoardNotFound = errors.New("board not found")

// Hub owns one Room per board. Rooms are created lazily on the first session
// (or REST mutation) that touches a board, loading the board's columns and
// tasks into a live State.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*Room

	instanceID string

	boards  *repository.BoardRepository
	columns *repository.ColumnRepository
	tasks   *repository.TaskRepository
	bridge  *relay.Bridge
}

func NewHub(boards *repository.BoardRepository, columns *repository.ColumnRepository, tasks *repository.TaskRepository, bridge *relay.Bridge) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		instanceID: uuid.NewString(),
		boards:     boards,
		columns:    columns,
		tasks:      tasks,
		bridge:     bridge,
	}
}

// GetRoom returns the board's room, creating it on first use.
func (h *Hub) GetRoom(ctx context.Context, boardID string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[boardID]; ok {
		return room, nil
	}

	if _, err := h.boards.GetByID(ctx, boardID); err != nil {
		return nil, ErrBoardNotFound
	}
	cols, err := h.columns.GetByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	tasks, err := h.tasks.GetByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	room := NewRoom(boardID, h)
	store := board.NewStore(board.NewState(boardID, cols, tasks), h.columns, h.tasks, room)
	room.store = store
	room.coord = board.NewCoordinator(store)
	room.cancelBridge = h.bridge.Subscribe(boardID, room.ApplyRemote)

	h.rooms[boardID] = room
	go room.Run()

	log.Printf("Hub.GetRoom: opened room for board=%s (rooms=%d)", boardID, len(h.rooms))
	return room, nil
}

// DropRoom closes a board's room, e.g. after the board is deleted.
func (h *Hub) DropRoom(boardID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[boardID]; ok {
		room.close()
		delete(h.rooms, boardID)
	}
}

func (h *Hub) OnDisconnect(c *Client) {
	if c.Room != nil {
		c.Room.Disconnect <- c
	}
}

// StartCleanup periodically closes rooms that have had no sessions for a
// while; their state reloads from the database on next use.
func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupIdleRooms()
		}
	}()
}

func (h *Hub) cleanupIdleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for boardID, room := range h.rooms {
		if room.clientCount() == 0 && now.Sub(room.idleSince()) > time.Hour {
			room.close()
			delete(h.rooms, boardID)
			log.Printf("Hub.cleanupIdleRooms: closed idle room board=%s", boardID)
		}
	}
}
