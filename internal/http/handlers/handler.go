package handlers

import (
	"time"

	"apoema_board/internal/cache"
	"apoema_board/internal/repository"
	"apoema_board/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB     *pgxpool.Pool
	Hub    *ws.Hub
	Boards *repository.BoardRepository
	Users  *repository.UserRepository
	Prefs  *repository.PrefsRepository

	// origin allowed to open websocket upgrades; empty allows any
	AllowedOrigin string

	// memoizes board task counts for the summary endpoint
	taskCounts *cache.TTL[int]
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub) *Handler {
	return &Handler{
		DB:         db,
		Hub:        hub,
		Boards:     repository.NewBoardRepository(db),
		Users:      repository.NewUserRepository(db),
		Prefs:      repository.NewPrefsRepository(db),
		taskCounts: cache.NewTTL[int](30*time.Second, 256),
	}
}

// getUserID extracts user_id from the gin context (set by the JWT middleware).
func getUserID(c interface{ Get(any) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// sessionOrigin returns the caller's relay session id, when the REST call comes
// from a browser that also holds a websocket session. Mutations stamped with it
// are not echoed back to that session.
func sessionOrigin(c interface{ GetHeader(string) string }) string {
	return c.GetHeader("X-Session-ID")
}
