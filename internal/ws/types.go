package ws

const (
	// client → server
	MsgCreateColumn     = "createColumn"
	MsgUpdateColumn     = "updateColumn"
	MsgDeleteColumn     = "deleteColumn"
	MsgCreateTask       = "createTask"
	MsgUpdateTask       = "updateTask"
	MsgDeleteTask       = "deleteTask"
	MsgMoveTaskToColumn = "moveTaskToColumn"
	MsgMoveTaskOver     = "moveTaskOver"

	// server → client
	MsgReady = "ready"
	MsgState = "state"
	MsgEvent = "event"
	MsgError = "error"
)
