package network

// Client → server.
const (
	MsgTypeHeartbeat = 1
	// MsgTypeHello introduces the user and picks the room to watch.
	MsgTypeHello = 101
	// MsgTypeChat carries one chat line: a word submission or a command.
	MsgTypeChat = 201
)

// Server → client.
const (
	// MsgTypeNotice is a new room message.
	MsgTypeNotice = 301
	// MsgTypeEdit replaces the text of an earlier notice, identified by
	// its message ID. Used for the countdown progress bar.
	MsgTypeEdit = 302
)

// Hello is the payload of MsgTypeHello.
type Hello struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	RoomID string `json:"room_id"`
}

// Chat is the payload of MsgTypeChat.
type Chat struct {
	Text string `json:"text"`
}

// Notice is the payload of MsgTypeNotice and MsgTypeEdit.
type Notice struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
	Text      string `json:"text"`
}
