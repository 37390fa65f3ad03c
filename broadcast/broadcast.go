// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/wfunc/wordchain/game"
	"github.com/wfunc/wordchain/network"
	"github.com/wfunc/wordchain/session"
)

// RoomBroadcaster delivers game notices to every session watching a
// room. It implements game.Messenger. A room with no watchers is not an
// error: the game runs on and spectators catch up when they connect.
type RoomBroadcaster struct {
	sessionManager *session.Manager
}

func NewRoomBroadcaster(sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessionManager: sessionManager,
	}
}

// Send fans a new notice out to the room and returns its reference so
// the engine can edit it later.
func (b *RoomBroadcaster) Send(roomID, text string) (game.MessageRef, error) {
	id := uuid.New().String()
	data, err := json.Marshal(network.Notice{
		MessageID: id,
		RoomID:    roomID,
		Text:      text,
	})
	if err != nil {
		return game.MessageRef{}, err
	}

	for _, s := range b.sessionManager.GetByRoom(roomID) {
		if err := s.Send(network.MsgTypeNotice, data); err != nil {
			// 发送失败的会话跳过, 连接关闭时由服务器清理
			continue
		}
	}
	return game.MessageRef{RoomID: roomID, ID: id}, nil
}

// Edit replaces the text of an earlier notice. Best effort.
func (b *RoomBroadcaster) Edit(ref game.MessageRef, text string) error {
	data, err := json.Marshal(network.Notice{
		MessageID: ref.ID,
		RoomID:    ref.RoomID,
		Text:      text,
	})
	if err != nil {
		return err
	}

	for _, s := range b.sessionManager.GetByRoom(ref.RoomID) {
		if err := s.Send(network.MsgTypeEdit, data); err != nil {
			continue
		}
	}
	return nil
}

// BroadcastToAll sends a frame to every connected session, regardless
// of room. Used for server-wide announcements like shutdown.
func (b *RoomBroadcaster) BroadcastToAll(msgID uint16, data []byte) {
	for _, s := range b.sessionManager.All() {
		_ = s.Send(msgID, data)
	}
}
