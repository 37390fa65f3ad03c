package broadcast

import (
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/wordchain/network"
	"github.com/wfunc/wordchain/session"
)

// recordConn captures every frame written to one session.
type recordConn struct {
	mu     sync.Mutex
	frames []frame
}

type frame struct {
	msgID uint16
	data  []byte
}

func (c *recordConn) Send(msgID uint16, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame{msgID: msgID, data: append([]byte(nil), data...)})
	return nil
}

func (c *recordConn) Close() error                         { return nil }
func (c *recordConn) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (c *recordConn) SetHeartbeat(interval time.Duration)  {}
func (c *recordConn) ReadPacket() (*network.Packet, error) { return nil, nil }

func (c *recordConn) snapshot() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]frame(nil), c.frames...)
}

func watch(m *session.Manager, id, roomID string) *recordConn {
	conn := &recordConn{}
	sess := session.NewSession(id, conn)
	sess.RoomID = roomID
	m.Add(sess)
	return conn
}

func TestSendReachesOnlyRoomWatchers(t *testing.T) {
	manager := session.NewManager()
	inRoom1 := watch(manager, "s1", "room1")
	alsoRoom1 := watch(manager, "s2", "room1")
	inRoom2 := watch(manager, "s3", "room2")

	b := NewRoomBroadcaster(manager)
	ref, err := b.Send("room1", "hello room")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ref.RoomID != "room1" || ref.ID == "" {
		t.Fatalf("ref = %+v", ref)
	}

	for _, conn := range []*recordConn{inRoom1, alsoRoom1} {
		frames := conn.snapshot()
		if len(frames) != 1 {
			t.Fatalf("watcher got %d frames, want 1", len(frames))
		}
		if frames[0].msgID != network.MsgTypeNotice {
			t.Errorf("msgID = %d, want MsgTypeNotice", frames[0].msgID)
		}
		var n network.Notice
		if err := json.Unmarshal(frames[0].data, &n); err != nil {
			t.Fatalf("decode notice: %v", err)
		}
		if n.Text != "hello room" || n.MessageID != ref.ID {
			t.Errorf("notice = %+v", n)
		}
	}

	if frames := inRoom2.snapshot(); len(frames) != 0 {
		t.Errorf("room2 watcher got %d frames, want 0", len(frames))
	}
}

func TestSendEmptyRoomIsNotAnError(t *testing.T) {
	b := NewRoomBroadcaster(session.NewManager())
	if _, err := b.Send("empty", "nobody listening"); err != nil {
		t.Fatalf("Send to empty room: %v", err)
	}
}

func TestEditTargetsOriginalMessage(t *testing.T) {
	manager := session.NewManager()
	conn := watch(manager, "s1", "room1")

	b := NewRoomBroadcaster(manager)
	ref, err := b.Send("room1", "10s left")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Edit(ref, "5s left"); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	frames := conn.snapshot()
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[1].msgID != network.MsgTypeEdit {
		t.Errorf("msgID = %d, want MsgTypeEdit", frames[1].msgID)
	}
	var n network.Notice
	if err := json.Unmarshal(frames[1].data, &n); err != nil {
		t.Fatal(err)
	}
	if n.MessageID != ref.ID || n.Text != "5s left" {
		t.Errorf("edit notice = %+v", n)
	}
}

func TestBroadcastToAll(t *testing.T) {
	manager := session.NewManager()
	a := watch(manager, "s1", "room1")
	c := watch(manager, "s2", "room2")

	b := NewRoomBroadcaster(manager)
	b.BroadcastToAll(network.MsgTypeNotice, []byte("bye"))

	if len(a.snapshot()) != 1 || len(c.snapshot()) != 1 {
		t.Error("broadcast did not reach every session")
	}
}
