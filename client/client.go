package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeHello  = 101
	MsgTypeChat   = 201
	MsgTypeNotice = 301
	MsgTypeEdit   = 302
)

type notice struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
	Text      string `json:"text"`
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	userID := flag.String("user", "u1", "user ID")
	name := flag.String("name", "Player", "display name")
	roomID := flag.String("room", "lobby", "room to watch")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]

			var n notice
			if err := json.Unmarshal(data, &n); err != nil {
				log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
				continue
			}
			switch msgID {
			case MsgTypeNotice:
				fmt.Printf("[%s] %s\n", n.RoomID, n.Text)
			case MsgTypeEdit:
				// A real chat surface would replace the earlier line.
				fmt.Printf("[%s] (update) %s\n", n.RoomID, n.Text)
			default:
				log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
			}
		}
	}()

	// Introduce ourselves and pick the room.
	hello, _ := json.Marshal(map[string]string{
		"user_id": *userID,
		"name":    *name,
		"room_id": *roomID,
	})
	if err := send(c, MsgTypeHello, hello); err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	log.Printf("Connected as %s in room %s. Type words or !commands.", *name, *roomID)

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			chat, _ := json.Marshal(map[string]string{"text": text})
			if err := send(c, MsgTypeChat, chat); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
