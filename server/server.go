package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/wordchain/game"
	"github.com/wfunc/wordchain/logger"
	"github.com/wfunc/wordchain/monitor"
	"github.com/wfunc/wordchain/network"
	wordchain_rpc "github.com/wfunc/wordchain/rpc"
	"github.com/wfunc/wordchain/score"
	"github.com/wfunc/wordchain/session"
)

// Gateway accepts websocket connections and routes each chat line to
// the game engine: lines starting with the command prefix become game
// operations, everything else is a word submission.
type Gateway struct {
	addr           string
	prefix         string
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	engine         *game.Engine
	mon            *monitor.Monitor
	rpcServer      *wordchain_rpc.Server
	shutdownChan   chan struct{}
}

func NewGateway(addr, rpcAddr, prefix string, engine *game.Engine, sessionManager *session.Manager, store score.Store, dict game.Dictionary, mon *monitor.Monitor) *Gateway {
	g := &Gateway{
		addr:           addr,
		prefix:         prefix,
		sessionManager: sessionManager,
		engine:         engine,
		mon:            mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	rpcServer, err := wordchain_rpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	g.rpcServer = rpcServer

	admin := wordchain_rpc.NewAdminService(engine, store, dict)
	rpc.Register(admin)

	return g
}

func (g *Gateway) Start() error {
	go g.rpcServer.Start()

	http.HandleFunc("/ws", g.handleWebSocket)
	logger.Log.Infof("Word chain server listening on %s", g.addr)
	return http.ListenAndServe(g.addr, nil)
}

func (g *Gateway) Shutdown() {
	close(g.shutdownChan)
	g.rpcServer.Stop()
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	g.handleConnection(conn)
}

func (g *Gateway) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	g.sessionManager.Add(sess)
	if g.mon != nil {
		g.mon.IncOnlinePlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		g.sessionManager.Remove(sess.GetID())
		if g.mon != nil {
			g.mon.DecOnlinePlayers()
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-g.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			g.handlePacket(sess, packet)
		}
	}
}

func (g *Gateway) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeHello:
		g.handleHello(sess, packet)
	case network.MsgTypeChat:
		g.handleChat(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (g *Gateway) handleHello(sess *session.Session, packet *network.Packet) {
	var hello network.Hello
	if err := json.Unmarshal(packet.Data, &hello); err != nil {
		logger.Log.Warnf("Session %s sent malformed hello: %v", sess.GetID(), err)
		return
	}
	if hello.UserID == "" || hello.RoomID == "" {
		g.reply(sess, "Hello needs a user_id and a room_id.")
		return
	}

	sess.UserID = hello.UserID
	sess.Name = hello.Name
	sess.RoomID = hello.RoomID
	logger.Log.Infof("Session %s is %s (%s) watching room %s", sess.GetID(), hello.Name, hello.UserID, hello.RoomID)

	g.reply(sess, "👋 Welcome, "+hello.Name+"! Type "+g.prefix+"help for commands.")
}

func (g *Gateway) handleChat(sess *session.Session, packet *network.Packet) {
	if sess.UserID == "" || sess.RoomID == "" {
		g.reply(sess, "Introduce yourself first (hello frame).")
		return
	}
	if g.mon != nil {
		g.mon.IncMessagesReceived()
	}

	var chat network.Chat
	if err := json.Unmarshal(packet.Data, &chat); err != nil {
		logger.Log.Warnf("Session %s sent malformed chat: %v", sess.GetID(), err)
		return
	}
	text := strings.TrimSpace(chat.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, g.prefix) {
		g.dispatchCommand(sess, strings.TrimPrefix(text, g.prefix))
		return
	}

	// Not a command: a word submission. The engine handles every
	// outcome notice itself.
	_ = g.engine.HandleChat(sess.RoomID, sess.UserID, sess.Name, text)
}

func (g *Gateway) dispatchCommand(sess *session.Session, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "start":
		g.engine.StartGame(sess.RoomID)
	case "end", "stop":
		g.engine.EndGame(sess.RoomID)
	case "join":
		_ = g.engine.Join(sess.RoomID, sess.UserID, sess.Name)
	case "leave":
		_ = g.engine.Leave(sess.RoomID, sess.UserID)
	case "addbot":
		_ = g.engine.AddBot(sess.RoomID, strings.Join(args, " "))
	case "removebot":
		if len(args) == 0 {
			g.reply(sess, "Usage: "+g.prefix+"removebot <name>")
			return
		}
		_ = g.engine.RemoveBot(sess.RoomID, strings.Join(args, " "))
	case "turntime":
		if len(args) == 0 {
			g.reply(sess, "Usage: "+g.prefix+"turntime <seconds>")
			return
		}
		secs, err := strconv.Atoi(args[0])
		if err != nil {
			g.reply(sess, "Turn time must be a number of seconds.")
			return
		}
		g.engine.SetTurnTime(sess.RoomID, secs)
	case "status":
		g.engine.Status(sess.RoomID)
	case "rank", "leaderboard":
		g.engine.Leaderboard(sess.RoomID)
	case "score", "myscore":
		g.engine.MyScore(sess.RoomID, sess.UserID, sess.Name)
	case "resetscores":
		_ = g.engine.ResetScores(sess.RoomID)
	case "clear":
		g.engine.ClearRoom(sess.RoomID)
	case "reload":
		_ = g.engine.ReloadWords(sess.RoomID)
	case "hint":
		g.engine.Hint(sess.RoomID)
	case "help":
		g.reply(sess, g.helpText())
	default:
		g.reply(sess, "Unknown command. Type "+g.prefix+"help for the list.")
	}
}

// reply sends a private notice to one session only, unlike the engine's
// room-wide broadcasts.
func (g *Gateway) reply(sess *session.Session, text string) {
	data, err := json.Marshal(network.Notice{
		MessageID: uuid.New().String(),
		RoomID:    sess.RoomID,
		Text:      text,
	})
	if err != nil {
		return
	}
	_ = sess.Send(network.MsgTypeNotice, data)
}

func (g *Gateway) helpText() string {
	p := g.prefix
	return "📖 Commands:\n" +
		p + "start — start a game in this room\n" +
		p + "end — end the game\n" +
		p + "join / " + p + "leave — enter or leave the roster\n" +
		p + "addbot [name] / " + p + "removebot <name> — manage bot players\n" +
		p + "turntime <seconds> — set the per-turn countdown\n" +
		p + "status — room state\n" +
		p + "rank — global leaderboard\n" +
		p + "score — your total score\n" +
		p + "hint — playable words for the current letter\n" +
		p + "reload — reload the word list\n" +
		p + "clear — wipe this room\n" +
		p + "resetscores — wipe the global ledger"
}
