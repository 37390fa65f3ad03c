// Package game contains the turn engine: the per-room scheduler that
// drives countdowns and bot moves under the epoch protocol, and the
// submission pipeline every word goes through.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/wordchain/room"
	"github.com/wfunc/wordchain/rules"
	"github.com/wfunc/wordchain/score"
)

// Options are the externally configured knobs of the engine.
type Options struct {
	TurnSeconds int
	MinTurnTime int
	MaxTurnTime int
	MaxBots     int
	Scoring     rules.Scoring

	// ThinkDelay is the pause before a bot requests its move, so the
	// turn prompt lands first.
	ThinkDelay time.Duration
	// TurnTick is the real duration of one countdown second. Tests
	// shrink it to keep countdowns fast.
	TurnTick time.Duration
	// EditInterval is how many countdown seconds pass between progress
	// message edits.
	EditInterval int
	// QuietWindow suppresses repeated not-your-turn notices per sender.
	QuietWindow time.Duration
	// HistoryWindow bounds the recent-words sample sent to the provider.
	HistoryWindow int
}

func (o *Options) fillDefaults() {
	if o.ThinkDelay <= 0 {
		o.ThinkDelay = time.Second
	}
	if o.TurnTick <= 0 {
		o.TurnTick = time.Second
	}
	if o.EditInterval <= 0 {
		o.EditInterval = 2
	}
	if o.QuietWindow <= 0 {
		o.QuietWindow = 5 * time.Second
	}
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = 20
	}
}

// Engine orchestrates every room: turn scheduling, word submissions,
// roster changes and score keeping.
type Engine struct {
	opts     Options
	rooms    *room.Registry
	dict     Dictionary
	store    score.Store
	msgr     Messenger
	provider MoveProvider
	metrics  Collector

	nameMutex sync.Mutex
	botNames  map[string]string // ledger key -> display name
	userNames map[string]string // user ID -> display name

	quietMutex sync.Mutex
	quietUntil map[string]time.Time
}

func NewEngine(opts Options, dict Dictionary, store score.Store, msgr Messenger, provider MoveProvider) *Engine {
	opts.fillDefaults()
	return &Engine{
		opts:       opts,
		rooms:      room.NewRegistry(opts.TurnSeconds),
		dict:       dict,
		store:      store,
		msgr:       msgr,
		provider:   provider,
		botNames:   make(map[string]string),
		userNames:  make(map[string]string),
		quietUntil: make(map[string]time.Time),
	}
}

// SetCollector attaches a metrics collector. Call before serving traffic.
func (e *Engine) SetCollector(c Collector) {
	e.metrics = c
}

// Rooms exposes the registry for monitoring and admin surfaces.
func (e *Engine) Rooms() *room.Registry {
	return e.rooms
}

// HandleChat processes a non-command chat line: either the current
// player's word submission or a rejected out-of-turn message.
func (e *Engine) HandleChat(roomID, authorID, authorName, text string) error {
	e.cacheUserName(authorID, authorName)
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	if !r.Active {
		r.Mu.Unlock()
		return nil
	}
	if r.Total() == 0 {
		r.Mu.Unlock()
		e.send(roomID, noticeNoPlayers)
		return ErrNoParticipants
	}
	cur, _ := r.Current()
	curName := r.CurrentName()
	r.Mu.Unlock()

	if cur.Kind != room.Human || cur.ID != authorID {
		// Quiet window: repeated identical notices get suppressed, but
		// never the actual current player.
		if e.quietOK(authorID) {
			e.send(roomID, fmt.Sprintf("🚫 Not your turn. It's %s's turn!", curName))
		}
		return ErrNotYourTurn
	}

	return e.submit(r, text, cur, nil)
}

func (e *Engine) quietOK(authorID string) bool {
	now := time.Now()
	e.quietMutex.Lock()
	defer e.quietMutex.Unlock()
	if until, ok := e.quietUntil[authorID]; ok && now.Before(until) {
		return false
	}
	e.quietUntil[authorID] = now.Add(e.opts.QuietWindow)
	return true
}

func (e *Engine) cacheUserName(id, name string) {
	if id == "" || name == "" {
		return
	}
	e.nameMutex.Lock()
	e.userNames[id] = name
	e.nameMutex.Unlock()
}

func (e *Engine) cacheBotName(key, name string) {
	e.nameMutex.Lock()
	e.botNames[key] = name
	e.nameMutex.Unlock()
}

// displayName resolves a ledger key for the leaderboard.
func (e *Engine) displayName(key string) string {
	e.nameMutex.Lock()
	defer e.nameMutex.Unlock()
	if score.IsBotKey(key) {
		if name, ok := e.botNames[key]; ok {
			return "🤖 " + name
		}
		return "🤖 " + score.DisplayName(key)
	}
	if name, ok := e.userNames[key]; ok {
		return name
	}
	return score.DisplayName(key)
}

// send delivers a room notice, dropping it on transport failure.
func (e *Engine) send(roomID, text string) {
	_, _ = e.msgr.Send(roomID, text)
}

// --- nil-safe metrics helpers ---

func (e *Engine) accepted() {
	if e.metrics != nil {
		e.metrics.WordAccepted()
	}
}

func (e *Engine) rejected() {
	if e.metrics != nil {
		e.metrics.WordRejected()
	}
}

func (e *Engine) skipped() {
	if e.metrics != nil {
		e.metrics.TurnSkipped()
	}
}

func (e *Engine) observeMove(d time.Duration) {
	if e.metrics != nil {
		e.metrics.ObserveMoveLatency(d)
	}
}

func (e *Engine) updateRoomGauge() {
	if e.metrics != nil {
		e.metrics.SetActiveRooms(e.rooms.ActiveCount())
	}
}
