package game

import (
	"fmt"
	"strings"

	"github.com/wfunc/wordchain/rules"
	"github.com/wfunc/wordchain/score"
)

// StartGame activates a room and resets its play state for a new game.
// The roster survives so players do not have to rejoin.
func (e *Engine) StartGame(roomID string) {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	r.Active = true
	r.ResetGame(e.opts.TurnSeconds)
	r.BumpEpoch()
	total := r.Total()
	r.Mu.Unlock()

	e.cancelTimer(r, nil)
	e.updateRoomGauge()

	if total == 0 {
		e.send(roomID, "🎮 Game started, but no players yet. Use !join or !addbot")
		return
	}
	e.send(roomID, "🎮 Word chain started in this room! Use !join / !addbot then play in turn.")
	e.BeginTurn(r)
}

// EndGame deactivates a room. In-flight drivers see the epoch bump and
// stand down on their next check point.
func (e *Engine) EndGame(roomID string) {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	r.Active = false
	r.BumpEpoch()
	r.Mu.Unlock()

	e.cancelTimer(r, nil)
	e.updateRoomGauge()
	e.send(roomID, "🛑 Game ended in this room.")
}

// Join adds a human participant. When the game is already running the
// turn cycle restarts so the countdown matches the new roster; the very
// first participant of an active room starts the first turn directly.
func (e *Engine) Join(roomID, userID, name string) error {
	e.cacheUserName(userID, name)
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	if !r.AddHuman(userID, name) {
		r.Mu.Unlock()
		e.send(roomID, "You're already in this room's game!")
		return ErrAlreadyJoined
	}
	active := r.Active
	if active && r.Total() == 1 {
		r.TurnIndex = 0
	}
	r.Mu.Unlock()

	e.send(roomID, fmt.Sprintf("➕ %s joined this room's game!", name))
	if active {
		e.BeginTurn(r)
	}
	return nil
}

// Leave removes a human participant, rebasing the turn pointer so the
// turn stays with the same logical player.
func (e *Engine) Leave(roomID, userID string) error {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	name := fmt.Sprintf("User %s", userID)
	for _, p := range r.Humans {
		if p.ID == userID {
			name = p.Name
			break
		}
	}
	if !r.RemoveHuman(userID) {
		r.Mu.Unlock()
		e.send(roomID, "You're not in this room's game.")
		return ErrNotInRoom
	}
	active := r.Active
	total := r.Total()
	if total == 0 {
		r.BumpEpoch()
	}
	r.Mu.Unlock()

	if total == 0 {
		e.cancelTimer(r, nil)
	}
	e.send(roomID, fmt.Sprintf("➖ %s left this room's game!", name))
	if active && total > 0 {
		e.BeginTurn(r)
	}
	return nil
}

// AddBot adds an automated participant, bounded by the configured limit.
func (e *Engine) AddBot(roomID, name string) error {
	if strings.TrimSpace(name) == "" {
		name = "AI"
	}
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	if len(r.Bots) >= e.opts.MaxBots {
		r.Mu.Unlock()
		e.send(roomID, fmt.Sprintf("🤖 Maximum %d bot players allowed!", e.opts.MaxBots))
		return ErrBotLimit
	}
	if !r.AddBot(name) {
		r.Mu.Unlock()
		e.send(roomID, fmt.Sprintf("🤖 %s is already in this room's game!", name))
		return ErrAlreadyJoined
	}
	active := r.Active
	if active && r.Total() == 1 {
		r.TurnIndex = 0
	}
	r.Mu.Unlock()

	e.send(roomID, fmt.Sprintf("🤖 %s joined this room's game!", name))
	if active {
		e.BeginTurn(r)
	}
	return nil
}

// RemoveBot removes an automated participant.
func (e *Engine) RemoveBot(roomID, name string) error {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	if !r.RemoveBot(name) {
		r.Mu.Unlock()
		e.send(roomID, fmt.Sprintf("🤖 %s is not in this room's game.", name))
		return ErrNotInRoom
	}
	active := r.Active
	total := r.Total()
	if total == 0 {
		r.BumpEpoch()
	}
	r.Mu.Unlock()

	if total == 0 {
		e.cancelTimer(r, nil)
	}
	e.send(roomID, fmt.Sprintf("🤖 %s left this room's game!", name))
	if active && total > 0 {
		e.BeginTurn(r)
	}
	return nil
}

// SetTurnTime sets the room's per-turn duration, clamped to the
// configured bounds. Takes effect from the next turn.
func (e *Engine) SetTurnTime(roomID string, seconds int) {
	if seconds < e.opts.MinTurnTime {
		seconds = e.opts.MinTurnTime
	}
	if seconds > e.opts.MaxTurnTime {
		seconds = e.opts.MaxTurnTime
	}

	r := e.rooms.GetOrCreate(roomID)
	r.Mu.Lock()
	r.TurnSeconds = seconds
	r.Mu.Unlock()

	e.send(roomID, fmt.Sprintf("⏳ Turn time set to %ds for this room.", seconds))
}

// Status reports the room's game state.
func (e *Engine) Status(roomID string) {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	if !r.Active {
		r.Mu.Unlock()
		e.send(roomID, "ℹ️ No active game in this room. Use !start")
		return
	}
	if r.Total() == 0 {
		r.Mu.Unlock()
		e.send(roomID, "ℹ️ Game is active but no players joined. Use !join or !addbot")
		return
	}
	humans := len(r.Humans)
	bots := len(r.Bots)
	last := r.LastWord()
	if last == "" {
		last = "(none)"
	}
	turnName := r.CurrentName()
	secs := r.TurnSeconds
	chainLen := len(r.Chain)
	r.Mu.Unlock()

	e.send(roomID, fmt.Sprintf(
		"📣 Active: true\n👥 Humans: %d | 🤖 Bots: %d\n🧠 Last word: %s\n🎯 Current turn: %s\n⏳ Turn time: %ds\n🔗 Chain length: %d",
		humans, bots, last, turnName, secs, chainLen))
}

// Leaderboard sends the global top-10 scores.
func (e *Engine) Leaderboard(roomID string) {
	entries, err := e.store.Top(10)
	if err != nil {
		e.send(roomID, "Couldn't read the scores right now.")
		return
	}
	if len(entries) == 0 {
		e.send(roomID, "No scores yet!")
		return
	}

	var b strings.Builder
	b.WriteString("🏆 Leaderboard (Global) 🏆\n")
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. %s: %d\n", i+1, e.displayName(entry.Key), entry.Points)
	}
	e.send(roomID, b.String())
}

// MyScore sends one human participant's cumulative total.
func (e *Engine) MyScore(roomID, userID, name string) {
	total, err := e.store.Total(score.HumanKey(userID))
	if err != nil {
		e.send(roomID, "Couldn't read the scores right now.")
		return
	}
	e.send(roomID, fmt.Sprintf("📌 %s, your total score is %d.", name, total))
}

// ResetScores clears the entire ledger.
func (e *Engine) ResetScores(roomID string) error {
	if err := e.store.Reset(); err != nil {
		e.send(roomID, "Couldn't reset the scores right now.")
		return err
	}
	e.nameMutex.Lock()
	e.botNames = make(map[string]string)
	e.nameMutex.Unlock()
	e.send(roomID, "🗑️ All scores have been reset!")
	return nil
}

// ClearRoom wipes a room's entire state, roster included.
func (e *Engine) ClearRoom(roomID string) {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	r.Clear()
	r.BumpEpoch()
	r.Mu.Unlock()

	e.cancelTimer(r, nil)
	e.updateRoomGauge()
	e.send(roomID, "🧹 Room state has been cleared!")
}

// ReloadWords hot-swaps the dictionary from its file.
func (e *Engine) ReloadWords(roomID string) error {
	if err := e.dict.Reload(); err != nil {
		e.send(roomID, fmt.Sprintf("❌ Couldn't reload the word list: %v", err))
		return err
	}
	e.send(roomID, fmt.Sprintf("📚 Reloaded %d words.", e.dict.Len()))
	return nil
}

// Hint suggests playable words for the current required letter, served
// from the loaded dictionary.
func (e *Engine) Hint(roomID string) {
	r := e.rooms.GetOrCreate(roomID)

	r.Mu.Lock()
	if !r.Active {
		r.Mu.Unlock()
		e.send(roomID, "No active game in this room.")
		return
	}
	last := r.LastWord()
	if last == "" {
		r.Mu.Unlock()
		e.send(roomID, "No words yet. Start with any word!")
		return
	}
	used := make(map[string]struct{}, len(r.Used))
	for w := range r.Used {
		used[w] = struct{}{}
	}
	r.Mu.Unlock()

	letter := rules.RequiredLetter(last)
	suggestions := e.dict.Suggest(letter, used, 5)
	if len(suggestions) == 0 {
		e.send(roomID, fmt.Sprintf("💡 No hints left for '%s'.", letter))
		return
	}
	e.send(roomID, fmt.Sprintf("💡 Hints for '%s': %s", letter, strings.Join(suggestions, ", ")))
}
