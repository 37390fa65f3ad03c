package game

import (
	"fmt"
	"time"

	"github.com/wfunc/wordchain/room"
	"github.com/wfunc/wordchain/rules"
	"github.com/wfunc/wordchain/timer"
)

// BeginTurn starts (or restarts) the turn cycle for a room: it stops any
// previous driver, bumps the epoch, prompts the current participant and
// launches the new countdown or bot-move driver.
func (e *Engine) BeginTurn(r *room.Room) {
	e.beginTurn(r, nil)
}

// beginTurn is the internal entry. self is the handle of the calling
// driver when a driver chains into the next turn, so it never waits on
// its own termination.
func (e *Engine) beginTurn(r *room.Room, self *timer.Handle) {
	e.cancelTimer(r, self)

	r.Mu.Lock()
	epoch := r.BumpEpoch()
	if !r.Active {
		r.Mu.Unlock()
		return
	}
	if r.Total() == 0 {
		r.Mu.Unlock()
		e.send(r.ID, noticeNoPlayers)
		return
	}
	cur, _ := r.Current()
	name := r.CurrentName()
	secs := r.TurnSeconds
	last := r.LastWord()
	recent := r.RecentWords(e.opts.HistoryWindow)
	h := timer.NewHandle()
	r.Timer = h
	r.Mu.Unlock()

	prompt, err := e.msgr.Send(r.ID, turnText(name, last, secs, secs))
	if err != nil {
		prompt = MessageRef{}
	}

	go e.runTurn(r, h, epoch, cur, name, last, recent, secs, prompt)
}

// cancelTimer stops the room's current driver and blocks until it has
// fully terminated, so two drivers are never live for one room. It is
// idempotent and a no-op when the caller is cancelling itself.
func (e *Engine) cancelTimer(r *room.Room, self *timer.Handle) {
	r.Mu.Lock()
	h := r.Timer
	r.Timer = nil
	r.Mu.Unlock()

	if h == nil || h == self {
		return
	}
	h.Stop()
}

// runTurn is the driver goroutine for one turn. It abandons itself
// silently whenever the room's epoch has moved past its own.
func (e *Engine) runTurn(r *room.Room, h *timer.Handle, epoch uint64, cur room.Participant, name, last string, recent []string, secs int, prompt MessageRef) {
	defer h.Finish()

	if cur.Kind == room.Bot {
		e.runBotTurn(r, h, epoch, cur, name, last, recent)
		return
	}

	remaining := secs
	for remaining > 0 {
		if !r.TurnValid(epoch) {
			return
		}
		if remaining < secs && prompt.ID != "" {
			// best-effort progress update
			_ = e.msgr.Edit(prompt, turnText(name, last, remaining, secs))
		}
		step := e.opts.EditInterval
		if remaining < step {
			step = remaining
		}
		if !h.Sleep(time.Duration(step) * e.opts.TurnTick) {
			return
		}
		remaining -= step
	}

	e.skipCurrent(r, h, epoch, cur.ID, fmt.Sprintf("⏰ Time's up! Skipping %s.", name))
}

// skipCurrent performs a skip transition: streak and combo reset, turn
// advance, announcement and the next turn. It refuses to act when the
// caller's epoch is no longer authoritative.
func (e *Engine) skipCurrent(r *room.Room, h *timer.Handle, epoch uint64, resetStreakID, notice string) {
	r.Mu.Lock()
	if !r.Active || r.Epoch != epoch || r.Total() == 0 {
		r.Mu.Unlock()
		return
	}
	if resetStreakID != "" {
		r.Streaks[resetStreakID] = 0
	}
	r.ComboCount = 0
	r.Advance()
	r.Mu.Unlock()

	e.skipped()
	e.send(r.ID, notice)
	e.beginTurn(r, h)
}

// runBotTurn requests a move from the provider and feeds it through the
// same pipeline as a human word, or skips the bot when the provider
// comes up empty.
func (e *Engine) runBotTurn(r *room.Room, h *timer.Handle, epoch uint64, bot room.Participant, name, last string, recent []string) {
	if !h.Sleep(e.opts.ThinkDelay) {
		return
	}
	if !r.TurnValid(epoch) {
		return
	}

	start := time.Now()
	word, err := e.provider.Request(h.Context(), rules.RequiredLetter(last), recent)
	e.observeMove(time.Since(start))

	// The room may have moved on while the request was in flight.
	if !r.TurnValid(epoch) {
		return
	}

	if err != nil || word == "" {
		e.skipCurrent(r, h, epoch, "", fmt.Sprintf("🤖 %s couldn't think of a word! Skipping...", name))
		return
	}

	// Candidates are untrusted: a provider word the pipeline rejects
	// counts as an exhausted move and skips the bot.
	if err := e.submit(r, word, bot, h); err != nil {
		e.skipCurrent(r, h, epoch, "", fmt.Sprintf("🤖 %s couldn't play a valid word! Skipping...", name))
	}
}
