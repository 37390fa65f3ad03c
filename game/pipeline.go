package game

import (
	"github.com/wfunc/wordchain/logger"
	"github.com/wfunc/wordchain/room"
	"github.com/wfunc/wordchain/rules"
	"github.com/wfunc/wordchain/score"
	"github.com/wfunc/wordchain/timer"
)

// submit runs one word through the full pipeline: validate, apply,
// score, persist, advance, announce, next turn. Bot and human
// submissions take the identical path. self is the calling driver's
// handle when the submission originates from a bot turn.
//
// Validation failures leave the room untouched: the turn, its timer and
// the chain all stay as they were.
func (e *Engine) submit(r *room.Room, raw string, from room.Participant, self *timer.Handle) error {
	word := rules.Normalize(raw)

	r.Mu.Lock()
	if !r.Active {
		r.Mu.Unlock()
		return nil
	}
	if cur, ok := r.Current(); !ok || !cur.Equal(from) {
		// The roster or turn changed while this submission was in
		// flight; drop it.
		r.Mu.Unlock()
		return nil
	}

	if err := rules.Validate(word, e.dict, r.Used, r.LastWord()); err != nil {
		r.Mu.Unlock()
		e.rejected()
		e.send(r.ID, rejectionText(from, err))
		return err
	}

	// Fence the in-flight driver before mutating anything: its next
	// check point sees the new epoch and stands down.
	r.BumpEpoch()
	h := r.Timer
	r.Timer = nil

	r.Chain = append(r.Chain, word)
	r.Used[word] = struct{}{}

	human := from.Kind == room.Human
	prevStreak := 0
	if human {
		prevStreak = r.Streaks[from.ID]
	}
	award := e.opts.Scoring.Score(word, prevStreak, r.ComboCount, human)
	if human {
		r.Streaks[from.ID] = award.Streak
	}
	r.ComboCount = award.Combo

	r.Advance()
	nextName := r.CurrentName()
	r.Mu.Unlock()

	if h != nil && h != self {
		h.Stop()
	}

	var key string
	if human {
		key = score.HumanKey(from.ID)
	} else {
		key = score.BotKey(from.Name)
		e.cacheBotName(key, from.Name)
	}
	total, perr := e.store.Increment(key, award.Points)
	if perr != nil {
		// Availability over durability: the session total is still
		// correct in memory and play continues.
		logger.Log.Warnf("Score persist failed for %s in room %s: %v", key, r.ID, perr)
	}

	e.accepted()
	e.send(r.ID, resultText(from, word, award, total, nextName))
	e.beginTurn(r, self)
	return nil
}
