package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/wfunc/wordchain/room"
	"github.com/wfunc/wordchain/rules"
)

func currentID(r *room.Room) string {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	cur, _ := r.Current()
	return cur.ID
}

func TestSubmitAcceptedAdvancesAndPersists(t *testing.T) {
	e, msgr, store, _ := newTestEngine(newMapDict("apple", "elephant"))
	e.Join("room1", "u1", "Alice")
	e.Join("room1", "u2", "Bob")
	e.StartGame("room1")
	defer e.EndGame("room1")

	if err := e.HandleChat("room1", "u1", "Alice", "Apple"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	r := e.rooms.GetOrCreate("room1")
	r.Mu.Lock()
	chain := append([]string(nil), r.Chain...)
	_, used := r.Used["apple"]
	r.Mu.Unlock()

	if len(chain) != 1 || chain[0] != "apple" {
		t.Fatalf("chain = %v, want [apple]", chain)
	}
	if !used {
		t.Error("word not recorded in used set")
	}
	if got := currentID(r); got != "u2" {
		t.Errorf("turn holder = %s, want u2", got)
	}
	if total, _ := store.Total("u1"); total != 1 {
		t.Errorf("persisted total = %d, want 1", total)
	}
	if msgr.count("Added 'apple'") != 1 {
		t.Errorf("missing acceptance notice: %v", msgr.snapshot())
	}
}

func TestSubmitRejectionLeavesStateUntouched(t *testing.T) {
	e, msgr, store, _ := newTestEngine(newMapDict("apple", "elephant", "tiger"))
	e.Join("room1", "u1", "Alice")
	e.Join("room1", "u2", "Bob")
	e.StartGame("room1")
	defer e.EndGame("room1")

	if err := e.HandleChat("room1", "u1", "Alice", "apple"); err != nil {
		t.Fatal(err)
	}
	// Bob must chain on 'e'; tiger violates the chain rule.
	if err := e.HandleChat("room1", "u2", "Bob", "tiger"); !errors.Is(err, rules.ErrChainMismatch) {
		t.Fatalf("err = %v, want ErrChainMismatch", err)
	}

	r := e.rooms.GetOrCreate("room1")
	r.Mu.Lock()
	chainLen := len(r.Chain)
	timer := r.Timer
	r.Mu.Unlock()

	if chainLen != 1 {
		t.Errorf("chain grew on rejection: len = %d", chainLen)
	}
	if got := currentID(r); got != "u2" {
		t.Errorf("turn moved on rejection: holder = %s, want u2", got)
	}
	if timer == nil {
		t.Error("countdown was cancelled by a rejected submission")
	}
	if total, _ := store.Total("u2"); total != 0 {
		t.Errorf("rejected word was scored: total = %d", total)
	}
	if msgr.count("must start with the required letter") != 1 {
		t.Errorf("missing rejection notice: %v", msgr.snapshot())
	}
}

func TestSubmitDuplicateWord(t *testing.T) {
	e, msgr, _, _ := newTestEngine(newMapDict("apple", "elephant"))
	e.Join("room1", "u1", "Alice")
	e.Join("room1", "u2", "Bob")
	e.StartGame("room1")
	defer e.EndGame("room1")

	if err := e.HandleChat("room1", "u1", "Alice", "apple"); err != nil {
		t.Fatal(err)
	}
	if err := e.HandleChat("room1", "u2", "Bob", "elephant"); err != nil {
		t.Fatal(err)
	}
	if err := e.HandleChat("room1", "u1", "Alice", "elephant"); !errors.Is(err, rules.ErrDuplicateWord) {
		t.Fatalf("err = %v, want ErrDuplicateWord", err)
	}
	if msgr.count("Word already used") != 1 {
		t.Errorf("missing duplicate notice: %v", msgr.snapshot())
	}
}

func TestSubmitNotInDictionary(t *testing.T) {
	e, msgr, _, _ := newTestEngine(newMapDict("apple"))
	e.Join("room1", "u1", "Alice")
	e.StartGame("room1")
	defer e.EndGame("room1")

	if err := e.HandleChat("room1", "u1", "Alice", "zzzqqq"); !errors.Is(err, rules.ErrNotInDictionary) {
		t.Fatalf("err = %v, want ErrNotInDictionary", err)
	}
	if msgr.count("Not a valid English word") != 1 {
		t.Errorf("missing dictionary notice: %v", msgr.snapshot())
	}
}

func TestSubmitBadFormat(t *testing.T) {
	e, msgr, _, _ := newTestEngine(newMapDict("apple"))
	e.Join("room1", "u1", "Alice")
	e.StartGame("room1")
	defer e.EndGame("room1")

	if err := e.HandleChat("room1", "u1", "Alice", "ap"); !errors.Is(err, rules.ErrFormat) {
		t.Fatalf("short word err = %v, want ErrFormat", err)
	}
	if err := e.HandleChat("room1", "u1", "Alice", "app1e"); !errors.Is(err, rules.ErrFormat) {
		t.Fatalf("digits err = %v, want ErrFormat", err)
	}
	if msgr.count("letters only") != 2 {
		t.Errorf("want 2 format notices, got %v", msgr.snapshot())
	}
}

func TestLongWordBonusInAnnouncement(t *testing.T) {
	e, msgr, store, _ := newTestEngine(newMapDict("elephant"))
	e.Join("room1", "u1", "Alice")
	e.StartGame("room1")
	defer e.EndGame("room1")

	if err := e.HandleChat("room1", "u1", "Alice", "elephant"); err != nil {
		t.Fatal(err)
	}
	if total, _ := store.Total("u1"); total != 3 {
		t.Errorf("total = %d, want 3 (1 base + 2 long-word)", total)
	}
	if msgr.count("(+3 pts (+2 bonus))") != 1 {
		t.Errorf("missing bonus announcement: %v", msgr.snapshot())
	}
}

func TestStreakBonusAcrossTurns(t *testing.T) {
	e, _, store, _ := newTestEngine(newMapDict("ale", "end", "den", "net"))
	e.Join("room1", "u1", "Alice")
	e.StartGame("room1")
	defer e.EndGame("room1")

	// Single player: every turn is Alice's, so her streak builds.
	for _, w := range []string{"ale", "end", "den"} {
		if err := e.HandleChat("room1", "u1", "Alice", w); err != nil {
			t.Fatalf("submit %q: %v", w, err)
		}
	}

	// 1 + 1 + (1 + streak bonus on the 3rd) = 4
	if total, _ := store.Total("u1"); total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
}

func TestComboBonusOnFifthSubmission(t *testing.T) {
	e, _, store, _ := newTestEngine(newMapDict("ale", "eel", "lea", "alp", "pal", "led"))
	// Streak bonus would muddy the count; disable it.
	e.opts.Scoring.StreakBonus = 0
	e.Join("room1", "u1", "Alice")
	e.StartGame("room1")
	defer e.EndGame("room1")

	for _, w := range []string{"ale", "eel", "lea", "alp", "pal"} {
		if err := e.HandleChat("room1", "u1", "Alice", w); err != nil {
			t.Fatalf("submit %q: %v", w, err)
		}
	}

	// 5 base points plus the room-combo bonus on the 5th word.
	if total, _ := store.Total("u1"); total != 6 {
		t.Errorf("total = %d, want 6", total)
	}
}

func TestPersistFailureDoesNotStallPlay(t *testing.T) {
	e, msgr, store, _ := newTestEngine(newMapDict("apple", "elephant"))
	e.Join("room1", "u1", "Alice")
	e.Join("room1", "u2", "Bob")
	e.StartGame("room1")
	defer e.EndGame("room1")

	store.mu.Lock()
	store.fail = true
	store.mu.Unlock()

	if err := e.HandleChat("room1", "u1", "Alice", "apple"); err != nil {
		t.Fatalf("submit with failing store: %v", err)
	}

	r := e.rooms.GetOrCreate("room1")
	if got := currentID(r); got != "u2" {
		t.Errorf("turn did not advance past persist failure: holder = %s", got)
	}
	if msgr.count("Added 'apple'") != 1 {
		t.Errorf("acceptance notice missing: %v", msgr.snapshot())
	}
}

func TestSubmitDropsStaleSender(t *testing.T) {
	e, _, store, _ := newTestEngine(newMapDict("apple"))
	e.Join("room1", "u1", "Alice")
	e.Join("room1", "u2", "Bob")
	e.StartGame("room1")
	defer e.EndGame("room1")

	r := e.rooms.GetOrCreate("room1")
	// Simulate a submission whose sender snapshot went stale: Bob holds
	// a Participant value but the turn belongs to Alice.
	stale := room.Participant{Kind: room.Human, ID: "u2", Name: "Bob"}
	if err := e.submit(r, "apple", stale, nil); err != nil {
		t.Fatalf("stale submit err = %v, want nil drop", err)
	}

	r.Mu.Lock()
	chainLen := len(r.Chain)
	r.Mu.Unlock()
	if chainLen != 0 {
		t.Errorf("stale submission mutated the chain")
	}
	if total, _ := store.Total("u2"); total != 0 {
		t.Errorf("stale submission was scored")
	}
}

func TestRejectionBotVariantText(t *testing.T) {
	bot := room.Participant{Kind: room.Bot, ID: "", Name: "HAL"}
	got := rejectionText(bot, rules.ErrChainMismatch)
	if !strings.Contains(got, "HAL") || !strings.Contains(got, "chain") {
		t.Errorf("bot rejection text = %q", got)
	}
}
