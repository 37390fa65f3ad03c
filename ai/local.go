package ai

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/wfunc/wordchain/game"
)

// Suggester is the dictionary lookup the local provider draws from.
type Suggester interface {
	Suggest(letter string, exclude map[string]struct{}, limit int) []string
}

// Local serves bot moves straight from the loaded dictionary. It is the
// provider of choice when no API key is configured: always available,
// zero latency, no network.
type Local struct {
	dict Suggester

	mu  sync.Mutex
	rng *rand.Rand
}

func NewLocal(dict Suggester, seed int64) *Local {
	return &Local{dict: dict, rng: rand.New(rand.NewSource(seed))}
}

// Request implements game.MoveProvider.
func (l *Local) Request(ctx context.Context, lastLetter string, recent []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	exclude := make(map[string]struct{}, len(recent))
	for _, w := range recent {
		exclude[strings.ToLower(w)] = struct{}{}
	}

	// A wider sample than needed so repeated games don't always open
	// with the same word.
	candidates := l.dict.Suggest(lastLetter, exclude, 30)
	if len(candidates) == 0 {
		return "", game.ErrNoMove
	}

	l.mu.Lock()
	pick := candidates[l.rng.Intn(len(candidates))]
	l.mu.Unlock()
	return pick, nil
}
