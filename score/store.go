// Package score is the process-wide ledger of cumulative points. All
// rooms share one Store; each implementation serializes its
// read-modify-write-persist cycle so concurrent awards never lose
// updates.
package score

import (
	"fmt"
	"strings"
)

// Entry is one leaderboard row.
type Entry struct {
	Key    string
	Points int
}

// Store 积分存储接口
type Store interface {
	// Increment adds delta to a key and returns the new total. The
	// mutation is durable on return for persistent backends.
	Increment(key string, delta int) (int, error)
	// Total returns the current total for a key, 0 when absent.
	Total(key string) (int, error)
	// Top returns the n highest entries, descending.
	Top(n int) ([]Entry, error)
	// Reset clears every entry.
	Reset() error
	Close() error
}

// BotKeyPrefix namespaces automated players so their keys can never
// collide with human participant identifiers.
const BotKeyPrefix = "ai_"

// HumanKey converts a human participant identifier into a ledger key.
func HumanKey(id string) string {
	return id
}

// BotKey converts a bot display name into its reserved-prefix ledger key.
func BotKey(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	if safe == "" {
		safe = "ai"
	}
	safe = strings.ReplaceAll(safe, " ", "_")
	return BotKeyPrefix + safe
}

// IsBotKey reports whether a ledger key belongs to a bot.
func IsBotKey(key string) bool {
	return strings.HasPrefix(key, BotKeyPrefix)
}

// DisplayName renders a ledger key for a leaderboard when no better name
// is cached.
func DisplayName(key string) string {
	if IsBotKey(key) {
		return strings.TrimPrefix(key, BotKeyPrefix)
	}
	return fmt.Sprintf("User %s", key)
}
