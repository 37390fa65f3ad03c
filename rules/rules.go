// Package rules holds the pure word-chain validation and scoring logic.
// Nothing in here touches room state, timers or I/O.
package rules

import (
	"errors"
	"strings"
	"unicode"
)

const (
	MinWordLen = 3
	MaxWordLen = 15
)

var (
	ErrFormat          = errors.New("word must be letters only, 3-15 characters")
	ErrNotInDictionary = errors.New("word not found in dictionary")
	ErrDuplicateWord   = errors.New("word already used in this room")
	ErrChainMismatch   = errors.New("word does not start with the required letter")
)

// Dictionary is the membership oracle. Absence is rejection, there is no
// fuzzy fallback.
type Dictionary interface {
	Contains(word string) bool
}

// Normalize trims surrounding whitespace and lowercases a submission.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidFormat reports whether a normalized word is alphabetic and within
// the allowed length range.
func ValidFormat(word string) bool {
	if len(word) < MinWordLen || len(word) > MaxWordLen {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// RequiredLetter returns the letter the next word must start with, or ""
// when the chain is empty and any word is allowed.
func RequiredLetter(lastWord string) string {
	if lastWord == "" {
		return ""
	}
	return lastWord[len(lastWord)-1:]
}

// Validate runs the submission checks in order: format, dictionary,
// duplicate, chain link. The word must already be normalized. It returns
// the first failing check's error, or nil when the word is playable.
func Validate(word string, dict Dictionary, used map[string]struct{}, lastWord string) error {
	if !ValidFormat(word) {
		return ErrFormat
	}
	if dict == nil || !dict.Contains(word) {
		return ErrNotInDictionary
	}
	if _, ok := used[word]; ok {
		return ErrDuplicateWord
	}
	if req := RequiredLetter(lastWord); req != "" && word[:1] != req {
		return ErrChainMismatch
	}
	return nil
}
