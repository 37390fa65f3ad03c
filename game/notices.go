package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wfunc/wordchain/room"
	"github.com/wfunc/wordchain/rules"
)

const noticeNoPlayers = "No players joined yet! Use !join or !addbot"

const progressBarCells = 10

// progressBar renders the remaining time as filled/empty cells.
func progressBar(current, total int) string {
	if total <= 0 {
		return strings.Repeat("▰", progressBarCells)
	}
	filled := current * progressBarCells / total
	if filled > progressBarCells {
		filled = progressBarCells
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", progressBarCells-filled)
}

// turnText builds the deterministic turn prompt that gets re-edited as
// the countdown runs.
func turnText(name, lastWord string, remaining, total int) string {
	bar := progressBar(remaining, total)
	if lastWord == "" {
		return fmt.Sprintf("🎮 It's %s's turn! Start with any English word.\n%s (%ds)", name, bar, remaining)
	}
	return fmt.Sprintf("🎮 It's %s's turn! Word must start with '%s'.\n%s (%ds)",
		name, rules.RequiredLetter(lastWord), bar, remaining)
}

// rejectionText maps a validation error to its one user-facing notice.
func rejectionText(from room.Participant, err error) string {
	if from.Kind == room.Bot {
		switch {
		case errors.Is(err, rules.ErrFormat):
			return fmt.Sprintf("🤖 %s submitted invalid word format.", from.Name)
		case errors.Is(err, rules.ErrNotInDictionary):
			return fmt.Sprintf("🤖 %s submitted invalid English word.", from.Name)
		case errors.Is(err, rules.ErrDuplicateWord):
			return fmt.Sprintf("🤖 %s submitted already used word.", from.Name)
		default:
			return fmt.Sprintf("🤖 %s submitted word that doesn't chain properly.", from.Name)
		}
	}
	switch {
	case errors.Is(err, rules.ErrFormat):
		return fmt.Sprintf("Please enter a valid word (letters only, %d-%d characters).", rules.MinWordLen, rules.MaxWordLen)
	case errors.Is(err, rules.ErrNotInDictionary):
		return "Not a valid English word (dictionary check failed)."
	case errors.Is(err, rules.ErrDuplicateWord):
		return "Word already used!"
	default:
		return "Word must start with the required letter."
	}
}

// resultText announces an accepted word: points, the letter the next
// word must start with, and whose turn is next.
func resultText(from room.Participant, word string, award rules.Award, total int, nextName string) string {
	nextLetter := rules.RequiredLetter(word)
	if from.Kind == room.Bot {
		return fmt.Sprintf("🤖 %s played '%s' (+%d pts). Next starts with '%s'. Next: %s",
			from.Name, word, award.Points, nextLetter, nextName)
	}
	bonusText := ""
	if award.Bonus > 0 {
		bonusText = fmt.Sprintf(" (+%d bonus)", award.Bonus)
	}
	return fmt.Sprintf("✅ Added '%s' (+%d pts%s). Next starts with '%s'. Your total score: %d. Next: %s",
		word, award.Points, bonusText, nextLetter, total, nextName)
}
