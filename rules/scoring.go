package rules

// Scoring holds the externally configured bonus thresholds and amounts.
type Scoring struct {
	LongWordLen   int
	LongWordBonus int
	StreakMin     int
	StreakBonus   int
	ComboStep     int
	ComboBonus    int
}

// Award is the result of scoring one accepted word.
type Award struct {
	Points int // base + all bonuses
	Bonus  int // bonus portion only
	Streak int // submitter's streak after this word (0 for bots)
	Combo  int // room combo counter after this word
}

const basePoints = 1

// Score computes the points for an accepted word. prevStreak is the
// submitter's streak before this word, prevCombo the room-wide combo
// before this word. Bots never earn the streak bonus. The three bonuses
// are independently additive.
func (s Scoring) Score(word string, prevStreak, prevCombo int, human bool) Award {
	bonus := 0

	if len(word) >= s.LongWordLen {
		bonus += s.LongWordBonus
	}

	streak := 0
	if human {
		streak = prevStreak + 1
		if streak >= s.StreakMin {
			bonus += s.StreakBonus
		}
	}

	combo := prevCombo + 1
	if s.ComboStep > 0 && combo%s.ComboStep == 0 {
		bonus += s.ComboBonus
	}

	return Award{
		Points: basePoints + bonus,
		Bonus:  bonus,
		Streak: streak,
		Combo:  combo,
	}
}
