package rules

import "testing"

var testScoring = Scoring{
	LongWordLen:   7,
	LongWordBonus: 2,
	StreakMin:     3,
	StreakBonus:   1,
	ComboStep:     5,
	ComboBonus:    1,
}

func TestScore_Base(t *testing.T) {
	a := testScoring.Score("cat", 0, 0, true)
	if a.Points != 1 {
		t.Errorf("Expected 1 point for a short word, got %d", a.Points)
	}
	if a.Streak != 1 {
		t.Errorf("Expected streak 1, got %d", a.Streak)
	}
	if a.Combo != 1 {
		t.Errorf("Expected combo 1, got %d", a.Combo)
	}
}

func TestScore_LongWordBonus(t *testing.T) {
	// 8 letters >= longWordLen 7, so 1 base + 2 bonus.
	a := testScoring.Score("elephant", 0, 0, true)
	if a.Points != 3 {
		t.Errorf("Expected 3 points for an 8-letter word, got %d", a.Points)
	}
	if a.Bonus != 2 {
		t.Errorf("Expected bonus 2, got %d", a.Bonus)
	}
}

func TestScore_StreakBonus(t *testing.T) {
	// Third consecutive word reaches streakMin and earns the bonus.
	a := testScoring.Score("cat", 2, 0, true)
	if a.Streak != 3 {
		t.Fatalf("Expected streak 3, got %d", a.Streak)
	}
	if a.Points != 2 {
		t.Errorf("Expected 1 base + 1 streak bonus, got %d", a.Points)
	}
}

func TestScore_BotsNeverEarnStreak(t *testing.T) {
	a := testScoring.Score("cat", 5, 0, false)
	if a.Streak != 0 {
		t.Errorf("Bot streak should stay 0, got %d", a.Streak)
	}
	if a.Points != 1 {
		t.Errorf("Expected 1 point without streak bonus, got %d", a.Points)
	}
}

func TestScore_ComboBonusEveryStep(t *testing.T) {
	// 5th consecutive submission room-wide triggers the combo bonus.
	a := testScoring.Score("cat", 0, 4, true)
	if a.Combo != 5 {
		t.Fatalf("Expected combo 5, got %d", a.Combo)
	}
	if a.Points != 2 {
		t.Errorf("Expected 1 base + 1 combo bonus, got %d", a.Points)
	}

	// After a reset the next submission is combo position 1, no bonus.
	a = testScoring.Score("cat", 0, 0, true)
	if a.Combo != 1 || a.Points != 1 {
		t.Errorf("Expected combo 1 with 1 point after reset, got combo %d points %d", a.Combo, a.Points)
	}
}

func TestScore_BonusesAreAdditive(t *testing.T) {
	// Long word + streak + combo all at once.
	a := testScoring.Score("elephant", 2, 4, true)
	want := 1 + 2 + 1 + 1
	if a.Points != want {
		t.Errorf("Expected %d points with all bonuses, got %d", want, a.Points)
	}
}

func TestScore_ComboStepZeroDisablesBonus(t *testing.T) {
	s := testScoring
	s.ComboStep = 0
	a := s.Score("cat", 0, 4, true)
	if a.Points != 1 {
		t.Errorf("Combo bonus should be disabled when step is 0, got %d points", a.Points)
	}
}
