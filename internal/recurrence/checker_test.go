package recurrence

import (
	"testing"

	"budgets/internal/core"
)

func TestOnceChecker_IsDue(t *testing.T) {
	checker := OnceChecker{}
	initial := core.NewDate(2024, 3, 15)

	tests := []struct {
		name   string
		target core.Date
		want   bool
	}{
		{"exact day - is due", core.NewDate(2024, 3, 15), true},
		{"day before - not due", core.NewDate(2024, 3, 14), false},
		{"day after - not due", core.NewDate(2024, 3, 16), false},
		{"same day next year - not due", core.NewDate(2025, 3, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(initial, tt.target); got != tt.want {
				t.Errorf("OnceChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	initial := core.NewDate(2024, 1, 10)

	tests := []struct {
		name   string
		target core.Date
		want   bool
	}{
		{"initial day - is due", core.NewDate(2024, 1, 10), true},
		{"later day - is due", core.NewDate(2024, 5, 3), true},
		{"before initial - not due", core.NewDate(2024, 1, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(initial, tt.target); got != tt.want {
				t.Errorf("DailyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}
	// 2024-01-01 is a Monday
	initial := core.NewDate(2024, 1, 1)

	tests := []struct {
		name   string
		target core.Date
		want   bool
	}{
		{"initial Monday - is due", core.NewDate(2024, 1, 1), true},
		{"next Monday - is due", core.NewDate(2024, 1, 8), true},
		{"Tuesday after - not due", core.NewDate(2024, 1, 9), false},
		{"Monday before initial - not due", core.NewDate(2023, 12, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(initial, tt.target); got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker_IsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name    string
		initial core.Date
		target  core.Date
		want    bool
	}{
		{"anchor day next month - is due", core.NewDate(2024, 1, 15), core.NewDate(2024, 2, 15), true},
		{"other day - not due", core.NewDate(2024, 1, 15), core.NewDate(2024, 2, 14), false},
		{"before initial - not due", core.NewDate(2024, 1, 15), core.NewDate(2023, 12, 15), false},
		// Clamp policy: anchored on the 31st, a 30-day month fires on the 30th
		{"day 31 clamps to Apr 30 - is due", core.NewDate(2024, 1, 31), core.NewDate(2024, 4, 30), true},
		{"day 31 not due on Apr 29", core.NewDate(2024, 1, 31), core.NewDate(2024, 4, 29), false},
		{"day 31 clamps to Feb 29 leap year", core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 29), true},
		{"day 31 clamps to Feb 28 non-leap", core.NewDate(2024, 1, 31), core.NewDate(2025, 2, 28), true},
		{"day 31 due on real 31st", core.NewDate(2024, 1, 31), core.NewDate(2024, 3, 31), true},
		{"day 31 not due on Mar 30", core.NewDate(2024, 1, 31), core.NewDate(2024, 3, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.initial, tt.target); got != tt.want {
				t.Errorf("MonthlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker_IsDue(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name    string
		initial core.Date
		target  core.Date
		want    bool
	}{
		{"anniversary - is due", core.NewDate(2023, 6, 10), core.NewDate(2024, 6, 10), true},
		{"wrong month - not due", core.NewDate(2023, 6, 10), core.NewDate(2024, 7, 10), false},
		{"wrong day - not due", core.NewDate(2023, 6, 10), core.NewDate(2024, 6, 11), false},
		{"before initial - not due", core.NewDate(2023, 6, 10), core.NewDate(2022, 6, 10), false},
		{"Feb 29 anchor clamps to Feb 28", core.NewDate(2024, 2, 29), core.NewDate(2025, 2, 28), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.initial, tt.target); got != tt.want {
				t.Errorf("YearlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	for _, rule := range []core.Recurrence{core.Once, core.Daily, core.Weekly, core.Monthly, core.Yearly} {
		if _, err := GetDuenessChecker(rule); err != nil {
			t.Fatalf("%s: unexpected error %v", rule, err)
		}
	}
	if _, err := GetDuenessChecker("fortnightly"); err == nil {
		t.Fatalf("expected error for unknown rule")
	}
}

type everyOtherDayChecker struct{}

func (everyOtherDayChecker) IsDue(initial, target core.Date) bool {
	if !target.OnOrAfter(initial) {
		return false
	}
	days := int(target.Sub(initial.Time).Hours() / 24)
	return days%2 == 0
}

func TestRegisterDuenessChecker(t *testing.T) {
	const rule = core.Recurrence("every_other_day")
	RegisterDuenessChecker(rule, everyOtherDayChecker{})
	defer delete(duenessStrategies, rule)

	checker, err := GetDuenessChecker(rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checker.IsDue(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 3)) {
		t.Fatalf("expected custom checker to fire")
	}
}
