// Package recurrence decides whether money events fall due on a given day
// and computes the exact-cent aggregates shown on the monthly budget.
//
// This file implements the Strategy Pattern for dueness checking. Each
// recurrence rule (once, daily, weekly, monthly, yearly) has its own
// strategy that encapsulates the logic for determining if an event is due.
// Everything here is pure computation with no I/O and no mutable event
// state, so it is safe for unlimited concurrent use.
package recurrence

import (
	"fmt"
	"time"

	"budgets/internal/core"
)

// DuenessChecker is the strategy interface for checking if a money event
// is due on a target date given its initial occurrence.
type DuenessChecker interface {
	// IsDue returns true if an event anchored on initial falls due on target.
	IsDue(initial, target core.Date) bool
}

// OnceChecker implements DuenessChecker for one-shot events.
type OnceChecker struct{}

// IsDue returns true only on the exact initial day.
func (OnceChecker) IsDue(initial, target core.Date) bool {
	return target.SameDay(initial)
}

// DailyChecker implements DuenessChecker for daily events.
type DailyChecker struct{}

// IsDue returns true from the initial day onward.
func (DailyChecker) IsDue(initial, target core.Date) bool {
	return target.OnOrAfter(initial)
}

// WeeklyChecker implements DuenessChecker for weekly events.
type WeeklyChecker struct{}

// IsDue returns true on the initial day's weekday, from the initial day onward.
func (WeeklyChecker) IsDue(initial, target core.Date) bool {
	if !target.OnOrAfter(initial) {
		return false
	}
	return target.Weekday() == initial.Weekday()
}

// MonthlyChecker implements DuenessChecker for monthly events.
//
// When the initial day of month does not exist in the target month
// (e.g. anchored on the 31st, checked against April), the due day is
// clamped to the last day of the target month. An event anchored on the
// 31st is therefore due on Apr 30 and Feb 28/29, and on no other day of
// those months.
type MonthlyChecker struct{}

// IsDue returns true on the anchor day of each month, clamped to month length.
func (MonthlyChecker) IsDue(initial, target core.Date) bool {
	if !target.OnOrAfter(initial) {
		return false
	}
	return target.Day() == clampDay(initial.Day(), target.Year(), target.Month())
}

// YearlyChecker implements DuenessChecker for yearly events.
type YearlyChecker struct{}

// IsDue returns true on the anchor month and day of each year, with the
// same end-of-month clamping as MonthlyChecker.
func (YearlyChecker) IsDue(initial, target core.Date) bool {
	if !target.OnOrAfter(initial) {
		return false
	}
	if target.Month() != initial.Month() {
		return false
	}
	return target.Day() == clampDay(initial.Day(), target.Year(), target.Month())
}

// clampDay limits day to the number of days in the given month.
func clampDay(day, year, month int) int {
	lastDayOfMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDayOfMonth {
		return lastDayOfMonth
	}
	return day
}

// duenessStrategies maps recurrence rules to their corresponding checkers.
var duenessStrategies = map[core.Recurrence]DuenessChecker{
	core.Once:    OnceChecker{},
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the appropriate dueness checker for a recurrence rule.
// Returns an error if the rule is not supported.
func GetDuenessChecker(rule core.Recurrence) (DuenessChecker, error) {
	checker, ok := duenessStrategies[rule]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence rule: %s", rule)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom dueness checkers for new
// recurrence rules without modifying the engine.
func RegisterDuenessChecker(rule core.Recurrence, checker DuenessChecker) {
	duenessStrategies[rule] = checker
}
