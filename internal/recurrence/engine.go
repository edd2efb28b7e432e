package recurrence

import (
	"budgets/internal/core"
)

// SignPositive and SignNegative tag which side of the budget is ahead.
const (
	SignPositive = "+"
	SignNegative = "-"
)

// NetPosition is the leftover between money in and money out for a window.
type NetPosition struct {
	Amount core.Money
	Sign   string
}

// IsDueOn evaluates the event's recurrence rule against the target date.
// Unknown rules are never due.
func IsDueOn(event core.MoneyEvent, date core.Date) bool {
	checker, err := GetDuenessChecker(event.Recurrence)
	if err != nil {
		return false
	}
	return checker.IsDue(event.InitialDate, date)
}

// DueToday filters events due on the given day, tagging each with the
// caller-provided kind. Output order matches input order.
func DueToday(events []core.MoneyEvent, kind core.EventKind, today core.Date) []core.DueTodayItem {
	items := make([]core.DueTodayItem, 0, len(events))
	for _, e := range events {
		if IsDueOn(e, today) {
			items = append(items, core.DueTodayItem{Event: e, Kind: kind})
		}
	}
	return items
}

// SumAmounts returns the exact cent sum of all event amounts.
// An empty slice sums to zero.
func SumAmounts(events []core.MoneyEvent) core.Money {
	var total core.Money
	for _, e := range events {
		total = total.Add(e.Amount)
	}
	return total
}

// ComputeNetPosition compares total income against total payments.
// The sign is "+" whenever income covers the payments, "-" otherwise;
// the amount is always the absolute difference.
func ComputeNetPosition(incomeTotal, paymentTotal core.Money) NetPosition {
	diff := incomeTotal.Cents - paymentTotal.Cents
	if diff >= 0 {
		return NetPosition{Amount: core.Money{Cents: diff}, Sign: SignPositive}
	}
	return NetPosition{Amount: core.Money{Cents: -diff}, Sign: SignNegative}
}
