package recurrence

import (
	"testing"

	"budgets/internal/core"
)

func event(id string, cents int64, rule core.Recurrence, initial core.Date) core.MoneyEvent {
	return core.MoneyEvent{
		ID:          id,
		Title:       id,
		Amount:      core.Money{Cents: cents},
		Recurrence:  rule,
		InitialDate: initial,
	}
}

func TestIsDueOn(t *testing.T) {
	weekly := event("salary", 100000, core.Weekly, core.NewDate(2024, 1, 1)) // Monday

	if !IsDueOn(weekly, core.NewDate(2024, 1, 8)) {
		t.Fatalf("expected weekly event due the following Monday")
	}
	if IsDueOn(weekly, core.NewDate(2024, 1, 9)) {
		t.Fatalf("expected weekly event not due on Tuesday")
	}

	unknown := event("odd", 100, "fortnightly", core.NewDate(2024, 1, 1))
	if IsDueOn(unknown, core.NewDate(2024, 1, 1)) {
		t.Fatalf("unknown rules are never due")
	}
}

func TestDueToday(t *testing.T) {
	today := core.NewDate(2024, 1, 8) // Monday
	events := []core.MoneyEvent{
		event("rent", 120000, core.Monthly, core.NewDate(2024, 1, 8)),
		event("coffee", 300, core.Daily, core.NewDate(2024, 1, 1)),
		event("gym", 5000, core.Weekly, core.NewDate(2024, 1, 2)), // Tuesday
	}

	items := DueToday(events, core.KindPayment, today)
	if len(items) != 2 {
		t.Fatalf("expected 2 due items, got %d", len(items))
	}
	// Input ordering is preserved
	if items[0].Event.ID != "rent" || items[1].Event.ID != "coffee" {
		t.Fatalf("unexpected ordering: %s, %s", items[0].Event.ID, items[1].Event.ID)
	}
	for _, item := range items {
		if item.Kind != core.KindPayment {
			t.Fatalf("expected payment kind, got %s", item.Kind)
		}
	}
}

func TestDueTodayEmpty(t *testing.T) {
	if items := DueToday(nil, core.KindIncome, core.NewDate(2024, 1, 1)); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestSumAmounts(t *testing.T) {
	if got := SumAmounts(nil); got.Cents != 0 {
		t.Fatalf("empty sum expected 0, got %d", got.Cents)
	}

	events := []core.MoneyEvent{
		event("a", 1050, core.Once, core.NewDate(2024, 1, 1)), // 10.50
		event("b", 525, core.Once, core.NewDate(2024, 1, 1)),  // 5.25
	}
	got := SumAmounts(events)
	if got.Cents != 1575 {
		t.Fatalf("expected exactly 1575 cents, got %d", got.Cents)
	}
	if got.Format() != "15.75" {
		t.Fatalf("expected 15.75, got %s", got.Format())
	}
}

func TestComputeNetPosition(t *testing.T) {
	tests := []struct {
		name      string
		in, out   int64
		wantCents int64
		wantSign  string
	}{
		{"income ahead", 100000, 40000, 60000, SignPositive},
		{"payments ahead", 40000, 100000, 60000, SignNegative},
		{"balanced", 50000, 50000, 0, SignPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNetPosition(core.Money{Cents: tt.in}, core.Money{Cents: tt.out})
			if got.Amount.Cents != tt.wantCents || got.Sign != tt.wantSign {
				t.Errorf("ComputeNetPosition() = %d %s, want %d %s",
					got.Amount.Cents, got.Sign, tt.wantCents, tt.wantSign)
			}
		})
	}
}
