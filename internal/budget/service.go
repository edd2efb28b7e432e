// Package budget aggregates one viewed month: totals in and out, the net
// position, and the items whose recurrence rule falls due today. It is
// the only caller of the recurrence engine.
package budget

import (
	"context"
	"fmt"
	"time"

	"budgets/internal/api"
	"budgets/internal/cache"
	"budgets/internal/core"
	"budgets/internal/log"
	"budgets/internal/recurrence"
)

// Summary is the header of the monthly budget screen.
type Summary struct {
	Year     int
	Month    int
	MoneyIn  core.Money
	MoneyOut core.Money
	Net      recurrence.NetPosition
}

// BudgetAPI is the slice of the API layer this service reads from.
type BudgetAPI interface {
	GetBudget(ctx context.Context, year, month int) (api.Budget, error)
}

// Service fetches, caches and aggregates monthly budgets. Each viewed
// month is fetched once and kept until the cache expires it or logout
// purges it.
type Service struct {
	api    BudgetAPI
	months cache.Cache[api.Budget]
	logger *log.Logger
}

func NewService(budgetAPI BudgetAPI, months cache.Cache[api.Budget], logger *log.Logger) *Service {
	if months == nil {
		months = cache.NewLRUCache[api.Budget](24, 5*time.Minute)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		api:    budgetAPI,
		months: months,
		logger: logger.WithComponent(log.ComponentBudget),
	}
}

// Get returns the budget for a month, served from cache when possible.
func (s *Service) Get(ctx context.Context, year, month int) (api.Budget, error) {
	key := monthKey(year, month)
	if b, ok := s.months.Get(key); ok {
		return b, nil
	}

	b, err := s.api.GetBudget(ctx, year, month)
	if err != nil {
		return api.Budget{}, err
	}
	s.months.Set(key, b)
	s.logger.DebugContext(ctx, "Fetched budget",
		log.FieldYear, year,
		log.FieldMonth, month,
		"incomes", len(b.Incomes),
		"payments", len(b.Payments))
	return b, nil
}

// Summarize computes the month header: exact cent totals for money in and
// out and the signed leftover between them.
func (s *Service) Summarize(ctx context.Context, year, month int) (Summary, error) {
	b, err := s.Get(ctx, year, month)
	if err != nil {
		return Summary{}, err
	}
	moneyIn := recurrence.SumAmounts(b.Incomes)
	moneyOut := recurrence.SumAmounts(b.Payments)
	return Summary{
		Year:     year,
		Month:    month,
		MoneyIn:  moneyIn,
		MoneyOut: moneyOut,
		Net:      recurrence.ComputeNetPosition(moneyIn, moneyOut),
	}, nil
}

// DueToday lists the month's events due on the given day, incomes first
// then payments, each side in backend order.
func (s *Service) DueToday(ctx context.Context, today core.Date) ([]core.DueTodayItem, error) {
	b, err := s.Get(ctx, today.Year(), today.Month())
	if err != nil {
		return nil, err
	}
	items := recurrence.DueToday(b.Incomes, core.KindIncome, today)
	items = append(items, recurrence.DueToday(b.Payments, core.KindPayment, today)...)
	return items, nil
}

// Invalidate drops one cached month, typically after a mutation.
func (s *Service) Invalidate(year, month int) {
	s.months.Delete(monthKey(year, month))
}

// ClearCache drops every cached month. Wired into the session manager's
// logout hook.
func (s *Service) ClearCache() {
	s.months.Purge()
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
