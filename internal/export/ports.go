package export

import (
	"context"

	"budgets/internal/budget"
)

// SummaryWriter is the outbound port for monthly summary export.
type SummaryWriter interface {
	// WriteMonthSummary writes or replaces one month's summary row and
	// returns a reference to the written cell range.
	WriteMonthSummary(ctx context.Context, s budget.Summary) (rowRef string, err error)
}
