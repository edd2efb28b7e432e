// Package worker keeps the Google Sheets summary in step with the
// backend: change messages trigger a re-sync of the affected month, and a
// periodic pass covers anything missed.
package worker

import (
	"context"
	"fmt"
	"time"

	"budgets/internal/amqp"
	"budgets/internal/budget"
	"budgets/internal/export"
	"budgets/internal/log"
)

// SyncWorker re-exports month summaries when budgets change.
type SyncWorker struct {
	budgets *budget.Service
	writer  export.SummaryWriter
	logger  *log.Logger
}

func NewSyncWorker(budgets *budget.Service, writer export.SummaryWriter, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{
		budgets: budgets,
		writer:  writer,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleBudgetChange re-syncs the month named by a change message.
// Returning an error requeues the message.
func (w *SyncWorker) HandleBudgetChange(msg *amqp.BudgetChangedMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w.logger.InfoContext(ctx, "Processing budget change",
		log.FieldYear, msg.Year,
		log.FieldMonth, msg.Month,
		log.FieldEventKind, string(msg.Kind),
		log.FieldEventID, msg.EventID)

	return w.syncMonth(ctx, msg.Year, msg.Month)
}

// ResyncCurrentMonth runs the periodic safety pass.
func (w *SyncWorker) ResyncCurrentMonth(ctx context.Context) error {
	now := time.Now()
	return w.syncMonth(ctx, now.Year(), int(now.Month()))
}

func (w *SyncWorker) syncMonth(ctx context.Context, year, month int) error {
	// Cached month is stale by definition here
	w.budgets.Invalidate(year, month)

	summary, err := w.budgets.Summarize(ctx, year, month)
	if err != nil {
		return fmt.Errorf("summarize %04d-%02d: %w", year, month, err)
	}

	ref, err := w.writer.WriteMonthSummary(ctx, summary)
	if err != nil {
		return fmt.Errorf("write summary %04d-%02d: %w", year, month, err)
	}

	w.logger.InfoContext(ctx, "Month summary synced",
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldSheetsRef, ref)
	return nil
}
