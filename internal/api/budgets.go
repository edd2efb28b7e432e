package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"budgets/internal/core"
)

// Budget is one viewed month's raw material: every income and payment the
// backend knows for the window, in backend order.
type Budget struct {
	Year     int
	Month    int
	Incomes  []core.MoneyEvent
	Payments []core.MoneyEvent
}

type moneyEventDTO struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Amount       json.Number `json:"amount"`
	Recurrence   string      `json:"recurrence"`
	InitialDay   int         `json:"initialDay"`
	InitialMonth int         `json:"initialMonth"`
	InitialYear  int         `json:"initialYear"`
	CreatedOn    time.Time   `json:"createdOn"`
	ModifiedOn   time.Time   `json:"modifiedOn"`
}

// toDomain decodes through json.Number so amounts stay decimal-exact.
func (d moneyEventDTO) toDomain() (core.MoneyEvent, error) {
	cents, err := core.ParseDecimalToCents(d.Amount.String())
	if err != nil {
		return core.MoneyEvent{}, fmt.Errorf("event %s: parse amount %q: %w", d.ID, d.Amount, err)
	}
	return core.MoneyEvent{
		ID:          d.ID,
		Title:       d.Title,
		Amount:      core.Money{Cents: cents},
		Recurrence:  core.Recurrence(d.Recurrence),
		InitialDate: core.NewDate(d.InitialYear, d.InitialMonth, d.InitialDay),
		CreatedOn:   d.CreatedOn,
		ModifiedOn:  d.ModifiedOn,
	}, nil
}

func fromDomain(e core.MoneyEvent) moneyEventDTO {
	return moneyEventDTO{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       json.Number(e.Amount.Format()),
		Recurrence:   string(e.Recurrence),
		InitialDay:   e.InitialDate.Day(),
		InitialMonth: e.InitialDate.Month(),
		InitialYear:  e.InitialDate.Year(),
	}
}

func decodeEvents(dtos []moneyEventDTO) ([]core.MoneyEvent, error) {
	events := make([]core.MoneyEvent, 0, len(dtos))
	for _, d := range dtos {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// BudgetService fetches the monthly budget view.
type BudgetService struct {
	client *Client
}

func NewBudgetService(client *Client) *BudgetService {
	return &BudgetService{client: client}
}

// GetBudget returns all incomes and payments for the given month.
func (s *BudgetService) GetBudget(ctx context.Context, year, month int) (Budget, error) {
	resource := fmt.Sprintf("budgets?year=%d&month=%d", year, month)
	resp, err := s.client.CallProtected(ctx, http.MethodGet, resource, nil)
	if err != nil {
		return Budget{}, err
	}
	if err := resp.Err(); err != nil {
		return Budget{}, err
	}

	var body struct {
		Incomes  []moneyEventDTO `json:"incomes"`
		Payments []moneyEventDTO `json:"payments"`
	}
	if err := resp.JSON(&body); err != nil {
		return Budget{}, fmt.Errorf("decode budget response: %w", err)
	}

	incomes, err := decodeEvents(body.Incomes)
	if err != nil {
		return Budget{}, err
	}
	payments, err := decodeEvents(body.Payments)
	if err != nil {
		return Budget{}, err
	}
	return Budget{Year: year, Month: month, Incomes: incomes, Payments: payments}, nil
}
