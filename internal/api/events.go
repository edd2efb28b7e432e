package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"budgets/internal/core"
	"budgets/internal/log"
)

// ChangePublisher is notified after a money event mutation so downstream
// consumers (the sheet sync worker) can re-sync the affected month.
// Publishing is best effort; failures never fail the mutation.
type ChangePublisher interface {
	PublishBudgetChanged(ctx context.Context, year, month int, kind core.EventKind, eventID string) error
}

// EventService manages one money-event resource (incomes or payments).
type EventService struct {
	client    *Client
	resource  string
	kind      core.EventKind
	publisher ChangePublisher
	logger    *log.Logger
}

// NewIncomeService manages the incomes resource.
func NewIncomeService(client *Client, logger *log.Logger) *EventService {
	return newEventService(client, "incomes", core.KindIncome, logger)
}

// NewPaymentService manages the payments resource.
func NewPaymentService(client *Client, logger *log.Logger) *EventService {
	return newEventService(client, "payments", core.KindPayment, logger)
}

func newEventService(client *Client, resource string, kind core.EventKind, logger *log.Logger) *EventService {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAPI)
	}
	return &EventService{client: client, resource: resource, kind: kind, logger: logger}
}

// WithPublisher attaches a change publisher. Optional.
func (s *EventService) WithPublisher(p ChangePublisher) *EventService {
	s.publisher = p
	return s
}

// Kind reports which side of the budget this service manages.
func (s *EventService) Kind() core.EventKind {
	return s.kind
}

// List returns all events of this kind, in backend order.
func (s *EventService) List(ctx context.Context) ([]core.MoneyEvent, error) {
	resp, err := s.client.CallProtected(ctx, http.MethodGet, s.resource, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	var dtos []moneyEventDTO
	if err := resp.JSON(&dtos); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", s.resource, err)
	}
	return decodeEvents(dtos)
}

// Create stores a new event and returns it with backend-assigned fields.
func (s *EventService) Create(ctx context.Context, event core.MoneyEvent) (core.MoneyEvent, error) {
	if err := event.Validate(); err != nil {
		return core.MoneyEvent{}, err
	}
	resp, err := s.client.CallProtected(ctx, http.MethodPost, s.resource, fromDomain(event))
	if err != nil {
		return core.MoneyEvent{}, err
	}
	if err := resp.Err(); err != nil {
		return core.MoneyEvent{}, err
	}
	var dto moneyEventDTO
	if err := resp.JSON(&dto); err != nil {
		return core.MoneyEvent{}, fmt.Errorf("decode created %s: %w", s.resource, err)
	}
	created, err := dto.toDomain()
	if err != nil {
		return core.MoneyEvent{}, err
	}
	s.publishChange(ctx, created)
	return created, nil
}

// Update replaces an existing event.
func (s *EventService) Update(ctx context.Context, event core.MoneyEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	resp, err := s.client.CallProtected(ctx, http.MethodPut, s.resource+"/"+event.ID, fromDomain(event))
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	s.publishChange(ctx, event)
	return nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, event core.MoneyEvent) error {
	resp, err := s.client.CallProtected(ctx, http.MethodDelete, s.resource+"/"+event.ID, nil)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	s.publishChange(ctx, event)
	return nil
}

func (s *EventService) publishChange(ctx context.Context, event core.MoneyEvent) {
	if s.publisher == nil {
		return
	}
	now := time.Now()
	err := s.publisher.PublishBudgetChanged(ctx, now.Year(), int(now.Month()), s.kind, event.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish budget change",
			log.FieldEventID, event.ID,
			log.FieldError, err)
	}
}
