package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"budgets/internal/core"
)

type recordingPublisher struct {
	published []string
	err       error
}

func (p *recordingPublisher) PublishBudgetChanged(_ context.Context, _, _ int, _ core.EventKind, eventID string) error {
	p.published = append(p.published, eventID)
	return p.err
}

func protectedStore() *memStore {
	s := newMemStore()
	s.creds = &core.Credentials{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	return s
}

func eventDTOBody(id string, amount string) map[string]any {
	return map[string]any{
		"id":           id,
		"title":        "rent",
		"amount":       json.Number(amount),
		"recurrence":   "monthly",
		"initialDay":   5,
		"initialMonth": 1,
		"initialYear":  2024,
	}
}

func TestEventServiceCreatePublishesChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		writeJSON(t, w, http.StatusOK, eventDTOBody("pay-1", "400.00"))
	}))
	defer srv.Close()

	pub := &recordingPublisher{}
	svc := NewPaymentService(NewClient(srv.URL, srv.Client(), protectedStore(), nil), nil).WithPublisher(pub)

	created, err := svc.Create(context.Background(), core.MoneyEvent{
		Title:       "rent",
		Amount:      core.Money{Cents: 40000},
		Recurrence:  core.Monthly,
		InitialDate: core.NewDate(2024, 1, 5),
	})
	require.NoError(t, err)
	require.Equal(t, "pay-1", created.ID)
	require.Equal(t, int64(40000), created.Amount.Cents)
	require.Equal(t, []string{"pay-1"}, pub.published)
}

func TestEventServiceCreateRejectsInvalidEvent(t *testing.T) {
	svc := NewIncomeService(NewClient("http://unused", nil, protectedStore(), nil), nil)

	_, err := svc.Create(context.Background(), core.MoneyEvent{Title: " "})
	require.ErrorIs(t, err, core.ErrEmptyTitle)
}

func TestEventServiceListDecodesExactAmounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/incomes", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []map[string]any{
			eventDTOBody("inc-1", "10.50"),
			eventDTOBody("inc-2", "5.25"),
		})
	}))
	defer srv.Close()

	svc := NewIncomeService(NewClient(srv.URL, srv.Client(), protectedStore(), nil), nil)

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, int64(1050), events[0].Amount.Cents)
	require.Equal(t, int64(525), events[1].Amount.Cents)
}

func TestEventServiceDeleteSurvivesPublishFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay-1", r.URL.Path)
		require.Equal(t, http.MethodDelete, r.Method)
		writeJSON(t, w, http.StatusOK, map[string]string{})
	}))
	defer srv.Close()

	pub := &recordingPublisher{err: context.DeadlineExceeded}
	svc := NewPaymentService(NewClient(srv.URL, srv.Client(), protectedStore(), nil), nil).WithPublisher(pub)

	err := svc.Delete(context.Background(), core.MoneyEvent{ID: "pay-1"})
	require.NoError(t, err, "publish failures never fail the mutation")
	require.Equal(t, []string{"pay-1"}, pub.published)
}

func TestBudgetServiceGetBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/budgets", r.URL.Path)
		require.Equal(t, "2024", r.URL.Query().Get("year"))
		require.Equal(t, "3", r.URL.Query().Get("month"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"incomes":  []map[string]any{eventDTOBody("inc-1", "1000.00")},
			"payments": []map[string]any{eventDTOBody("pay-1", "400.00")},
		})
	}))
	defer srv.Close()

	svc := NewBudgetService(NewClient(srv.URL, srv.Client(), protectedStore(), nil))

	b, err := svc.GetBudget(context.Background(), 2024, 3)
	require.NoError(t, err)
	require.Equal(t, 2024, b.Year)
	require.Equal(t, 3, b.Month)
	require.Len(t, b.Incomes, 1)
	require.Len(t, b.Payments, 1)
	require.Equal(t, int64(100000), b.Incomes[0].Amount.Cents)
}

func TestUserServiceGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"firstName": "Jo",
			"lastName":  "Bloggs",
			"email":     "jo@example.com",
			"device":    map[string]string{"os": "linux"},
			"notificationPreferences": map[string]bool{
				"incomeNotifications":  true,
				"paymentNotifications": false,
			},
		})
	}))
	defer srv.Close()

	svc := NewUserService(NewClient(srv.URL, srv.Client(), protectedStore(), nil))

	user, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Jo", user.FirstName)
	require.Equal(t, "linux", user.DeviceOS)
	require.True(t, user.IncomeNotifications)
	require.False(t, user.PaymentNotifications)
}
