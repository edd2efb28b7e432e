package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Once    Recurrence = "once"
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

const (
	KindIncome  EventKind = "income"
	KindPayment EventKind = "payment"
)

type (
	// Recurrence is the repeat cadence of a money event.
	Recurrence string

	// EventKind classifies a money event as money coming in or going out.
	EventKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// MoneyEvent is the shared shape of incomes and payments. The
	// recurrence engine never mutates it; updates go through the API
	// services.
	MoneyEvent struct {
		ID          string
		Title       string
		Amount      Money
		Recurrence  Recurrence
		InitialDate Date
		CreatedOn   time.Time
		ModifiedOn  time.Time
	}

	// DueTodayItem tags a money event as due on the queried date. Derived
	// per query, never persisted.
	DueTodayItem struct {
		Event MoneyEvent
		Kind  EventKind
	}

	// User is the profile held by the backend for the signed-in account.
	User struct {
		FirstName            string
		LastName             string
		Email                string
		IsMfaVerified        bool
		DeviceOS             string
		IncomeNotifications  bool
		PaymentNotifications bool
		CreatedOn            time.Time
		ModifiedOn           time.Time
	}
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyTitle        = errors.New("empty title")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Weekday returns the day of the week
func (d Date) Weekday() time.Weekday {
	return d.Time.Weekday()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to a calendar date in UTC.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.Day() == other.Day()
}

// OnOrAfter reports whether d falls on other's day or later. Both sides
// are normalized to UTC midnight by NewDate.
func (d Date) OnOrAfter(other Date) bool {
	return !d.Time.Before(other.Time)
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Recurrence) Validate() error {
	switch r {
	case Once, Daily, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidRecurrence
	}
}

func (e MoneyEvent) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Recurrence.Validate(); err != nil {
		return err
	}
	if err := e.InitialDate.Validate(); err != nil {
		return errors.New("invalid initial date: " + err.Error())
	}
	return nil
}
