package model

import (
	"time"

	"telegram-code-store/internal/domain"
)

// WindowKind selects a reporting time window.
type WindowKind string

const (
	WindowToday        WindowKind = "today"
	WindowThisMonth    WindowKind = "month"
	WindowTrailingDays WindowKind = "last"
	WindowAllTime      WindowKind = "total"
)

// Window is a half-open [Start, now) date predicate over the ledger.
// Days is only meaningful for WindowTrailingDays.
type Window struct {
	Kind WindowKind
	Days int
}

func Today() Window            { return Window{Kind: WindowToday} }
func ThisMonth() Window        { return Window{Kind: WindowThisMonth} }
func TrailingDays(n int) Window { return Window{Kind: WindowTrailingDays, Days: n} }
func AllTime() Window          { return Window{Kind: WindowAllTime} }

// Start resolves the window's lower bound in loc. The zero time and false
// mean unbounded (all time).
func (w Window) Start(now time.Time, loc *time.Location) (time.Time, bool, error) {
	now = now.In(loc)
	switch w.Kind {
	case WindowToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true, nil
	case WindowThisMonth:
		y, m, _ := now.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), true, nil
	case WindowTrailingDays:
		if w.Days <= 0 {
			return time.Time{}, false, domain.ErrInvalidArgument
		}
		y, m, d := now.AddDate(0, 0, -w.Days).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true, nil
	case WindowAllTime:
		return time.Time{}, false, nil
	}
	return time.Time{}, false, domain.ErrInvalidArgument
}

// TypeTotal is the per-type slice of a sales summary.
type TypeTotal struct {
	Quantity int64
	Revenue  int64
}

// SalesSummary aggregates the ledger over one window. Revenue is derived
// from the catalog at read time, never stored.
type SalesSummary struct {
	Window        Window
	TotalQuantity int64
	TotalRevenue  int64
	PerType       map[ProductType]TypeTotal
}

// LeaderboardRole selects which identity column a leaderboard groups by.
type LeaderboardRole string

const (
	RoleBuyer  LeaderboardRole = "buyer"
	RoleSeller LeaderboardRole = "seller"
)

// LeaderboardEntry is one ranked row: an identity and its total quantity.
type LeaderboardEntry struct {
	Identity      string
	TotalQuantity int64
}
