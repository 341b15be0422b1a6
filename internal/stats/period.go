// Package stats computes month-bucketed series, category breakdowns and flat
// exports from a transaction set. Every function is pure.
package stats

import (
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Period selects how far back the statistics reach.
type Period string

// Supported periods.
const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "3months"
	PeriodYear    Period = "year"
)

// DefaultPeriod is used when no period is given.
const DefaultPeriod = PeriodMonth

const monthLabelStyle = "Jan 2006"

// ParsePeriod validates a period literal. An empty string is the default.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	case "":
		return DefaultPeriod, nil
	default:
		return "", common.Validationf("period %q must be month, 3months or year", s)
	}
}

// StartDate is the first instant of the period: the first of the current
// month, the first of the month two months back, or January 1st.
func (p Period) StartDate(now time.Time) time.Time {
	y, m, _ := now.Date()
	switch p {
	case PeriodQuarter:
		return time.Date(y, m-2, 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	}
}

// Range is StartDate through now, both inclusive.
func (p Period) Range(now time.Time) service.DateRange {
	return service.DateRange{Start: p.StartDate(now), End: now}
}

func (p Period) String() string {
	return string(p)
}

// FilterPeriod keeps transactions dated within the period, preserving order.
func FilterPeriod(txns []model.Transaction, p Period, now time.Time) []model.Transaction {
	r := p.Range(now)
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// monthStarts lists the first instant of every month from start's month
// through end's month.
func monthStarts(start, end time.Time) []time.Time {
	loc := end.Location()
	y, m, _ := start.In(loc).Date()
	cur := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	var out []time.Time
	for !cur.After(end) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func monthIndex(start, t time.Time) int {
	ty, tm, _ := t.In(start.Location()).Date()
	sy, sm, _ := start.Date()
	return (ty-sy)*12 + int(tm-sm)
}
