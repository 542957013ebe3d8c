package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period spec")

type PeriodKind string

const (
	PeriodMonthly    PeriodKind = "monthly"
	PeriodQuarterly  PeriodKind = "quarterly"
	PeriodSemiannual PeriodKind = "semiannual"
	PeriodAnnual     PeriodKind = "annual"
)

// PeriodSpec selects one reporting interval. Unit is the kind-specific
// sub-unit: month 1-12, quarter 1-4, semester 1-2; ignored for annual.
type PeriodSpec struct {
	Kind PeriodKind
	Year int
	Unit int
}

// PeriodWindow is a concrete [Start, End) interval in UTC.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
	Label string
	Kind  PeriodKind
}

// ResolvePeriod turns a spec into the current window plus the immediately
// preceding equivalent window (one month back for monthly, one quarter back
// for quarterly, and so on), crossing year boundaries as needed.
func ResolvePeriod(spec PeriodSpec) (current, previous PeriodWindow, err error) {
	if spec.Year < 1 {
		return PeriodWindow{}, PeriodWindow{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, spec.Year)
	}

	switch spec.Kind {
	case PeriodMonthly:
		if spec.Unit < 1 || spec.Unit > 12 {
			return PeriodWindow{}, PeriodWindow{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, spec.Unit)
		}
		current = monthlyWindow(spec.Year, spec.Unit)
		prevYear, prevMonth := spec.Year, spec.Unit-1
		if prevMonth < 1 {
			prevYear, prevMonth = spec.Year-1, 12
		}
		previous = monthlyWindow(prevYear, prevMonth)

	case PeriodQuarterly:
		if spec.Unit < 1 || spec.Unit > 4 {
			return PeriodWindow{}, PeriodWindow{}, fmt.Errorf("%w: quarter %d", ErrInvalidPeriod, spec.Unit)
		}
		current = spanWindow(spec.Year, spec.Unit, 3, PeriodQuarterly)
		prevYear, prevUnit := spec.Year, spec.Unit-1
		if prevUnit < 1 {
			prevYear, prevUnit = spec.Year-1, 4
		}
		previous = spanWindow(prevYear, prevUnit, 3, PeriodQuarterly)

	case PeriodSemiannual:
		if spec.Unit < 1 || spec.Unit > 2 {
			return PeriodWindow{}, PeriodWindow{}, fmt.Errorf("%w: semester %d", ErrInvalidPeriod, spec.Unit)
		}
		current = spanWindow(spec.Year, spec.Unit, 6, PeriodSemiannual)
		prevYear, prevUnit := spec.Year, spec.Unit-1
		if prevUnit < 1 {
			prevYear, prevUnit = spec.Year-1, 2
		}
		previous = spanWindow(prevYear, prevUnit, 6, PeriodSemiannual)

	case PeriodAnnual:
		current = annualWindow(spec.Year)
		previous = annualWindow(spec.Year - 1)

	default:
		return PeriodWindow{}, PeriodWindow{}, fmt.Errorf("%w: kind %q", ErrInvalidPeriod, spec.Kind)
	}

	return current, previous, nil
}

func monthlyWindow(year, month int) PeriodWindow {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return PeriodWindow{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: start.Format("January 2006"),
		Kind:  PeriodMonthly,
	}
}

// spanWindow covers `months` consecutive months starting at sub-unit `unit`.
func spanWindow(year, unit, months int, kind PeriodKind) PeriodWindow {
	startMonth := (unit-1)*months + 1
	start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)

	label := fmt.Sprintf("Q%d %d", unit, year)
	if kind == PeriodSemiannual {
		label = fmt.Sprintf("H%d %d", unit, year)
	}

	return PeriodWindow{
		Start: start,
		End:   start.AddDate(0, months, 0),
		Label: label,
		Kind:  kind,
	}
}

func annualWindow(year int) PeriodWindow {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return PeriodWindow{
		Start: start,
		End:   start.AddDate(1, 0, 0),
		Label: fmt.Sprintf("%d", year),
		Kind:  PeriodAnnual,
	}
}
