package urgency

import (
	"time"

	"github.com/pursuitapp/pursuit/internal/domain"
)

// WindowDays is the rolling agenda horizon, in days from today.
const WindowDays = 14

// Thresholds set where workload-pressure warnings kick in. They drive
// display treatment only and never block an action.
type Thresholds struct {
	Heavy    int
	Critical int
}

// DefaultThresholds returns the stock pressure boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Heavy: 4, Critical: 6}
}

// Pressure is the coarse workload signal derived from upcoming deadlines.
type Pressure string

const (
	PressureNormal   Pressure = "normal"
	PressureHeavy    Pressure = "heavy"
	PressureCritical Pressure = "critical"
)

// AgendaDay is one calendar day in the window with the items due on it.
type AgendaDay struct {
	Date  time.Time
	Items []*domain.PipelineItem
}

// Agenda is the read-side projection of upcoming deadlines. It performs no
// mutation and is recomputed whenever the working set or now changes.
type Agenda struct {
	Days          []AgendaDay // WindowDays+1 entries, index 0 = today
	Conflicts     int         // days in the window with 2+ deadlines
	TotalUpcoming int         // items with 0 <= daysLeft <= WindowDays
	Pressure      Pressure
}

// BuildAgenda projects items with deadlines and a non-terminal stage onto
// the rolling window starting today. Terminal items and items without a
// deadline never appear.
func BuildAgenda(items []*domain.PipelineItem, now time.Time, th Thresholds) Agenda {
	today := midnight(now)

	a := Agenda{Days: make([]AgendaDay, WindowDays+1)}
	for i := range a.Days {
		a.Days[i].Date = today.AddDate(0, 0, i)
	}

	for _, item := range items {
		if item.Deadline == nil || item.Stage.IsTerminal() {
			continue
		}

		u := Classify(item.Deadline, now)
		if u.DaysLeft != nil && *u.DaysLeft >= 0 && *u.DaysLeft <= WindowDays {
			a.TotalUpcoming++
		}

		offset := calendarDays(today, midnight(*item.Deadline))
		if offset >= 0 && offset <= WindowDays {
			a.Days[offset].Items = append(a.Days[offset].Items, item)
		}
	}

	for _, day := range a.Days {
		if len(day.Items) >= 2 {
			a.Conflicts++
		}
	}

	switch {
	case a.TotalUpcoming >= th.Critical:
		a.Pressure = PressureCritical
	case a.TotalUpcoming >= th.Heavy:
		a.Pressure = PressureHeavy
	default:
		a.Pressure = PressureNormal
	}
	return a
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDays counts whole calendar days between two midnights.
func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
