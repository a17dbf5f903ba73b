package settlement

import "time"

// Room is a billable unit of rental inventory. Label is the building short
// name plus room number, resolved by the data source. CheckoutTime and
// CheckinTime are the contracted default times in HH:MM[:SS] form.
// StartDate/EndDate bound the service interval; a room with Closed unset is
// open-ended regardless of EndDate.
type Room struct {
	ID           int64
	HostID       int64
	Label        string
	BedCount     int
	CheckoutTime string
	CheckinTime  string
	RuleSetID    int64
	Closed       bool
	StartDate    time.Time
	EndDate      time.Time
}

// ActiveWindow is a room's billable share of a month.
type ActiveWindow struct {
	ActiveDays int
	DaysRatio  float64
}

// openEnded reports whether the room has no effective end of service.
func (r Room) openEnded() bool {
	return !r.Closed || r.EndDate.IsZero()
}

// ActiveWindow resolves the room's active-day window within the month.
// The second return is false when the room's service interval does not
// overlap the month at all; such rooms are excluded, not billed zero.
func (r Room) ActiveWindow(m Month) (ActiveWindow, bool) {
	monthStart, monthEnd := m.Start(), m.End()

	from := monthStart
	if r.StartDate.After(from) {
		from = dateOnly(r.StartDate)
	}
	until := monthEnd
	if !r.openEnded() && dateOnly(r.EndDate).Before(until) {
		until = dateOnly(r.EndDate)
	}
	if from.After(until) {
		return ActiveWindow{}, false
	}

	days := m.Days()
	active := days
	if !r.openEnded() {
		active = int(until.Sub(from).Hours()/24) + 1
		if active > days {
			active = days
		}
		if active < 1 {
			active = 1
		}
	}
	return ActiveWindow{
		ActiveDays: active,
		DaysRatio:  float64(active) / float64(days),
	}, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
