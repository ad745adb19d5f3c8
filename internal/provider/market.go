package provider

import "time"

// MarketStatus describes the US equity regular session at an instant.
type MarketStatus struct {
	Open     bool
	Now      time.Time
	NextOpen time.Time
}

var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Hosts without tzdata lose DST handling but keep working.
		return time.FixedZone("ET", -5*60*60)
	}
	return loc
}

// MarketStatusAt reports the session state at an instant. Regular hours
// only, 9:30 to 16:00 Eastern on weekdays; exchange holidays are not
// tracked.
func MarketStatusAt(t time.Time) MarketStatus {
	et := t.In(eastern)
	isWeekday := et.Weekday() != time.Saturday && et.Weekday() != time.Sunday
	open := sessionOpen(et)
	close := time.Date(et.Year(), et.Month(), et.Day(), 16, 0, 0, 0, eastern)

	status := MarketStatus{
		Open: isWeekday && !et.Before(open) && !et.After(close),
		Now:  et,
	}
	if !status.Open {
		status.NextOpen = nextSessionOpen(et)
	}
	return status
}

// MarketStatusNow reports the current session state
func MarketStatusNow() MarketStatus {
	return MarketStatusAt(time.Now())
}

// Eastern is the exchange timezone used for session math.
func Eastern() *time.Location {
	return eastern
}

func sessionOpen(et time.Time) time.Time {
	return time.Date(et.Year(), et.Month(), et.Day(), 9, 30, 0, 0, eastern)
}

func nextSessionOpen(et time.Time) time.Time {
	if et.Weekday() != time.Saturday && et.Weekday() != time.Sunday && et.Before(sessionOpen(et)) {
		return sessionOpen(et)
	}
	d := et.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return sessionOpen(d)
}
