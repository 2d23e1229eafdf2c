package state

// Period is the dashboard chart's validation filter.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// DefaultPeriod is selected on every entry to the dashboard.
const DefaultPeriod = PeriodWeek

// Periods lists the filters in display order.
func Periods() []Period {
	return []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}
}

// PeriodForKey maps the d/w/m/y shortcuts to a Period.
func PeriodForKey(key string) (Period, bool) {
	switch key {
	case "d":
		return PeriodDay, true
	case "w":
		return PeriodWeek, true
	case "m":
		return PeriodMonth, true
	case "y":
		return PeriodYear, true
	}
	return "", false
}
