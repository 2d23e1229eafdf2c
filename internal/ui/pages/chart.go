package pages

import (
	"fmt"
	"strings"

	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/theme"
)

// Dataset is one canned series for the validations chart.
type Dataset struct {
	Labels []string
	Values []int
}

var datasets = map[state.Period]Dataset{
	state.PeriodDay: {
		Labels: []string{"00-04", "04-08", "08-12", "12-16", "16-20", "20-24"},
		Values: []int{12, 8, 45, 62, 38, 20},
	},
	state.PeriodWeek: {
		Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Values: []int{120, 145, 132, 160, 155, 90, 75},
	},
	state.PeriodMonth: {
		Labels: []string{"Week 1", "Week 2", "Week 3", "Week 4"},
		Values: []int{820, 910, 875, 960},
	},
	state.PeriodYear: {
		Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		Values: []int{3200, 3450, 3600, 3380, 3900, 4100, 3950, 4200, 4350, 4500, 4420, 4800},
	},
}

// DatasetFor returns the series for p, falling back to the default period.
func DatasetFor(p state.Period) Dataset {
	if ds, ok := datasets[p]; ok {
		return ds
	}
	return datasets[state.DefaultPeriod]
}

const (
	barRune     = "█"
	minBarWidth = 10
	maxBarWidth = 50
)

// RenderChart draws a horizontal bar chart of the period's dataset.
func RenderChart(p state.Period, width int, s *theme.Styles) []string {
	ds := DatasetFor(p)
	labelWidth, valueWidth, peak := 0, 0, 0
	for i, label := range ds.Labels {
		if n := len([]rune(label)); n > labelWidth {
			labelWidth = n
		}
		if n := len(fmt.Sprint(ds.Values[i])); n > valueWidth {
			valueWidth = n
		}
		if ds.Values[i] > peak {
			peak = ds.Values[i]
		}
	}
	barWidth := width - labelWidth - valueWidth - 4
	if barWidth > maxBarWidth || width <= 0 {
		barWidth = maxBarWidth
	}
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	lines := make([]string, len(ds.Labels))
	for i, label := range ds.Labels {
		n := 0
		if peak > 0 {
			n = ds.Values[i] * barWidth / peak
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(label)))
		bar := theme.Render(s.ChartBar, strings.Repeat(barRune, n))
		lines[i] = fmt.Sprintf("%s%s  %s %*d", theme.Render(s.ChartLabel, label), pad, bar+strings.Repeat(" ", barWidth-n), valueWidth, ds.Values[i])
	}
	return lines
}
