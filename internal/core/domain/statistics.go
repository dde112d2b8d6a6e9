package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StatsPeriod selects the calendar window of an overview.
type StatsPeriod string

const (
	StatsPeriodWeek  StatsPeriod = "week"
	StatsPeriodMonth StatsPeriod = "month"
	StatsPeriodYear  StatsPeriod = "year"
)

// TrendGranularity is the bucket size of a trend series.
type TrendGranularity string

const (
	GranularityDaily   TrendGranularity = "daily"
	GranularityWeekly  TrendGranularity = "weekly"
	GranularityMonthly TrendGranularity = "monthly"
)

// IsValid reports whether g is a known granularity.
func (g TrendGranularity) IsValid() bool {
	return g == GranularityDaily || g == GranularityWeekly || g == GranularityMonthly
}

// DefaultStatsWindow is used for unknown period keywords.
const DefaultStatsWindow = 30 * 24 * time.Hour

// lastInstant is the smallest step the store keeps for timestamps.
const lastInstant = time.Microsecond

// PeriodRange returns the inclusive [start, end] window for period around now.
// Weeks run Monday to Sunday. Unknown keywords give the trailing 30 days.
func PeriodRange(period StatsPeriod, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	switch period {
	case StatsPeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7).Add(-lastInstant)
	case StatsPeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0).Add(-lastInstant)
	case StatsPeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0).Add(-lastInstant)
	}
	return now.Add(-DefaultStatsWindow), now
}

// CategoryTotal is the expense total of one root category.
type CategoryTotal struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

// Overview summarizes income and expenses over a window.
type Overview struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	NetSavings   decimal.Decimal `json:"netSavings"`
	Categories   []CategoryTotal `json:"categories"`
}

// DailyTotal is the sum of one transaction type on one calendar day.
type DailyTotal struct {
	Day   time.Time
	Total decimal.Decimal
}

// TrendPoint is one bucket of a trend series.
type TrendPoint struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
}

// TrendWindowStart is the beginning of a trailing window of months, counted as 30 days each.
func TrendWindowStart(months int, now time.Time) time.Time {
	return now.AddDate(0, 0, -30*months)
}

// TrendLabel formats t as the bucket label for g.
func TrendLabel(g TrendGranularity, t time.Time) string {
	switch g {
	case GranularityWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GranularityMonthly:
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// BucketTrend folds daily totals into g-sized buckets ordered by label.
func BucketTrend(g TrendGranularity, days []DailyTotal) []TrendPoint {
	sums := make(map[string]decimal.Decimal)
	for _, d := range days {
		label := TrendLabel(g, d.Day)
		sums[label] = sums[label].Add(d.Total)
	}
	points := make([]TrendPoint, 0, len(sums))
	for label, total := range sums {
		points = append(points, TrendPoint{Period: label, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}
