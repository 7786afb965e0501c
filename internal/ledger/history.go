package ledger

import (
	"sort"
	"time"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
)

// Periods used by TimeOfDayTrends, in display order.
const (
	PeriodMorning   = "morning"   // 06:00-11:59
	PeriodAfternoon = "afternoon" // 12:00-17:59
	PeriodEvening   = "evening"   // 18:00-23:59
	PeriodNight     = "night"     // 00:00-05:59
)

// Summarize computes completion statistics for one habit from its closed
// days. Days that were unscheduled, paused or on vacation are kept in Days
// but do not count towards the rate.
func Summarize(habitID string, windowDays int, records []models.HabitDay) models.HistoryStats {
	days := make([]models.HabitDay, len(records))
	copy(days, records)
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	stats := models.HistoryStats{
		HabitID:    habitID,
		WindowDays: windowDays,
		Days:       days,
	}
	for _, d := range days {
		if d.Streak > stats.LongestStreak {
			stats.LongestStreak = d.Streak
		}
		if !d.Counts() {
			continue
		}
		stats.DaysTracked++
		if d.Met {
			stats.DaysMet++
		}
	}
	if stats.DaysTracked > 0 {
		stats.CompletionRate = float64(stats.DaysMet) / float64(stats.DaysTracked)
	}
	return stats
}

// WeekdayTrends returns one entry per weekday, Sunday first, with the share of
// counted days that met their target.
func WeekdayTrends(records []models.HabitDay) []models.WeekdayTrend {
	trends := make([]models.WeekdayTrend, len(models.AllWeekdays))
	for i, wd := range models.AllWeekdays {
		trends[i].Weekday = wd
	}
	for _, d := range records {
		if !d.Counts() {
			continue
		}
		t, err := time.Parse(constants.DateFormat, d.Day)
		if err != nil {
			continue
		}
		tr := &trends[int(t.Weekday())]
		tr.Tracked++
		if d.Met {
			tr.Met++
		}
	}
	for i := range trends {
		if trends[i].Tracked > 0 {
			trends[i].Rate = float64(trends[i].Met) / float64(trends[i].Tracked)
		}
	}
	return trends
}

// TimeOfDayTrends buckets met days by the hour, in loc, at which the target
// was reached. Days without a completion time are ignored.
func TimeOfDayTrends(records []models.HabitDay, loc *time.Location) []models.TimeOfDayTrend {
	order := []string{PeriodMorning, PeriodAfternoon, PeriodEvening, PeriodNight}
	counts := make(map[string]int, len(order))
	total := 0
	for _, d := range records {
		if !d.Met || d.CompletedAt == nil {
			continue
		}
		counts[periodOf(d.CompletedAt.In(loc).Hour())]++
		total++
	}

	trends := make([]models.TimeOfDayTrend, 0, len(order))
	for _, p := range order {
		tr := models.TimeOfDayTrend{Period: p, Met: counts[p]}
		if total > 0 {
			tr.Share = float64(tr.Met) / float64(total)
		}
		trends = append(trends, tr)
	}
	return trends
}

func periodOf(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 18:
		return PeriodAfternoon
	case hour >= 18:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// Analyze aggregates the closed days of several habits. streaks holds the
// current streak of every active habit and feeds AverageStreak.
func Analyze(userID string, windowDays int, records []models.HabitDay, streaks []int, loc *time.Location) models.Analytics {
	a := models.Analytics{
		UserID:     userID,
		WindowDays: windowDays,
		Weekdays:   WeekdayTrends(records),
		TimesOfDay: TimeOfDayTrends(records, loc),
	}
	for _, d := range records {
		if !d.Counts() {
			continue
		}
		a.DaysTracked++
		if d.Met {
			a.DaysMet++
		}
	}
	if a.DaysTracked > 0 {
		a.CompletionRate = float64(a.DaysMet) / float64(a.DaysTracked)
	}
	if len(streaks) > 0 {
		sum := 0
		for _, s := range streaks {
			sum += s
		}
		a.AverageStreak = float64(sum) / float64(len(streaks))
	}
	return a
}
