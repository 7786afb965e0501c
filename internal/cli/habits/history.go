package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/models"
)

const nameWidth = 20

type HabitHistoryCmd struct {
	Habit string `arg:"" optional:"" help:"Habit title or id (default: all habits)."`
	Days  int    `help:"Number of days to show." default:"14"`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if c.Days < 1 || c.Days > constants.MaxHistoryDays {
		return fmt.Errorf("--days must be between 1 and %d", constants.MaxHistoryDays)
	}

	var habits []models.Habit
	if c.Habit != "" {
		h, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	} else {
		all, err := ctx.Tracker.Habits(ctx.Ctx, ctx.UserID, false)
		if err != nil {
			return err
		}
		habits = all
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	for _, h := range habits {
		stats, err := ctx.Tracker.History(ctx.Ctx, ctx.UserID, h.ID, c.Days)
		if err != nil {
			return err
		}
		days := make(map[string]models.HabitDay, len(stats.Days))
		for _, d := range stats.Days {
			days[d.Day] = d
		}

		var row strings.Builder
		first, err := time.Parse(constants.DateFormat, h.ActiveDay)
		if err != nil {
			return fmt.Errorf("habit %s has invalid active day %q", h.ID, h.ActiveDay)
		}
		first = first.AddDate(0, 0, -c.Days)
		for i := 0; i < c.Days; i++ {
			day := first.AddDate(0, 0, i).Format(constants.DateFormat)
			d, ok := days[day]
			row.WriteString(cell(d, ok))
		}

		fmt.Printf("%s %s  %3.0f%% (%d/%d)  best %d\n",
			pad(h.Title), row.String(), stats.CompletionRate*100, stats.DaysMet, stats.DaysTracked, stats.LongestStreak)
	}
	fmt.Println("\n# met  . missed  ~ vacation  - paused  _ not scheduled")
	return nil
}

func cell(d models.HabitDay, recorded bool) string {
	switch {
	case !recorded:
		return " "
	case d.Met:
		return "#"
	case d.Paused:
		return "-"
	case d.Vacation:
		return "~"
	case !d.Scheduled:
		return "_"
	default:
		return "."
	}
}

func pad(name string) string {
	r := []rune(name)
	if len(r) > nameWidth {
		return string(r[:nameWidth-3]) + "..."
	}
	return name + strings.Repeat(" ", nameWidth-len(r))
}
