package habits

import (
	"fmt"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/tracker"
)

// RolloverCmd closes finished days. It is safe to run repeatedly, for
// example from cron shortly after midnight.
type RolloverCmd struct {
	Date string `help:"Close days up to and including this date (YYYY-MM-DD, default: yesterday)."`
	All  bool   `help:"Roll over every user, not just --user."`
}

func (c *RolloverCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var reports []tracker.RolloverReport
	if c.All {
		var err error
		reports, err = ctx.Tracker.RolloverAll(ctx.Ctx, c.Date)
		if err != nil {
			return err
		}
	} else {
		r, err := ctx.Tracker.Rollover(ctx.Ctx, ctx.UserID, c.Date)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	for _, r := range reports {
		fmt.Printf("%s: closed %d day(s) across %d habit(s) through %s\n", r.UserID, r.DaysClosed, r.Habits, r.Through)
	}
	return nil
}
